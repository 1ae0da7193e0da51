package main

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/event"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestEncounterRow(t *testing.T) {
	id := uuid.New()
	row, err := encounterRow(event.ZoneActivated{Zone: "hangar", EncounterID: id.String(), Trigger: 3, Spawned: 2})
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, uint32(3), row.TriggerID)

	_, err = encounterRow(event.ZoneActivated{EncounterID: "nope"})
	assert.Error(t, err)
}
