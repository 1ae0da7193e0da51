package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/roboquest/internal/db"
	"github.com/udisondev/roboquest/internal/event"
)

// logEvent reports gameplay milestones.
func logEvent(e event.Event) {
	switch ev := e.(type) {
	case event.AgentDied:
		slog.Info("agent died", "agent", ev.Agent, "killer", ev.Instigator)
	case event.LevelUp:
		slog.Info("level up", "agent", ev.Agent, "level", ev.Level)
	case event.ZoneActivated:
		slog.Info("zone activated", "zone", ev.Zone, "encounter", ev.EncounterID, "spawned", ev.Spawned)
	case event.HealingPickedUp:
		slog.Info("healing picked up", "agent", ev.Agent, "amount", ev.Amount)
	case event.AttackInterrupted:
		slog.Debug("attack interrupted", "agent", ev.Agent, "from", ev.From)
	}
}

func encounterRow(za event.ZoneActivated) (db.EncounterRow, error) {
	id, err := uuid.Parse(za.EncounterID)
	if err != nil {
		return db.EncounterRow{}, fmt.Errorf("parsing encounter id: %w", err)
	}
	return db.EncounterRow{
		ID:        id,
		Zone:      za.Zone,
		TriggerID: uint32(za.Trigger),
		Spawned:   za.Spawned,
	}, nil
}
