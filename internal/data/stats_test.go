package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatTable_LookupBaseStats(t *testing.T) {
	table := DefaultStatTable()

	row, err := table.LookupBaseStats(context.Background(), "SmallBot")
	require.NoError(t, err)
	assert.Equal(t, 100.0, row.BaseHealth)
	assert.Equal(t, 10.0, row.BaseDamage)
	assert.Equal(t, 50.0, row.ExpReward)

	_, err = table.LookupBaseStats(context.Background(), "Dragon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsNotFound))
}

func TestLoadStatTable_MissingFileReturnsDefaults(t *testing.T) {
	table, err := LoadStatTable(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, len(DefaultStatRows()), table.Len())
}

func TestLoadStatTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	content := `stats:
  - archetype_id: Boss
    base_health: 1000
    base_damage: 40
    exp_reward: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadStatTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row, err := table.LookupBaseStats(context.Background(), "Boss")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, row.BaseHealth)
	assert.Equal(t, 500.0, row.ExpReward)
}

func TestLoadStatTable_RejectsEmptyID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stats:\n  - base_health: 5\n"), 0o644))

	_, err := LoadStatTable(path)
	assert.Error(t, err)
}
