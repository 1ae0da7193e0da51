package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/model"
)

func TestDefaultTemplateTable(t *testing.T) {
	table := DefaultTemplateTable()
	assert.Equal(t, []string{"GunPawn", "LightFly", "SmallBot", "SmallPod"}, table.Names())

	bot := table.Get("SmallBot")
	require.NotNil(t, bot)
	assert.Equal(t, model.ArchetypeTank, bot.Archetype)
	assert.Equal(t, 1200.0, bot.FireRange(), "fires anywhere inside its detect range")
	assert.Equal(t, 700.0, bot.Locomotion.AttackRange, "chase threshold")

	pod := table.Get("SmallPod")
	require.NotNil(t, pod)
	assert.Equal(t, 1500.0, pod.FireRange(), "falls back to detect range")

	assert.Nil(t, table.Get("Dragon"))
}

func TestLoadTemplateTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `templates:
  - name: HeavyBot
    archetype: tank
    level: 3
    locomotion:
      move_speed: 200
      detect_range: 1000
      attack_range: 600
    attack:
      fire_rate: 0.5
      aim: convergent
      shot_count: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTemplateTable(path)
	require.NoError(t, err)

	heavy := table.Get("HeavyBot")
	require.NotNil(t, heavy)
	assert.Equal(t, model.ArchetypeTank, heavy.Archetype)
	assert.Equal(t, int32(3), heavy.Level)
	assert.Equal(t, model.AimConvergent, heavy.Attack.Aim)
	assert.Equal(t, 2, heavy.Attack.ShotCount)
}

func TestLoadTemplateTable_UnknownArchetype(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - name: X\n    archetype: walker\n"), 0o644))

	_, err := LoadTemplateTable(path)
	assert.Error(t, err)
}
