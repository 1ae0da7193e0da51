package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrStatsNotFound is returned when an archetype has no stat row.
var ErrStatsNotFound = errors.New("archetype stats not found")

// BaseStats is the level 1 stat row of an archetype.
type BaseStats struct {
	ArchetypeID string  `yaml:"archetype_id"`
	BaseHealth  float64 `yaml:"base_health"`
	BaseDamage  float64 `yaml:"base_damage"`
	ExpReward   float64 `yaml:"exp_reward"`
}

// StatProvider resolves base stats for an archetype id.
type StatProvider interface {
	LookupBaseStats(ctx context.Context, archetypeID string) (BaseStats, error)
}

// StatTable is an in-memory stat provider.
// Safe for concurrent use.
type StatTable struct {
	mu   sync.RWMutex
	rows map[string]BaseStats
}

// NewStatTable builds a table from rows. Later rows override earlier ones with the same id.
func NewStatTable(rows ...BaseStats) *StatTable {
	t := &StatTable{rows: make(map[string]BaseStats, len(rows))}
	for _, r := range rows {
		t.rows[r.ArchetypeID] = r
	}
	return t
}

// DefaultStatRows returns the stat rows of the built-in enemies.
func DefaultStatRows() []BaseStats {
	return []BaseStats{
		{ArchetypeID: "SmallPod", BaseHealth: 60, BaseDamage: 5, ExpReward: 20},
		{ArchetypeID: "SmallBot", BaseHealth: 100, BaseDamage: 10, ExpReward: 50},
		{ArchetypeID: "GunPawn", BaseHealth: 80, BaseDamage: 10, ExpReward: 40},
		{ArchetypeID: "LightFly", BaseHealth: 50, BaseDamage: 5, ExpReward: 30},
	}
}

// DefaultStatTable returns a table with DefaultStatRows.
func DefaultStatTable() *StatTable {
	return NewStatTable(DefaultStatRows()...)
}

// LookupBaseStats implements StatProvider.
func (t *StatTable) LookupBaseStats(_ context.Context, archetypeID string) (BaseStats, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[archetypeID]
	if !ok {
		return BaseStats{}, fmt.Errorf("archetype %q: %w", archetypeID, ErrStatsNotFound)
	}
	return row, nil
}

// Rows returns a copy of all rows.
func (t *StatTable) Rows() []BaseStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]BaseStats, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	return out
}

// Len returns number of rows.
func (t *StatTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

type statFile struct {
	Stats []BaseStats `yaml:"stats"`
}

// LoadStatTable reads stat rows from a YAML file.
// If the file doesn't exist, returns DefaultStatTable.
func LoadStatTable(path string) (*StatTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("stats file not found, using built-in rows", "path", path)
			return DefaultStatTable(), nil
		}
		return nil, fmt.Errorf("reading stats %s: %w", path, err)
	}

	var f statFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing stats %s: %w", path, err)
	}
	for i, r := range f.Stats {
		if r.ArchetypeID == "" {
			return nil, fmt.Errorf("parsing stats %s: row %d has empty archetype_id", path, i)
		}
	}

	t := NewStatTable(f.Stats...)
	slog.Info("loaded archetype stats", "count", t.Len(), "path", path)
	return t, nil
}
