package data

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/roboquest/internal/model"
)

// TemplateTable holds enemy templates by name.
type TemplateTable struct {
	byName map[string]*model.AgentTemplate
}

// NewTemplateTable indexes templates by name.
func NewTemplateTable(templates ...model.AgentTemplate) *TemplateTable {
	t := &TemplateTable{byName: make(map[string]*model.AgentTemplate, len(templates))}
	for i := range templates {
		tmpl := templates[i]
		t.byName[tmpl.Name] = &tmpl
	}
	return t
}

// Get returns template by name, or nil if not found.
func (t *TemplateTable) Get(name string) *model.AgentTemplate {
	return t.byName[name]
}

// Names returns sorted template names.
func (t *TemplateTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns number of templates.
func (t *TemplateTable) Len() int {
	return len(t.byName)
}

// DefaultTemplates returns the built-in enemy kinds.
func DefaultTemplates() []model.AgentTemplate {
	return []model.AgentTemplate{
		{
			Name:      "SmallPod",
			Archetype: model.ArchetypeStationary,
			Level:     1,
			Locomotion: model.LocomotionParams{
				DetectRange:   1500,
				AttackRange:   1500,
				RotationSpeed: 5,
				EyeHeight:     50,
			},
			Attack: model.AttackParams{
				FireRate:         0.5,
				CritMultiplier:   1,
				ShotCount:        1,
				MuzzleOffset:     model.Vec3{X: 30},
				StaggerThreshold: 10,
				FireCue:          "pod_fire",
			},
			HealingDrops: 1,
		},
		{
			Name:      "SmallBot",
			Archetype: model.ArchetypeTank,
			Level:     1,
			Locomotion: model.LocomotionParams{
				MoveSpeed:     300,
				DetectRange:   1200,
				AttackRange:   700,
				StopDistance:  300,
				RotationSpeed: 80,
				AlignmentDot:  0.7,
				EyeHeight:     50,
			},
			Attack: model.AttackParams{
				FireRate:         0.25,
				InitialDelayMin:  0.5,
				InitialDelayMax:  1.5,
				Damage:           10,
				CritMultiplier:   1,
				ShotCount:        1,
				MuzzleOffset:     model.Vec3{X: 50, Z: 30},
				RequireRange:     true,
				RequireFacing:    true,
				AlignmentDot:     0.7,
				StaggerThreshold: 10,
				TelegraphCue:     "bot_windup",
				FireCue:          "bot_fire",
				HitReactCue:      "bot_hit",
			},
			HealingDrops: 2,
		},
		{
			Name:      "GunPawn",
			Archetype: model.ArchetypeStrafer,
			Level:     1,
			Locomotion: model.LocomotionParams{
				MoveSpeed:            350,
				DetectRange:          1500,
				AttackRange:          800,
				PreferredMinRange:    400,
				PreferredMaxRange:    900,
				EngageRangeFactor:    1.5,
				RotationSpeed:        10,
				StrafeChangeInterval: 2,
				StrafeSpeed:          1,
				EyeHeight:            50,
			},
			Attack: model.AttackParams{
				FireRate:         0.5,
				Damage:           10,
				CritMultiplier:   1,
				ShotCount:        3,
				SpreadDegrees:    10,
				Aim:              model.AimConvergent,
				MuzzleOffset:     model.Vec3{X: 40, Y: 15, Z: 40},
				TraceRange:       5000,
				RequireRange:     true,
				StaggerThreshold: 20,
				TelegraphCue:     "pawn_aim",
				FireCue:          "pawn_fire",
				HitReactCue:      "pawn_hit",
			},
			HealingDrops: 2,
		},
		{
			Name:      "LightFly",
			Archetype: model.ArchetypeFlyer,
			Level:     1,
			Locomotion: model.LocomotionParams{
				MoveSpeed:           400,
				DetectRange:         2000,
				AttackRange:         1500,
				PreferredMinRange:   500,
				PreferredMaxRange:   1200,
				RotationSpeed:       5,
				HoverChangeInterval: 3,
				HoverMoveScale:      1,
				ObstacleCheckRange:  100,
				AvoidanceStrength:   0.5,
				MinFlightHeight:     150,
			},
			Attack: model.AttackParams{
				FireRate:         0.5,
				Damage:           5,
				CritMultiplier:   1,
				ShotCount:        1,
				MuzzleOffset:     model.Vec3{X: 30},
				RequireRange:     true,
				StaggerThreshold: 10,
				TelegraphCue:     "fly_charge",
				FireCue:          "fly_fire",
				HitReactCue:      "fly_hit",
			},
			HealingDrops: 1,
		},
	}
}

// DefaultTemplateTable returns a table with DefaultTemplates.
func DefaultTemplateTable() *TemplateTable {
	return NewTemplateTable(DefaultTemplates()...)
}

type templateFile struct {
	Templates []model.AgentTemplate `yaml:"templates"`
}

// LoadTemplateTable reads enemy templates from YAML.
// If the file doesn't exist, returns DefaultTemplateTable.
func LoadTemplateTable(path string) (*TemplateTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("templates file not found, using built-in templates", "path", path)
			return DefaultTemplateTable(), nil
		}
		return nil, fmt.Errorf("reading templates %s: %w", path, err)
	}

	var f templateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", path, err)
	}
	for i, tmpl := range f.Templates {
		if tmpl.Name == "" {
			return nil, fmt.Errorf("parsing templates %s: entry %d has empty name", path, i)
		}
	}

	t := NewTemplateTable(f.Templates...)
	slog.Info("loaded enemy templates", "count", t.Len(), "path", path)
	return t, nil
}
