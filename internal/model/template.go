package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AimMode selects how an attack computes projectile direction.
type AimMode int32

const (
	// AimMuzzle - straight from the muzzle socket to the target
	AimMuzzle AimMode = iota
	// AimConvergent - from the muzzle toward the point hit by a trace along the view direction
	AimConvergent
)

// String returns human-readable aim mode name
func (m AimMode) String() string {
	switch m {
	case AimMuzzle:
		return "MUZZLE"
	case AimConvergent:
		return "CONVERGENT"
	default:
		return "UNKNOWN"
	}
}

// UnmarshalYAML decodes the aim mode by name.
func (m *AimMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("decoding aim mode: %w", err)
	}
	switch strings.ToUpper(s) {
	case "MUZZLE", "":
		*m = AimMuzzle
	case "CONVERGENT":
		*m = AimConvergent
	default:
		return fmt.Errorf("unknown aim mode %q", s)
	}
	return nil
}

// LocomotionParams are movement parameters fixed per instance.
// Интервалы в секундах, скорости в единицах/сек, углы в градусах.
type LocomotionParams struct {
	MoveSpeed            float64 `yaml:"move_speed"`
	DetectRange          float64 `yaml:"detect_range"`
	AttackRange          float64 `yaml:"attack_range"`
	StopDistance         float64 `yaml:"stop_distance"`
	PreferredMinRange    float64 `yaml:"preferred_min_range"`
	PreferredMaxRange    float64 `yaml:"preferred_max_range"`
	EngageRangeFactor    float64 `yaml:"engage_range_factor"`
	RotationSpeed        float64 `yaml:"rotation_speed"`
	AlignmentDot         float64 `yaml:"alignment_dot"`
	StrafeChangeInterval float64 `yaml:"strafe_change_interval"`
	// StrafeSpeed scales the strafer's normalized move input, at most 1.
	// Zero means full speed.
	StrafeSpeed         float64 `yaml:"strafe_speed"`
	HoverChangeInterval float64 `yaml:"hover_change_interval"`
	HoverMoveScale      float64 `yaml:"hover_move_scale"`
	ObstacleCheckRange  float64 `yaml:"obstacle_check_range"`
	AvoidanceStrength   float64 `yaml:"avoidance_strength"`
	MinFlightHeight     float64 `yaml:"min_flight_height"`
	EyeHeight           float64 `yaml:"eye_height"`
}

// AttackParams configure the attack sequence.
type AttackParams struct {
	// FireRate is attack attempts per second.
	FireRate        float64 `yaml:"fire_rate"`
	InitialDelayMin float64 `yaml:"initial_delay_min"`
	InitialDelayMax float64 `yaml:"initial_delay_max"`

	// Damage overrides the archetype base damage when positive.
	Damage         float64 `yaml:"damage"`
	Range          float64 `yaml:"range"`
	CritMultiplier float64 `yaml:"crit_multiplier"`
	ShotCount      int     `yaml:"shot_count"`
	SpreadDegrees  float64 `yaml:"spread_degrees"`

	Aim          AimMode `yaml:"aim"`
	MuzzleOffset Vec3    `yaml:"muzzle_offset"`
	TraceRange   float64 `yaml:"trace_range"`

	RequireRange  bool    `yaml:"require_range"`
	RequireFacing bool    `yaml:"require_facing"`
	AlignmentDot  float64 `yaml:"alignment_dot"`

	StaggerThreshold float64 `yaml:"stagger_threshold"`

	TelegraphCue string `yaml:"telegraph_cue"`
	FireCue      string `yaml:"fire_cue"`
	HitReactCue  string `yaml:"hit_react_cue"`
}

// AgentTemplate describes one enemy kind: which archetype drives it and its tuning.
type AgentTemplate struct {
	Name         string           `yaml:"name"`
	Archetype    Archetype        `yaml:"archetype"`
	Level        int32            `yaml:"level"`
	Locomotion   LocomotionParams `yaml:"locomotion"`
	Attack       AttackParams     `yaml:"attack"`
	HealingDrops int              `yaml:"healing_drops"`
}

// FireRange returns the range of the attack gate and of fired projectiles:
// Attack.Range when set, else the detect range. Locomotion.AttackRange is the
// unrelated chase threshold.
func (t *AgentTemplate) FireRange() float64 {
	if t.Attack.Range > 0 {
		return t.Attack.Range
	}
	return t.Locomotion.DetectRange
}
