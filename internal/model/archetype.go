package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Archetype selects the locomotion policy of an enemy.
type Archetype int32

const (
	// ArchetypeStationary - turret: rotates toward the target, never moves
	ArchetypeStationary Archetype = iota
	// ArchetypeTank - turns slowly, drives along its own facing
	ArchetypeTank
	// ArchetypeStrafer - keeps a preferred range band and strafes sideways
	ArchetypeStrafer
	// ArchetypeFlyer - hovers with obstacle and ground avoidance
	ArchetypeFlyer
)

// String returns human-readable archetype name
func (a Archetype) String() string {
	switch a {
	case ArchetypeStationary:
		return "STATIONARY"
	case ArchetypeTank:
		return "TANK"
	case ArchetypeStrafer:
		return "STRAFER"
	case ArchetypeFlyer:
		return "FLYER"
	default:
		return "UNKNOWN"
	}
}

// ParseArchetype parses a case-insensitive archetype name.
func ParseArchetype(s string) (Archetype, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STATIONARY":
		return ArchetypeStationary, nil
	case "TANK":
		return ArchetypeTank, nil
	case "STRAFER":
		return ArchetypeStrafer, nil
	case "FLYER":
		return ArchetypeFlyer, nil
	default:
		return 0, fmt.Errorf("unknown archetype %q", s)
	}
}

// MarshalYAML encodes the archetype by name.
func (a Archetype) MarshalYAML() (any, error) {
	return strings.ToLower(a.String()), nil
}

// UnmarshalYAML decodes the archetype by name.
func (a *Archetype) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("decoding archetype: %w", err)
	}
	parsed, err := ParseArchetype(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
