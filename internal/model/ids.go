package model

// AgentID is a weak handle to an agent, resolved through the world registry on every use.
type AgentID uint32

// NoAgent is the empty handle.
const NoAgent AgentID = 0

// Faction determines hostility between agents.
type Faction int32

const (
	// FactionPlayer - player-controlled agents
	FactionPlayer Faction = iota
	// FactionHostile - AI-driven enemies
	FactionHostile
)

// String returns human-readable faction name
func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "PLAYER"
	case FactionHostile:
		return "HOSTILE"
	default:
		return "UNKNOWN"
	}
}

// IsHostileTo reports whether agents of the two factions may damage each other.
func (f Faction) IsHostileTo(other Faction) bool {
	return f != other
}
