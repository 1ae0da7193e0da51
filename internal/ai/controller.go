package ai

import "github.com/udisondev/roboquest/internal/model"

// Controller drives one agent from the tick loop.
type Controller interface {
	// ID returns the controlled agent.
	ID() model.AgentID

	// Start arms timers (attack loop, direction re-picks).
	Start()

	// Stop cancels every timer of the agent. Idempotent.
	Stop()

	// Tick runs one frame; dt in seconds.
	Tick(dt float64)
}
