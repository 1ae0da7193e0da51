package combat

import (
	"log/slog"

	"github.com/udisondev/roboquest/internal/model"
)

// ExpReceiver is an agent that gains experience.
type ExpReceiver interface {
	ID() model.AgentID
	AddExp(amount float64)
}

// RewardExp grants the killed agent's experience reward to the killer.
func RewardExp(killer ExpReceiver, victim model.AgentID, exp float64) {
	if killer == nil || exp <= 0 {
		return
	}
	killer.AddExp(exp)

	slog.Debug("experience rewarded",
		"killer", killer.ID(),
		"victim", victim,
		"exp", exp)
}
