package world

import (
	"sync/atomic"

	"github.com/udisondev/roboquest/internal/model"
)

// IDGenerator hands out unique agent ids.
//
// ID ranges (convention):
//
//	0x00000000:              NoAgent
//	0x00000001 - 0x0FFFFFFF: Players
//	0x10000000 - 0xFFFFFFFF: Enemies
type IDGenerator struct {
	nextPlayerID atomic.Uint32
	nextEnemyID  atomic.Uint32
}

const (
	playerIDBase = 0x00000000
	enemyIDBase  = 0x10000000
)

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	gen := &IDGenerator{}
	gen.nextPlayerID.Store(playerIDBase)
	gen.nextEnemyID.Store(enemyIDBase)
	return gen
}

// NextPlayerID returns next player id. Thread-safe.
func (g *IDGenerator) NextPlayerID() model.AgentID {
	return model.AgentID(g.nextPlayerID.Add(1))
}

// NextEnemyID returns next enemy id. Thread-safe.
func (g *IDGenerator) NextEnemyID() model.AgentID {
	return model.AgentID(g.nextEnemyID.Add(1))
}

// IsEnemyID reports whether id lies in the enemy range.
func IsEnemyID(id model.AgentID) bool {
	return id > enemyIDBase
}
