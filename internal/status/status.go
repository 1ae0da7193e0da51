// Package status implements health, scratch health, defense, speed and
// experience progression for a single agent.
//
// Scratch health is a recoverable buffer above current health: damage drains
// current health fully and scratch health by ScratchDamageFactor, and healing
// refills the gap between them at full efficiency before spilling into
// overheal at OverhealEfficiency. The invariant
// 0 ≤ current ≤ scratch ≤ max holds after every mutation.
package status

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
)

// Status is the survivability and progression state of one agent.
// Notifications are published after the lock is released.
type Status struct {
	mu    sync.RWMutex
	owner model.AgentID
	cfg   Config
	sink  event.Sink

	maxHealth     float64
	currentHealth float64
	scratchHealth float64

	level      int32
	currentExp float64
	maxExp     float64

	defense float64
	speed   float64

	baseDamage float64
	expReward  float64
}

// New creates a status at level 1 with full health.
// A nil sink discards notifications.
func New(owner model.AgentID, cfg Config, sink event.Sink) *Status {
	if sink == nil {
		sink = event.Discard
	}
	return &Status{
		owner:         owner,
		cfg:           cfg,
		sink:          sink,
		maxHealth:     cfg.InitialMaxHealth,
		currentHealth: cfg.InitialMaxHealth,
		scratchHealth: cfg.InitialMaxHealth,
		level:         1,
		maxExp:        cfg.InitialMaxExp,
		speed:         1,
	}
}

// TakeDamage reduces health by amount mitigated by defense and returns the
// effective damage. Non-positive amounts are ignored.
func (s *Status) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}

	s.mu.Lock()
	defense := clamp(s.defense, 0, s.cfg.MaxDefense)
	effective := amount * (1 - defense)

	s.currentHealth = clamp(s.currentHealth-effective, 0, s.maxHealth)
	s.scratchHealth = clamp(s.scratchHealth-effective*s.cfg.ScratchDamageFactor, 0, s.maxHealth)
	if s.scratchHealth < s.currentHealth {
		s.scratchHealth = s.currentHealth
	}
	ev := s.healthEventLocked()
	s.mu.Unlock()

	s.sink.Publish(ev)
	return effective
}

// Heal restores health. The gap up to scratch health is refilled first at
// full efficiency; the remainder is applied at OverhealEfficiency and pulls
// scratch health along. Non-positive amounts are ignored.
func (s *Status) Heal(amount float64) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	gap := s.scratchHealth - s.currentHealth
	if amount <= gap {
		s.currentHealth += amount
	} else {
		remaining := amount - gap
		s.currentHealth = s.scratchHealth + remaining*s.cfg.OverhealEfficiency
		s.scratchHealth = s.currentHealth
		if s.currentHealth > s.maxHealth {
			s.currentHealth = s.maxHealth
			s.scratchHealth = s.maxHealth
		}
	}
	ev := s.healthEventLocked()
	s.mu.Unlock()

	s.sink.Publish(ev)
}

// AddExp accumulates experience and cascades level-ups while the
// accumulated amount reaches maxExp. Each level-up subtracts the current
// maxExp before growing it. Non-positive amounts are ignored.
func (s *Status) AddExp(amount float64) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	s.currentExp += amount

	var events []event.Event
	for s.maxExp > 0 && s.currentExp >= s.maxExp {
		s.currentExp -= s.maxExp
		s.level++
		s.maxExp *= s.cfg.ExpIncreaseFactor

		s.maxHealth += s.cfg.HealthPerLevel
		s.scratchHealth += s.cfg.HealthPerLevel
		s.currentHealth += s.cfg.HealthPerLevel

		events = append(events, event.LevelUp{Agent: s.owner, Level: s.level})
	}
	events = append(events,
		event.ExpChanged{Agent: s.owner, Exp: s.currentExp, MaxExp: s.maxExp, Level: s.level},
		s.healthEventLocked(),
	)
	s.mu.Unlock()

	for _, ev := range events {
		s.sink.Publish(ev)
	}
}

// DamageMultiplier returns 1 + (level-1) * DamageMultiplierPerLevel.
func (s *Status) DamageMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return 1 + float64(s.level-1)*s.cfg.DamageMultiplierPerLevel
}

// InitializeFromArchetypeStats scales base health and exp reward to level and
// resets health to full. Non-positive base health is ignored.
func (s *Status) InitializeFromArchetypeStats(baseHealth, baseExpReward float64, level int32) {
	if baseHealth <= 0 {
		return
	}
	if level < 1 {
		level = 1
	}

	s.mu.Lock()
	scale := math.Pow(s.cfg.LevelScalingFactor, float64(level-1))
	s.level = level
	s.maxHealth = baseHealth * scale
	s.currentHealth = s.maxHealth
	s.scratchHealth = s.maxHealth
	s.expReward = baseExpReward * scale
	ev := s.healthEventLocked()
	s.mu.Unlock()

	s.sink.Publish(ev)
}

// InitializeFromArchetype resolves base stats through provider and applies
// them. On lookup failure the status is left unchanged and the error is
// returned after being logged.
func (s *Status) InitializeFromArchetype(ctx context.Context, provider data.StatProvider, archetypeID string, level int32) error {
	if provider == nil {
		slog.Warn("no stat provider, keeping default stats",
			"agent", s.owner,
			"archetype", archetypeID)
		return data.ErrStatsNotFound
	}

	stats, err := provider.LookupBaseStats(ctx, archetypeID)
	if err != nil {
		slog.Warn("archetype stats unavailable, keeping default stats",
			"agent", s.owner,
			"archetype", archetypeID,
			"err", err)
		return err
	}

	s.mu.Lock()
	s.baseDamage = stats.BaseDamage
	s.mu.Unlock()

	s.InitializeFromArchetypeStats(stats.BaseHealth, stats.ExpReward, level)
	return nil
}

// AddDefense changes the defense multiplier, clamped to [0, MaxDefense].
func (s *Status) AddDefense(delta float64) {
	s.mu.Lock()
	s.defense = clamp(s.defense+delta, 0, s.cfg.MaxDefense)
	ev := s.statsEventLocked()
	s.mu.Unlock()

	s.sink.Publish(ev)
}

// AddSpeed changes the speed multiplier, floored at MinSpeed.
func (s *Status) AddSpeed(delta float64) {
	s.mu.Lock()
	s.speed = math.Max(s.speed+delta, s.cfg.MinSpeed)
	ev := s.statsEventLocked()
	s.mu.Unlock()

	s.sink.Publish(ev)
}

// IsDead returns true if current health is zero.
func (s *Status) IsDead() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentHealth <= 0
}

// Owner returns the agent this status belongs to.
func (s *Status) Owner() model.AgentID { return s.owner }

// MaxHealth returns maximum health.
func (s *Status) MaxHealth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxHealth
}

// CurrentHealth returns current health.
func (s *Status) CurrentHealth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentHealth
}

// ScratchHealth returns scratch health.
func (s *Status) ScratchHealth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scratchHealth
}

// Level returns current level.
func (s *Status) Level() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// Exp returns accumulated experience toward the next level.
func (s *Status) Exp() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentExp
}

// MaxExp returns experience required for the next level.
func (s *Status) MaxExp() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxExp
}

// Defense returns the defense multiplier.
func (s *Status) Defense() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defense
}

// SpeedMultiplier returns the speed multiplier.
func (s *Status) SpeedMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

// BaseDamage returns the archetype base damage.
func (s *Status) BaseDamage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseDamage
}

// ExpReward returns experience granted to the killer.
func (s *Status) ExpReward() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expReward
}

func (s *Status) healthEventLocked() event.HealthChanged {
	return event.HealthChanged{
		Agent:   s.owner,
		Current: s.currentHealth,
		Scratch: s.scratchHealth,
		Max:     s.maxHealth,
	}
}

func (s *Status) statsEventLocked() event.StatsChanged {
	return event.StatsChanged{Agent: s.owner, Defense: s.defense, Speed: s.speed}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
