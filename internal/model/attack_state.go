package model

// AttackState is the phase of an enemy attack sequence.
type AttackState int32

const (
	// AttackIdle - ready to start a new sequence
	AttackIdle AttackState = iota
	// AttackTelegraphing - wind-up cue is playing, fire is pending
	AttackTelegraphing
	// AttackFiring - projectiles are being released
	AttackFiring
	// AttackInterrupted - sequence was cancelled by a stagger
	AttackInterrupted
)

// String returns human-readable attack state name
func (s AttackState) String() string {
	switch s {
	case AttackIdle:
		return "IDLE"
	case AttackTelegraphing:
		return "TELEGRAPHING"
	case AttackFiring:
		return "FIRING"
	case AttackInterrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}
