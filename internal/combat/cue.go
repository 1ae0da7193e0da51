package combat

import (
	"time"

	"github.com/udisondev/roboquest/internal/model"
)

// CuePlayer plays an animation or effect cue and returns its duration.
// Zero means the cue is unavailable or instantaneous.
type CuePlayer interface {
	PlayCue(owner model.AgentID, cue string) time.Duration
}

// CueTable is a CuePlayer backed by a static table of cue durations.
// Unknown cues have zero duration.
type CueTable struct {
	durations map[string]time.Duration
	observer  func(owner model.AgentID, cue string)
}

// NewCueTable creates a table from cue name → seconds.
func NewCueTable(seconds map[string]float64) *CueTable {
	t := &CueTable{durations: make(map[string]time.Duration, len(seconds))}
	for name, sec := range seconds {
		if sec > 0 {
			t.durations[name] = time.Duration(sec * float64(time.Second))
		}
	}
	return t
}

// SetObserver sets a callback invoked for every played cue (for tests and logs).
func (t *CueTable) SetObserver(fn func(owner model.AgentID, cue string)) {
	t.observer = fn
}

// PlayCue implements CuePlayer.
func (t *CueTable) PlayCue(owner model.AgentID, cue string) time.Duration {
	if t.observer != nil {
		t.observer(owner, cue)
	}
	return t.durations[cue]
}
