// Package engine implements the step controller: the presentation state
// machine that decides how much of each script is revealed.
package engine

import (
	"context"
	"sync"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface check.
var _ domain.Stepper = (*Controller)(nil)

// Option configures the controller.
type Option func(*Controller)

// WithNotifier registers an observer that is told about every change of
// the current step.
func WithNotifier(n domain.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithMaxStep sets the initial max step.
func WithMaxStep(n int) Option {
	return func(c *Controller) {
		c.state.MaxStep = max(n, 0)
	}
}

// Controller owns the step index, the derived max step and the playing
// flag. Every operation is total: out-of-range requests clamp silently.
// Safe for concurrent use; the autoplay loop and the UI both call it.
type Controller struct {
	mu       sync.Mutex
	state    domain.StepState
	notifier domain.Notifier
	log      *logger.Logger
	id       string
}

// New creates a controller at step 0, not playing.
func New(log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		log: log,
		id:  generateID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log.Debug("controller %s created (max=%d)", c.id, c.state.MaxStep)
	return c
}

// ID returns the viewing-session ID.
func (c *Controller) ID() string { return c.id }

// State returns a snapshot.
func (c *Controller) State() domain.StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Advance reveals one more step. At the last step it stops playback and
// leaves the step unchanged.
func (c *Controller) Advance() domain.StepState {
	return c.mutate("advance", func(s *domain.StepState) {
		if s.CurrentStep < s.MaxStep {
			s.CurrentStep++
		}
	})
}

// GoBack hides the latest step, floored at 0.
func (c *Controller) GoBack() domain.StepState {
	return c.mutate("back", func(s *domain.StepState) {
		if s.CurrentStep > 0 {
			s.CurrentStep--
		}
	})
}

// JumpTo sets the step to clamp(i, 0, max). Allowed in any play state.
func (c *Controller) JumpTo(i int) domain.StepState {
	return c.mutate("jump", func(s *domain.StepState) {
		s.CurrentStep = clamp(i, 0, s.MaxStep)
	})
}

// Reset returns to step 0 and stops playback.
func (c *Controller) Reset() domain.StepState {
	return c.mutate("reset", func(s *domain.StepState) {
		s.CurrentStep = 0
		s.Playing = false
	})
}

// Pause stops playback without moving.
func (c *Controller) Pause() domain.StepState {
	return c.mutate("pause", func(s *domain.StepState) {
		s.Playing = false
	})
}

// TogglePlay flips the playing flag. At the last step it is a replay
// request instead: the step resets to 0 and playback stays off.
func (c *Controller) TogglePlay() domain.StepState {
	return c.mutate("toggle-play", func(s *domain.StepState) {
		if s.AtEnd() {
			s.CurrentStep = 0
			s.Playing = false
			return
		}
		s.Playing = !s.Playing
	})
}

// SetMaxStep changes the max step (layout or script switch) and re-clamps
// the current step.
func (c *Controller) SetMaxStep(n int) domain.StepState {
	return c.mutate("set-max", func(s *domain.StepState) {
		s.MaxStep = max(n, 0)
		s.CurrentStep = clamp(s.CurrentStep, 0, s.MaxStep)
	})
}

// mutate applies fn under the lock, restores the invariants, and notifies
// the observer when the step moved. The notifier runs outside the lock.
func (c *Controller) mutate(op string, fn func(*domain.StepState)) domain.StepState {
	c.mu.Lock()
	before := c.state
	fn(&c.state)
	if c.state.AtEnd() {
		c.state.Playing = false
	}
	after := c.state
	c.mu.Unlock()

	if after != before {
		c.log.Debug("controller %s %s: step %d/%d playing=%t", c.id, op, after.CurrentStep, after.MaxStep, after.Playing)
	}
	if after.CurrentStep != before.CurrentStep && c.notifier != nil {
		if err := c.notifier.StepChanged(context.Background(), after); err != nil {
			c.log.Error("controller %s: notifying step change: %v", c.id, err)
		}
	}
	return after
}

// MaxStepFor derives the max step for a layout. The single layout walks
// the active script; compare and paired layouts stop at the end of the
// shorter script. Never negative.
func MaxStepFor(layout domain.Layout, active, ai, therapist *domain.Script) int {
	var n int
	switch layout {
	case domain.LayoutSingle:
		n = active.Len()
	default:
		n = min(ai.Len(), therapist.Len())
	}
	return max(n-1, 0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
