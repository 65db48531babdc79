// Package timer implements the playback timer that advances the step
// controller on a fixed interval while playback is on.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// DefaultInterval is the autoplay period when none is configured.
const DefaultInterval = 5 * time.Second

// Option configures the autoplay timer.
type Option func(*Autoplay)

// WithInterval sets how often the timer advances.
func WithInterval(d time.Duration) Option {
	return func(a *Autoplay) {
		if d > 0 {
			a.interval = d
		}
	}
}

// Handle is one running autoplay loop. Stop cancels it and waits for the
// goroutine to exit, so no Advance happens after Stop returns.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the loop and blocks until it has exited. Safe to call more
// than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop goroutine has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Autoplay is the Idle/Running playback state machine. At most one loop
// runs at a time; starting while running is a no-op.
type Autoplay struct {
	stepper  domain.Stepper
	log      *logger.Logger
	interval time.Duration

	mu     sync.Mutex
	handle *Handle
}

// New creates an idle autoplay timer for the given stepper.
func New(stepper domain.Stepper, log *logger.Logger, opts ...Option) *Autoplay {
	a := &Autoplay{
		stepper:  stepper,
		log:      log,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetInterval changes the period used by the next loop that starts.
func (a *Autoplay) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interval = d
}

// Interval returns the configured period.
func (a *Autoplay) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// Running reports whether a loop is active.
func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle != nil
}

// Toggle is the play/pause request. At the last step the controller turns
// it into a replay (reset, stay idle). The timer then follows the
// controller's playing flag.
func (a *Autoplay) Toggle(ctx context.Context) domain.StepState {
	s := a.stepper.TogglePlay()
	a.Sync(ctx)
	return s
}

// Sync starts or stops the loop so that it runs exactly when the
// controller is playing.
func (a *Autoplay) Sync(ctx context.Context) {
	if a.stepper.State().Playing {
		a.Start(ctx)
		return
	}
	a.Stop()
}

// Start begins the loop. Non-blocking. A no-op while a loop is running.
func (a *Autoplay) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handle != nil {
		a.log.Debug("autoplay already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	a.handle = h

	go a.loop(childCtx, h, a.interval)

	a.log.Info("autoplay started (interval=%s)", a.interval)
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	h := a.handle
	a.handle = nil
	a.mu.Unlock()

	if h == nil {
		return
	}
	h.Stop()
	a.log.Info("autoplay stopped")
}

// loop is the tick loop. It exits on cancel, or by itself once the
// controller stops playing (end of script).
func (a *Autoplay) loop(ctx context.Context, h *Handle, interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if a.tick(h) {
				return
			}
		}
	}
}

// tick advances once and reports whether the loop should exit.
func (a *Autoplay) tick(h *Handle) bool {
	if a.stepper.State().Playing {
		if s := a.stepper.Advance(); s.Playing {
			return false
		}
	}

	// Re-check under the lock: a Start that raced with the end of the
	// script must not be lost.
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.stepper.State()
	if s.Playing {
		return false
	}
	if a.handle == h {
		a.handle = nil
		h.cancel()
	}
	a.log.Info("autoplay finished at step %d/%d", s.CurrentStep, s.MaxStep)
	return true
}
