// Package chime plays a short synthesized tone for each revealed line of
// dialogue. One goroutine owns the audio device; cues queue in a bounded
// channel and are dropped when it is full.
package chime

import (
	"context"
	"sync"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Cue = (*Chime)(nil)
	_ domain.Cue = (*NoOp)(nil)
)

// Option configures the Chime.
type Option func(*Chime)

// WithQueueSize sets how many cues may wait.
func WithQueueSize(n int) Option {
	return func(c *Chime) {
		if n > 0 {
			c.queue = make(chan Tone, n)
		}
	}
}

// Chime serializes cues through a single player goroutine.
type Chime struct {
	sink  Sink
	log   *logger.Logger
	cache *toneCache
	queue chan Tone

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped chime playing through sink.
func New(sink Sink, log *logger.Logger, opts ...Option) *Chime {
	c := &Chime{
		sink:  sink,
		log:   log,
		cache: newToneCache(),
		queue: make(chan Tone, DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the player goroutine. Non-blocking; a no-op if running.
func (c *Chime) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
	c.log.Info("chime started")
}

// Stop interrupts playback and waits for the goroutine to exit. Safe to
// call more than once.
func (c *Chime) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if done == nil {
		return
	}
	cancel()
	c.sink.Stop()
	<-done
	c.log.Info("chime stopped")
}

// Ring queues the cue for a speaker. Never blocks: a full queue drops the
// cue, since a late chime is worse than none.
func (c *Chime) Ring(ctx context.Context, s domain.Speaker) error {
	t, ok := ToneFor(s)
	if !ok {
		return domain.ErrUnknownSpeaker
	}
	select {
	case c.queue <- t:
	default:
		c.log.Debug("chime: queue full, dropping cue for %s", s)
	}
	return nil
}

func (c *Chime) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-c.queue:
			if ctx.Err() != nil {
				return
			}
			if err := c.sink.Play(c.cache.get(t)); err != nil {
				c.log.Error("chime: playback failed: %v", err)
			}
		}
	}
}

// NoOp is a cue that does nothing. Used when audio is off or the device
// could not be opened.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent cue.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Ring does nothing.
func (n *NoOp) Ring(ctx context.Context, s domain.Speaker) error {
	n.log.Debug("chime no-op: would ring for %s", s)
	return nil
}
