// Package notify provides step-change observers: a log line, an audio cue
// and a wake-up channel for the UI, plus a fan-out that drives them all.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (Multi)(nil)
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*CueNotifier)(nil)
	_ domain.Notifier = (*ChanNotifier)(nil)
)

// Multi fans a step change out to every notifier. All of them are called
// even if one fails; the errors are joined.
type Multi []domain.Notifier

// StepChanged implements domain.Notifier.
func (m Multi) StepChanged(ctx context.Context, s domain.StepState) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.StepChanged(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes one line per step change.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// StepChanged implements domain.Notifier.
func (n *LogNotifier) StepChanged(ctx context.Context, s domain.StepState) error {
	n.log.Info("exchange %d of %d (playing=%t)", s.CurrentStep+1, s.MaxStep+1, s.Playing)
	return nil
}

// SpeakerFunc reports who speaks the lines revealed at a step.
type SpeakerFunc func(step int) []domain.Speaker

// CueNotifier rings the audio cue for the speaker of each newly revealed
// line. Moving backwards is silent.
type CueNotifier struct {
	cue     domain.Cue
	speaker SpeakerFunc
	log     *logger.Logger

	mu   sync.Mutex
	last int
}

// NewCueNotifier creates a notifier that rings cue on forward steps.
func NewCueNotifier(cue domain.Cue, speaker SpeakerFunc, log *logger.Logger) *CueNotifier {
	return &CueNotifier{cue: cue, speaker: speaker, log: log}
}

// StepChanged implements domain.Notifier.
func (n *CueNotifier) StepChanged(ctx context.Context, s domain.StepState) error {
	n.mu.Lock()
	forward := s.CurrentStep > n.last
	n.last = s.CurrentStep
	n.mu.Unlock()
	if !forward {
		return nil
	}

	var errs []error
	for _, sp := range n.speaker(s.CurrentStep) {
		n.log.Debug("cue for %s at step %d", sp, s.CurrentStep)
		errs = append(errs, n.cue.Ring(ctx, sp))
	}
	return errors.Join(errs...)
}

// ChanNotifier wakes a listener without ever blocking the caller. Bursts
// coalesce: the listener sees the latest state.
type ChanNotifier struct {
	ch chan domain.StepState
}

// NewChanNotifier creates a notifier with a one-slot buffer.
func NewChanNotifier() *ChanNotifier {
	return &ChanNotifier{ch: make(chan domain.StepState, 1)}
}

// C is the channel the listener receives on.
func (n *ChanNotifier) C() <-chan domain.StepState { return n.ch }

// StepChanged implements domain.Notifier.
func (n *ChanNotifier) StepChanged(ctx context.Context, s domain.StepState) error {
	for {
		select {
		case n.ch <- s:
			return nil
		default:
		}
		// Drop the stale state and retry.
		select {
		case <-n.ch:
		default:
		}
	}
}
