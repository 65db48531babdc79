package domain

import "context"

// ScriptSource provides the immutable conversation deck.
type ScriptSource interface {
	Deck(ctx context.Context) (*Deck, error)
	Get(ctx context.Context, id ScriptID) (*Script, error)
}

// Stepper is the step controller surface the autoplay timer drives.
type Stepper interface {
	Advance() StepState
	TogglePlay() StepState
	State() StepState
}

// PanelStore holds per-panel expand/collapse flags. An untouched key
// reads as expanded.
type PanelStore interface {
	Expanded(key string) bool
	Toggle(key string) bool
	Reset()
}

// Notifier is told about every step change. Implementations can log,
// play an audio cue, or wake the UI.
type Notifier interface {
	StepChanged(ctx context.Context, state StepState) error
}

// Cue plays a short audible marker for a revealed turn.
type Cue interface {
	Ring(ctx context.Context, speaker Speaker) error
}
