package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// recordingNotifier collects step changes for testing.
type recordingNotifier struct {
	mu    sync.Mutex
	steps []int
}

func (r *recordingNotifier) StepChanged(_ context.Context, s domain.StepState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s.CurrentStep)
	return nil
}

func setupController(t *testing.T, maxStep int, opts ...Option) *Controller {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(log, append([]Option{WithMaxStep(maxStep)}, opts...)...)
}

func TestAdvanceToEnd(t *testing.T) {
	// Five entries, indices 0-4.
	c := setupController(t, 4)

	for i := 1; i <= 4; i++ {
		s := c.Advance()
		if s.CurrentStep != i {
			t.Fatalf("advance %d: expected step %d, got %d", i, i, s.CurrentStep)
		}
	}

	s := c.Advance()
	if s.CurrentStep != 4 {
		t.Fatalf("expected step to stay at 4, got %d", s.CurrentStep)
	}
	if s.Playing {
		t.Fatal("expected playing=false at the end")
	}
}

func TestAdvanceAtEndStopsPlayback(t *testing.T) {
	for _, maxStep := range []int{0, 1, 4, 9} {
		c := setupController(t, maxStep)
		c.JumpTo(maxStep - 1)
		if maxStep > 0 {
			if s := c.TogglePlay(); !s.Playing {
				t.Fatalf("max=%d: expected playing after toggle", maxStep)
			}
		}
		c.Advance()

		s := c.Advance()
		if s.CurrentStep != maxStep {
			t.Fatalf("max=%d: expected step %d, got %d", maxStep, maxStep, s.CurrentStep)
		}
		if s.Playing {
			t.Fatalf("max=%d: expected playing=false", maxStep)
		}
	}
}

func TestGoBackFloorsAtZero(t *testing.T) {
	c := setupController(t, 4)
	c.JumpTo(2)

	if s := c.GoBack(); s.CurrentStep != 1 {
		t.Fatalf("expected 1, got %d", s.CurrentStep)
	}
	c.GoBack()
	if s := c.GoBack(); s.CurrentStep != 0 {
		t.Fatalf("expected floor at 0, got %d", s.CurrentStep)
	}
}

func TestJumpTo(t *testing.T) {
	tests := []struct {
		name   string
		target int
		want   int
	}{
		{"in range", 2, 2},
		{"first", 0, 0},
		{"last", 4, 4},
		{"past end", 10, 4},
		{"negative", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupController(t, 4)

			once := c.JumpTo(tt.target)
			if once.CurrentStep != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, once.CurrentStep)
			}
			twice := c.JumpTo(tt.target)
			if twice != once {
				t.Fatalf("second jump changed state: %+v -> %+v", once, twice)
			}
		})
	}
}

func TestResetFromAnyState(t *testing.T) {
	c := setupController(t, 6)

	for _, setup := range []func(){
		func() {},
		func() { c.JumpTo(3) },
		func() { c.JumpTo(1); c.TogglePlay() },
		func() { c.JumpTo(6) },
	} {
		setup()
		s := c.Reset()
		if s.CurrentStep != 0 || s.Playing {
			t.Fatalf("expected 0/false after reset, got %+v", s)
		}
	}
}

func TestTogglePlay(t *testing.T) {
	c := setupController(t, 4)

	if s := c.TogglePlay(); !s.Playing {
		t.Fatal("expected playing after first toggle")
	}
	if s := c.TogglePlay(); s.Playing {
		t.Fatal("expected paused after second toggle")
	}

	// At the end, toggling is a replay request.
	c.JumpTo(10)
	s := c.TogglePlay()
	if s.CurrentStep != 0 {
		t.Fatalf("expected reset to 0, got %d", s.CurrentStep)
	}
	if s.Playing {
		t.Fatal("expected to stay idle after replay request")
	}
}

func TestPlayingClearedWhenJumpingToEnd(t *testing.T) {
	c := setupController(t, 4)
	c.TogglePlay()

	s := c.JumpTo(4)
	if s.Playing {
		t.Fatal("expected playing=false at max step")
	}
}

func TestSetMaxStepReclamps(t *testing.T) {
	c := setupController(t, 7)
	c.JumpTo(6)

	s := c.SetMaxStep(3)
	if s.CurrentStep != 3 || s.MaxStep != 3 {
		t.Fatalf("expected 3/3, got %+v", s)
	}

	s = c.SetMaxStep(-2)
	if s.CurrentStep != 0 || s.MaxStep != 0 {
		t.Fatalf("expected 0/0, got %+v", s)
	}
}

func TestNotifierSeesOnlyStepChanges(t *testing.T) {
	rec := &recordingNotifier{}
	c := setupController(t, 2, WithNotifier(rec))

	c.Advance()    // 1
	c.TogglePlay() // no move
	c.Advance()    // 2
	c.Advance()    // no move
	c.JumpTo(2)    // no move
	c.GoBack()     // 1
	c.Reset()      // 0

	want := []int{1, 2, 1, 0}
	if len(rec.steps) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.steps)
	}
	for i := range want {
		if rec.steps[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, rec.steps)
		}
	}
}

func TestMaxStepFor(t *testing.T) {
	mk := func(n int) *domain.Script {
		return &domain.Script{Entries: make([]domain.DialogueEntry, n)}
	}
	ai, th := mk(8), mk(6)

	tests := []struct {
		name   string
		layout domain.Layout
		active *domain.Script
		want   int
	}{
		{"single ai", domain.LayoutSingle, ai, 7},
		{"single therapist", domain.LayoutSingle, th, 5},
		{"compare uses shorter", domain.LayoutCompare, ai, 5},
		{"paired uses shorter", domain.LayoutPaired, th, 5},
		{"empty", domain.LayoutSingle, mk(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxStepFor(tt.layout, tt.active, ai, th); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestConcurrentAdvanceKeepsInvariant(t *testing.T) {
	c := setupController(t, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Advance()
				c.GoBack()
				c.Advance()
			}
		}()
	}
	wg.Wait()

	s := c.State()
	if s.CurrentStep < 0 || s.CurrentStep > s.MaxStep {
		t.Fatalf("invariant broken: %+v", s)
	}
}
