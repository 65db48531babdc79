package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/engine"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingStepper is always playing and never reaches the end; it only
// counts Advance calls.
type countingStepper struct {
	mu       sync.Mutex
	advances int
	playing  bool
}

func (c *countingStepper) Advance() domain.StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advances++
	return domain.StepState{CurrentStep: c.advances, MaxStep: 1 << 20, Playing: c.playing}
}

func (c *countingStepper) TogglePlay() domain.StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = !c.playing
	return domain.StepState{CurrentStep: c.advances, MaxStep: 1 << 20, Playing: c.playing}
}

func (c *countingStepper) State() domain.StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.StepState{CurrentStep: c.advances, MaxStep: 1 << 20, Playing: c.playing}
}

func (c *countingStepper) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advances
}

const fastTick = 5 * time.Millisecond

func newController(maxStep int) *engine.Controller {
	return engine.New(logger.New(logger.LevelOff, nil), engine.WithMaxStep(maxStep))
}

func TestAutoplayAdvancesWhilePlaying(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	stepper := &countingStepper{}
	ap := New(stepper, log, WithInterval(fastTick))

	ap.Toggle(context.Background())
	require.True(t, ap.Running())

	require.Eventually(t, func() bool { return stepper.count() >= 3 }, time.Second, fastTick)
	ap.Stop()
	assert.False(t, ap.Running())
}

func TestStopLeavesNoFurtherAdvances(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	stepper := &countingStepper{}
	ap := New(stepper, log, WithInterval(fastTick))

	ap.Toggle(context.Background())
	ap.Stop()

	after := stepper.count()
	time.Sleep(10 * fastTick)
	assert.Equal(t, after, stepper.count(), "advance called after Stop returned")
}

func TestStopIsIdempotent(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ap := New(&countingStepper{}, log, WithInterval(fastTick))

	ap.Stop()
	ap.Start(context.Background())
	ap.Stop()
	ap.Stop()
	assert.False(t, ap.Running())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	stepper := &countingStepper{playing: true}
	ap := New(stepper, log, WithInterval(time.Hour))
	ctx := context.Background()

	ap.Start(ctx)
	first := ap.handle
	ap.Start(ctx)
	ap.Sync(ctx)

	assert.Same(t, first, ap.handle)
	ap.Stop()
}

func TestAutoplayStopsAtEnd(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctrl := newController(3)
	ap := New(ctrl, log, WithInterval(fastTick))

	s := ap.Toggle(context.Background())
	require.True(t, s.Playing)

	require.Eventually(t, func() bool { return !ap.Running() }, time.Second, fastTick)

	final := ctrl.State()
	assert.Equal(t, 3, final.CurrentStep)
	assert.False(t, final.Playing)
}

func TestToggleAtEndResetsInsteadOfPlaying(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctrl := newController(4)
	ctrl.JumpTo(4)
	ap := New(ctrl, log, WithInterval(fastTick))

	s := ap.Toggle(context.Background())
	assert.Equal(t, 0, s.CurrentStep)
	assert.False(t, s.Playing)
	assert.False(t, ap.Running())
}

func TestSyncFollowsController(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctrl := newController(10)
	ap := New(ctrl, log, WithInterval(time.Hour))
	ctx := context.Background()

	ctrl.TogglePlay()
	ap.Sync(ctx)
	assert.True(t, ap.Running())

	ctrl.Reset()
	ap.Sync(ctx)
	assert.False(t, ap.Running())
}

func TestParentCancelStopsLoop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	stepper := &countingStepper{}
	ap := New(stepper, log, WithInterval(fastTick))
	ctx, cancel := context.WithCancel(context.Background())

	ap.Toggle(ctx)
	h := ap.handle
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after parent cancel")
	}
	ap.Stop()
}

func TestSetInterval(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ap := New(&countingStepper{}, log)
	assert.Equal(t, DefaultInterval, ap.Interval())

	ap.SetInterval(8 * time.Second)
	assert.Equal(t, 8*time.Second, ap.Interval())

	ap.SetInterval(0)
	assert.Equal(t, 8*time.Second, ap.Interval())
}
