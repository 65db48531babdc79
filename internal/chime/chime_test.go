package chime

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSink records what it was asked to play. block makes Play wait
// until Stop is called.
type fakeSink struct {
	mu     sync.Mutex
	played [][]byte
	block  bool
	stop   chan struct{}
	once   sync.Once
}

func newFakeSink(block bool) *fakeSink {
	return &fakeSink{block: block, stop: make(chan struct{})}
}

func (f *fakeSink) Play(pcm []byte) error {
	f.mu.Lock()
	f.played = append(f.played, pcm)
	f.mu.Unlock()
	if f.block {
		<-f.stop
	}
	return nil
}

func (f *fakeSink) Stop() {
	f.once.Do(func() { close(f.stop) })
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.played)
}

func TestRenderPCM(t *testing.T) {
	tone := Tone{Frequency: 440, Duration: 100 * time.Millisecond, Volume: 0.5}
	pcm := Render(tone)

	require.Len(t, pcm, SampleRate/10*2)

	// The envelope starts from silence and peaks near the middle.
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(pcm[0:2]))
	var peak int16
	for i := 0; i < len(pcm); i += 2 {
		if v := int16(binary.LittleEndian.Uint16(pcm[i:])); v > peak {
			peak = v
		}
	}
	assert.InDelta(t, 0.5*math.MaxInt16, float64(peak), 0.02*math.MaxInt16)
}

func TestRenderZeroDuration(t *testing.T) {
	assert.Empty(t, Render(Tone{Frequency: 440}))
}

func TestToneForEverySpeaker(t *testing.T) {
	for _, s := range []domain.Speaker{domain.SpeakerClient, domain.SpeakerAI, domain.SpeakerTherapist} {
		_, ok := ToneFor(s)
		assert.True(t, ok, "speaker %s", s)
	}
	_, ok := ToneFor(domain.Speaker(99))
	assert.False(t, ok)
}

func TestChimePlaysQueuedCues(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sink := newFakeSink(false)
	c := New(sink, log)
	c.Start(context.Background())
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Ring(ctx, domain.SpeakerClient))
	require.NoError(t, c.Ring(ctx, domain.SpeakerTherapist))

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestChimeDropsWhenFull(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sink := newFakeSink(true)
	c := New(sink, log, WithQueueSize(1))
	ctx := context.Background()

	// Not started: the queue fills and further cues are dropped.
	require.NoError(t, c.Ring(ctx, domain.SpeakerAI))
	require.NoError(t, c.Ring(ctx, domain.SpeakerAI))
	require.NoError(t, c.Ring(ctx, domain.SpeakerAI))
	assert.Len(t, c.queue, 1)
}

func TestChimeRingUnknownSpeaker(t *testing.T) {
	c := New(newFakeSink(false), logger.New(logger.LevelOff, nil))
	assert.ErrorIs(t, c.Ring(context.Background(), domain.Speaker(42)), domain.ErrUnknownSpeaker)
}

func TestChimeStopInterruptsPlayback(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sink := newFakeSink(true)
	c := New(sink, log)
	c.Start(context.Background())

	require.NoError(t, c.Ring(context.Background(), domain.SpeakerClient))
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)

	// Play is blocked; Stop must release it and wait for the goroutine.
	c.Stop()
	c.Stop()
}

func TestNoOp(t *testing.T) {
	n := NewNoOp(logger.New(logger.LevelOff, nil))
	assert.NoError(t, n.Ring(context.Background(), domain.SpeakerAI))
}
