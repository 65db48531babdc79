package chime

import (
	"bytes"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/tworooms/internal/logger"
)

// pollInterval is how often Play checks whether the device drained.
const pollInterval = 5 * time.Millisecond

// Sink plays signed 16-bit little-endian PCM at SampleRate. Play blocks
// until the samples drain or Stop is called.
type Sink interface {
	Play(pcm []byte) error
	Stop()
}

// Compile-time interface check.
var _ Sink = (*Player)(nil)

// Player is the oto-backed sink. One oto context serves the whole process.
type Player struct {
	ctx *oto.Context
	log *logger.Logger

	mu      sync.Mutex
	current *oto.Player
}

// NewPlayer opens the audio device. Returns an error if none is available.
func NewPlayer(log *logger.Logger) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	log.Debug("chime: audio device ready (%d Hz, %d ch)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play writes one cue to the device and waits for it to finish.
func (p *Player) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}

	out := p.ctx.NewPlayer(bytes.NewReader(pcm))
	p.setCurrent(out)
	defer p.setCurrent(nil)

	out.Play()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for out.IsPlaying() {
		<-ticker.C
	}
	return out.Close()
}

// Stop cuts the cue that is sounding, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Pause()
		p.log.Debug("chime: cue cut short")
	}
}

func (p *Player) setCurrent(out *oto.Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = out
}
