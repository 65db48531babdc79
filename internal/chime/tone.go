package chime

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

// fade is the attack and release length; it keeps the cue from clicking.
const fade = 8 * time.Millisecond

// Render synthesizes a tone as 16-bit mono PCM.
func Render(t Tone) []byte {
	n := int(math.Round(float64(SampleRate) * t.Duration.Seconds()))
	ramp := max(int(float64(SampleRate)*fade.Seconds()), 1)

	width := ChannelCount * BitDepth / 8
	pcm := make([]byte, n*width)
	for i := 0; i < n; i++ {
		env := 1.0
		if i < ramp {
			env = float64(i) / float64(ramp)
		} else if rem := n - i; rem < ramp {
			env = float64(rem) / float64(ramp)
		}
		v := math.Sin(2*math.Pi*t.Frequency*float64(i)/SampleRate) * t.Volume * env
		binary.LittleEndian.PutUint16(pcm[i*width:], uint16(int16(v*math.MaxInt16)))
	}
	return pcm
}

// toneCache renders each tone once.
type toneCache struct {
	mu      sync.Mutex
	entries map[Tone][]byte
}

func newToneCache() *toneCache {
	return &toneCache{entries: make(map[Tone][]byte)}
}

func (c *toneCache) get(t Tone) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries[t]; ok {
		return data
	}
	data := Render(t)
	c.entries[t] = data
	return data
}
