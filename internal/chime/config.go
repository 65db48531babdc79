package chime

import (
	"time"

	"github.com/hammamikhairi/tworooms/internal/domain"
)

// Audio parameters shared by the tone generator and the player.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// DefaultQueueSize bounds how many cues can wait behind the one playing.
const DefaultQueueSize = 4

// Tone describes one cue.
type Tone struct {
	Frequency float64 // Hz
	Duration  time.Duration
	Volume    float64 // 0..1
}

// tones maps each speaker to its cue. The client sits between the two
// responders; the AI is higher and thinner.
var tones = map[domain.Speaker]Tone{
	domain.SpeakerClient:    {Frequency: 523.25, Duration: 120 * time.Millisecond, Volume: 0.25},
	domain.SpeakerAI:        {Frequency: 880.00, Duration: 90 * time.Millisecond, Volume: 0.18},
	domain.SpeakerTherapist: {Frequency: 392.00, Duration: 160 * time.Millisecond, Volume: 0.25},
}

// ToneFor returns the cue for a speaker.
func ToneFor(s domain.Speaker) (Tone, bool) {
	t, ok := tones[s]
	return t, ok
}
