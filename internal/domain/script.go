// Package domain defines the core types and interfaces for the comparison
// player. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
)

// Speaker identifies who says a line of dialogue.
type Speaker int

const (
	SpeakerClient Speaker = iota
	SpeakerAI
	SpeakerTherapist
)

// String returns the identifier used in script documents.
func (s Speaker) String() string {
	switch s {
	case SpeakerClient:
		return "client"
	case SpeakerAI:
		return "ai"
	case SpeakerTherapist:
		return "therapist"
	default:
		return "unknown"
	}
}

// Label returns the caption shown above a speaker's bubble.
func (s Speaker) Label() string {
	switch s {
	case SpeakerClient:
		return "client"
	case SpeakerAI:
		return "AI companion"
	case SpeakerTherapist:
		return "therapist"
	default:
		return "unknown"
	}
}

// ParseSpeaker converts a script speaker name to a Speaker. "user" is
// accepted as an alias for the client.
func ParseSpeaker(name string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "client", "user":
		return SpeakerClient, nil
	case "ai":
		return SpeakerAI, nil
	case "therapist":
		return SpeakerTherapist, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpeaker, name)
	}
}

// InteriorState annotates what was going on inside a character during a
// turn. Which fields are meaningful depends on whose interior it is.
type InteriorState struct {
	Body                string
	Feeling             string
	Projection          string
	Need                string
	ClinicalThinking    string
	Countertransference string
}

// InteriorField is one labelled line of an interior panel.
type InteriorField struct {
	Label string
	Text  string
}

// Fields returns the labelled, non-empty fields for the given owner.
// Client interiors read as body/feeling/projection/need, therapist
// interiors as body/feeling/clinical thinking/countertransference.
func (s *InteriorState) Fields(owner Speaker) []InteriorField {
	if s == nil {
		return nil
	}

	var all []InteriorField
	switch owner {
	case SpeakerClient:
		all = []InteriorField{
			{"Body", s.Body},
			{"Feeling", s.Feeling},
			{"Projection", s.Projection},
			{"Need", s.Need},
		}
	case SpeakerTherapist:
		all = []InteriorField{
			{"Body", s.Body},
			{"Feeling", s.Feeling},
			{"Clinical Thinking", s.ClinicalThinking},
			{"Countertransference", s.Countertransference},
		}
	default:
		return nil
	}

	out := all[:0]
	for _, f := range all {
		if strings.TrimSpace(f.Text) != "" {
			out = append(out, f)
		}
	}
	return out
}

// DialogueEntry is one turn of scripted dialogue.
type DialogueEntry struct {
	Speaker           Speaker
	Text              string
	UserInterior      *InteriorState
	TherapistInterior *InteriorState
	AIProcess         string // free-text process note, AI turns only
}

// ScriptID names one of the two conversation paths.
type ScriptID string

const (
	ScriptAI        ScriptID = "ai"
	ScriptTherapist ScriptID = "therapist"
)

// ParseScriptID validates a script name.
func ParseScriptID(name string) (ScriptID, error) {
	switch id := ScriptID(strings.ToLower(strings.TrimSpace(name))); id {
	case ScriptAI, ScriptTherapist:
		return id, nil
	default:
		return "", fmt.Errorf("%w: unknown script %q", ErrInvalidConfig, name)
	}
}

// Script is an ordered conversation. Order is conversation order.
type Script struct {
	ID           ScriptID
	Title        string // column header, e.g. "AI Companion"
	Label        string // short tab label, e.g. "AI"
	SummaryTitle string
	Summary      string // markdown shown after the last step
	Entries      []DialogueEntry
}

// Len returns the number of entries.
func (s *Script) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Upto returns entries[0..step] inclusive, clamped to the script length.
// The returned slice must not be modified.
func (s *Script) Upto(step int) []DialogueEntry {
	if s == nil || step < 0 {
		return nil
	}
	end := step + 1
	if end > len(s.Entries) {
		end = len(s.Entries)
	}
	return s.Entries[:end:end]
}

// Intro is the copy shown before the player starts.
type Intro struct {
	Kicker string
	Title  string
	Body   string // markdown
}

// Deck bundles everything the script store loads at startup.
type Deck struct {
	Intro         Intro
	DivergenceTag string // caption above the shared opening line
	Scripts       map[ScriptID]*Script
}
