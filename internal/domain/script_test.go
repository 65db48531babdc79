package domain

import (
	"errors"
	"testing"
)

func TestParseSpeaker(t *testing.T) {
	tests := []struct {
		in      string
		want    Speaker
		wantErr bool
	}{
		{"client", SpeakerClient, false},
		{"user", SpeakerClient, false},
		{" AI ", SpeakerAI, false},
		{"Therapist", SpeakerTherapist, false},
		{"narrator", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSpeaker(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownSpeaker) {
				t.Fatalf("%q: expected ErrUnknownSpeaker, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %v, got %v (err=%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestInteriorFields(t *testing.T) {
	s := &InteriorState{
		Body:             "tight chest",
		Feeling:          "alone",
		Need:             "",
		ClinicalThinking: "hold the silence",
	}

	client := s.Fields(SpeakerClient)
	if len(client) != 2 || client[0].Label != "Body" || client[1].Label != "Feeling" {
		t.Fatalf("unexpected client fields: %+v", client)
	}

	therapist := s.Fields(SpeakerTherapist)
	if len(therapist) != 3 || therapist[2].Label != "Clinical Thinking" {
		t.Fatalf("unexpected therapist fields: %+v", therapist)
	}

	if f := s.Fields(SpeakerAI); f != nil {
		t.Fatalf("expected no fields for the AI, got %+v", f)
	}

	var none *InteriorState
	if f := none.Fields(SpeakerClient); f != nil {
		t.Fatalf("expected nil for nil interior, got %+v", f)
	}
}

func TestScriptUpto(t *testing.T) {
	sc := &Script{Entries: make([]DialogueEntry, 5)}

	tests := []struct {
		step int
		want int
	}{
		{-1, 0},
		{0, 1},
		{2, 3},
		{4, 5},
		{9, 5},
	}

	for _, tt := range tests {
		if got := len(sc.Upto(tt.step)); got != tt.want {
			t.Fatalf("step %d: expected %d entries, got %d", tt.step, tt.want, got)
		}
	}

	// Appending to the view must not write into the script.
	view := sc.Upto(1)
	_ = append(view, DialogueEntry{Text: "x"})
	if sc.Entries[2].Text != "" {
		t.Fatal("append through Upto mutated the script")
	}

	var nilScript *Script
	if nilScript.Len() != 0 || nilScript.Upto(3) != nil {
		t.Fatal("expected nil script to be empty")
	}
}
