package display

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/tworooms/internal/compose"
	"github.com/hammamikhairi/tworooms/internal/domain"
)

func TestResolve(t *testing.T) {
	h := hitMap{
		barRow: 2, barLeft: 2, segW: 3, glyphW: 2, segments: 4,
		bodyTop: 5, bodyHeight: 10,
		columns: []columnHit{
			{left: 0, right: 38, headers: map[int]string{3: "ai-client-0"}},
			{left: 41, right: 79, headers: map[int]string{12: "therapist-responder-1"}},
		},
	}

	tests := []struct {
		name    string
		x, y    int
		offsets []int
		want    domain.Command
	}{
		{"first segment", 2, 2, nil, domain.Command{Type: domain.CommandJump, Step: 0}},
		{"last segment", 12, 2, nil, domain.Command{Type: domain.CommandJump, Step: 3}},
		{"segment gap", 4, 2, nil, domain.Command{}},
		{"past last segment", 15, 2, nil, domain.Command{}},
		{"left of bar", 0, 2, nil, domain.Command{}},
		{"panel header", 5, 8, []int{0, 0}, domain.Command{Type: domain.CommandTogglePanel, Payload: "ai-client-0"}},
		{"scrolled header", 50, 7, []int{0, 10}, domain.Command{Type: domain.CommandTogglePanel, Payload: "therapist-responder-1"}},
		{"scrolled away", 5, 8, []int{2, 0}, domain.Command{}},
		{"column gap", 39, 8, []int{0, 0}, domain.Command{}},
		{"above body", 5, 4, nil, domain.Command{}},
		{"below body", 5, 15, nil, domain.Command{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.resolve(tt.x, tt.y, tt.offsets); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestGeometryAccountsForOrigin(t *testing.T) {
	f := compose.Frame{
		Columns:  make([]compose.Column, 2),
		Progress: compose.Progress{Filled: make([]bool, 5)},
	}
	plain := geometry(f, 80, 30, 0)
	if plain.bodyTop != headerRows {
		t.Fatalf("expected body at %d, got %d", headerRows, plain.bodyTop)
	}
	if len(plain.columns) != 2 || plain.columns[1].left <= plain.columns[0].right {
		t.Fatalf("unexpected columns %+v", plain.columns)
	}

	withOrigin := geometry(f, 80, 30, 4)
	if withOrigin.bodyTop != headerRows+4 {
		t.Fatalf("expected body at %d, got %d", headerRows+4, withOrigin.bodyTop)
	}
	if withOrigin.bodyHeight != plain.bodyHeight-4 {
		t.Fatal("expected body to shrink by the origin height")
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{LineExchange(compose.Progress{Step: 2, MaxStep: 7}), "Exchange 3 of 8"},
		{LinePlayButton(compose.Progress{}), "Play (P)"},
		{LinePlayButton(compose.Progress{Playing: true}), "Pause (P)"},
		{LinePlayButton(compose.Progress{AtEnd: true}), "Reset (R)"},
		{LineSpeaker(domain.SpeakerAI, true), "AI companion ↗"},
		{LineSpeaker(domain.SpeakerClient, false), "client"},
		{LinePanelHeader("AI Process", true), "▼ AI Process"},
		{LinePanelHeader("AI Process", false), "▶ AI Process"},
		{LineColumnTitle(domain.ScreenVisualizer, domain.ScriptAI, "AI Companion"), "AI Companion"},
		{LineColumnTitle(domain.ScreenDivergence, domain.ScriptTherapist, "Human Therapist"), "→ Therapist (Human)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestJoinColumnsEmpty(t *testing.T) {
	if got := joinColumns(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestHeaderUsesScriptLabels(t *testing.T) {
	f := compose.Frame{
		Layout: domain.LayoutSingle,
		Active: domain.ScriptTherapist,
		Tabs:   []compose.Tab{{ID: domain.ScriptAI, Label: "Phone"}, {ID: domain.ScriptTherapist, Label: "Room"}},
	}
	got := renderHeader(f)
	for _, want := range []string{"Phone", "Room"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in header %q", want, got)
		}
	}
}
