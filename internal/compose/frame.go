// Package compose turns the deck, the step state and the view selector
// into a Frame: a plain description of what is on screen. It never
// renders and never mutates its inputs.
package compose

import (
	"slices"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/metrics"
	"github.com/hammamikhairi/tworooms/internal/storage"
)

// PanelReader is the read side of the panel store.
type PanelReader interface {
	Expanded(key string) bool
}

// Frame is one composed screen.
type Frame struct {
	Screen   domain.Screen
	Layout   domain.Layout
	Detail   domain.Detail
	Active   domain.ScriptID
	Tabs     []Tab   // script selector, in display order
	Origin   *Origin // shared opening line, paired layout only
	Columns  []Column
	Summary  *Summary // end summary, single layout at the last step
	Progress Progress
}

// Tab is one entry of the script selector.
type Tab struct {
	ID    domain.ScriptID
	Label string
}

// Origin is the opening disclosure both paths share.
type Origin struct {
	Tag  string
	Text string
}

// Column is one transcript.
type Column struct {
	Side    domain.ScriptID
	Title   string
	Bubbles []Bubble
	Metrics *metrics.Snapshot // visual detail on the paired layout
}

// Bubble is one revealed line of dialogue.
type Bubble struct {
	Index       int // position in the script
	Speaker     domain.Speaker
	Text        string
	HasInterior bool
	Panels      []Panel
}

// Panel is a collapsible annotation under a bubble.
type Panel struct {
	Key      string
	Title    string
	Fields   []domain.InteriorField
	Expanded bool
}

// Summary closes a single transcript.
type Summary struct {
	Title string
	Body  string // markdown
}

// Progress describes the segmented progress bar.
type Progress struct {
	Step    int
	MaxStep int
	Filled  []bool // MaxStep+1 segments, i <= Step filled
	Playing bool
	AtEnd   bool
}

// Build composes the frame for the given state.
func Build(deck *domain.Deck, state domain.StepState, view domain.View, panels PanelReader) Frame {
	ai, therapist := script(deck, domain.ScriptAI), script(deck, domain.ScriptTherapist)

	f := Frame{
		Screen:   view.Screen,
		Layout:   view.Layout,
		Detail:   view.Detail,
		Active:   view.Active,
		Progress: progress(state),
	}
	for _, sc := range []*domain.Script{ai, therapist} {
		if sc != nil {
			f.Tabs = append(f.Tabs, Tab{ID: sc.ID, Label: sc.Label})
		}
	}

	switch view.Layout {
	case domain.LayoutCompare:
		f.Columns = []Column{
			column(ai, state.CurrentStep, 0, true, panels),
			column(therapist, state.CurrentStep, 0, true, panels),
		}

	case domain.LayoutPaired:
		from := 0
		if text, ok := sharedOrigin(ai, therapist); ok {
			f.Origin = &Origin{Tag: deck.DivergenceTag, Text: text}
			from = 1
		}
		detailed := view.Detail == domain.DetailDetailed
		for _, sc := range []*domain.Script{ai, therapist} {
			col := column(sc, state.CurrentStep, from, detailed, panels)
			if !detailed {
				m := metrics.For(sideOf(sc), state.CurrentStep, state.MaxStep)
				col.Metrics = &m
			}
			f.Columns = append(f.Columns, col)
		}

	default:
		active := script(deck, view.Active)
		if active == nil {
			active = ai
		}
		f.Columns = []Column{column(active, state.CurrentStep, 0, true, panels)}
		if state.AtEnd() && active != nil && active.Summary != "" {
			f.Summary = &Summary{Title: active.SummaryTitle, Body: active.Summary}
		}
	}

	return f
}

// Revealed lists who speaks the lines a step uncovers in a view. The
// single layout uncovers one line of the active script; the two-column
// layouts uncover one line per script, and each speaker appears once.
// On the paired layout step 0 is the shared origin.
func Revealed(deck *domain.Deck, view domain.View, step int) []domain.Speaker {
	var scripts []*domain.Script
	switch view.Layout {
	case domain.LayoutSingle:
		active := script(deck, view.Active)
		if active == nil {
			active = script(deck, domain.ScriptAI)
		}
		scripts = []*domain.Script{active}
	default:
		scripts = []*domain.Script{script(deck, domain.ScriptAI), script(deck, domain.ScriptTherapist)}
	}

	var out []domain.Speaker
	for _, sc := range scripts {
		if step < 0 || step >= sc.Len() {
			continue
		}
		sp := sc.Entries[step].Speaker
		if !slices.Contains(out, sp) {
			out = append(out, sp)
		}
	}
	return out
}

func script(deck *domain.Deck, id domain.ScriptID) *domain.Script {
	if deck == nil {
		return nil
	}
	return deck.Scripts[id]
}

func sideOf(sc *domain.Script) domain.ScriptID {
	if sc == nil {
		return ""
	}
	return sc.ID
}

// sharedOrigin reports the opening client line when both scripts start
// with the same one.
func sharedOrigin(a, b *domain.Script) (string, bool) {
	if a.Len() == 0 || b.Len() == 0 {
		return "", false
	}
	ea, eb := a.Entries[0], b.Entries[0]
	if ea.Speaker != domain.SpeakerClient || eb.Speaker != domain.SpeakerClient || ea.Text != eb.Text {
		return "", false
	}
	return ea.Text, true
}

// column reveals entries[from..step] of a script.
func column(sc *domain.Script, step, from int, withPanels bool, panels PanelReader) Column {
	col := Column{Side: sideOf(sc)}
	if sc == nil {
		return col
	}
	col.Title = sc.Title

	revealed := sc.Upto(step)
	for i := from; i < len(revealed); i++ {
		e := revealed[i]
		b := Bubble{
			Index:       i,
			Speaker:     e.Speaker,
			Text:        e.Text,
			HasInterior: hasInterior(sc.ID, e),
		}
		if withPanels {
			b.Panels = entryPanels(sc.ID, i, e, panels)
		}
		col.Bubbles = append(col.Bubbles, b)
	}
	return col
}

// hasInterior reports whether the speaker of a line has something to show.
func hasInterior(side domain.ScriptID, e domain.DialogueEntry) bool {
	switch e.Speaker {
	case domain.SpeakerClient:
		return len(e.UserInterior.Fields(domain.SpeakerClient)) > 0
	case domain.SpeakerAI:
		return e.AIProcess != ""
	default:
		return side == domain.ScriptTherapist && len(e.TherapistInterior.Fields(domain.SpeakerTherapist)) > 0
	}
}

// entryPanels lists the panels an entry carries: the client's interior,
// then the responder's (therapist interior or AI process). Absent data
// yields no panel.
func entryPanels(side domain.ScriptID, index int, e domain.DialogueEntry, panels PanelReader) []Panel {
	var out []Panel

	if fields := e.UserInterior.Fields(domain.SpeakerClient); len(fields) > 0 {
		out = append(out, panel(storage.Key(side, storage.RoleClient, index), "Client Interior", fields, panels))
	}

	switch side {
	case domain.ScriptAI:
		if e.AIProcess != "" {
			fields := []domain.InteriorField{{Label: "Process", Text: e.AIProcess}}
			out = append(out, panel(storage.Key(side, storage.RoleResponder, index), "AI Process", fields, panels))
		}
	case domain.ScriptTherapist:
		if fields := e.TherapistInterior.Fields(domain.SpeakerTherapist); len(fields) > 0 {
			out = append(out, panel(storage.Key(side, storage.RoleResponder, index), "Therapist Interior", fields, panels))
		}
	}
	return out
}

func panel(key, title string, fields []domain.InteriorField, panels PanelReader) Panel {
	expanded := true
	if panels != nil {
		expanded = panels.Expanded(key)
	}
	return Panel{Key: key, Title: title, Fields: fields, Expanded: expanded}
}

func progress(s domain.StepState) Progress {
	n := s.MaxStep + 1
	filled := make([]bool, n)
	for i := range filled {
		filled[i] = i <= s.CurrentStep
	}
	return Progress{
		Step:    s.CurrentStep,
		MaxStep: s.MaxStep,
		Filled:  filled,
		Playing: s.Playing,
		AtEnd:   s.AtEnd(),
	}
}
