package display

import (
	"fmt"

	"github.com/hammamikhairi/tworooms/internal/compose"
	"github.com/hammamikhairi/tworooms/internal/domain"
)

// All user-facing copy lives here.

// LineExchange is the progress caption, e.g. "Exchange 3 of 8".
func LineExchange(p compose.Progress) string {
	return fmt.Sprintf("Exchange %d of %d", p.Step+1, p.MaxStep+1)
}

// LinePlayButton is the play control label.
func LinePlayButton(p compose.Progress) string {
	switch {
	case p.AtEnd:
		return "Reset (R)"
	case p.Playing:
		return "Pause (P)"
	default:
		return "Play (P)"
	}
}

// LineJumpHint tells the user the bar is clickable.
func LineJumpHint() string {
	return "Click bar to jump"
}

// LineEnter is the prompt under the intro copy.
func LineEnter() string {
	return "ENTER"
}

// LineScreenTitle names the current screen in the header.
func LineScreenTitle(s domain.Screen) string {
	if s == domain.ScreenDivergence {
		return "Two Rooms: Field Demo"
	}
	return "Semantic Isolation"
}

// LineColumnTitle decorates a column header on the divergence screen.
func LineColumnTitle(s domain.Screen, side domain.ScriptID, title string) string {
	if s != domain.ScreenDivergence {
		return title
	}
	if side == domain.ScriptAI {
		return "→ Phone (" + title + ")"
	}
	return "→ Therapist (Human)"
}

// LineSpeaker is the caption above a bubble.
func LineSpeaker(s domain.Speaker, marker bool) string {
	label := s.Label()
	if marker {
		label += " ↗"
	}
	return label
}

// LinePanelHeader is the clickable header of an interior panel.
func LinePanelHeader(title string, expanded bool) string {
	if expanded {
		return "▼ " + title
	}
	return "▶ " + title
}
