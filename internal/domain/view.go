package domain

import (
	"fmt"
	"strings"
)

// Screen is one of the two top-level views.
type Screen int

const (
	// ScreenVisualizer shows one transcript or two side by side.
	ScreenVisualizer Screen = iota
	// ScreenDivergence shows both paths branching from a shared opening.
	ScreenDivergence
)

// String returns a human-readable screen name.
func (s Screen) String() string {
	switch s {
	case ScreenVisualizer:
		return "visualizer"
	case ScreenDivergence:
		return "divergence"
	default:
		return "unknown"
	}
}

// ParseScreen converts a screen name to a Screen.
func ParseScreen(name string) (Screen, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "visualizer", "":
		return ScreenVisualizer, nil
	case "divergence":
		return ScreenDivergence, nil
	default:
		return 0, fmt.Errorf("%w: unknown screen %q", ErrInvalidConfig, name)
	}
}

// Layout selects how transcripts are arranged.
type Layout int

const (
	LayoutSingle  Layout = iota // one transcript
	LayoutCompare               // two transcripts in columns
	LayoutPaired                // shared opening line, then two columns
)

// String returns a human-readable layout name.
func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutCompare:
		return "compare"
	case LayoutPaired:
		return "paired"
	default:
		return "unknown"
	}
}

// ParseLayout converts a layout name to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single", "":
		return LayoutSingle, nil
	case "compare":
		return LayoutCompare, nil
	case "paired":
		return LayoutPaired, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, name)
	}
}

// Detail selects what accompanies the dialogue on the divergence screen.
type Detail int

const (
	DetailVisual   Detail = iota // metrics
	DetailDetailed               // interior panels
)

// String returns a human-readable detail name.
func (d Detail) String() string {
	if d == DetailDetailed {
		return "detailed"
	}
	return "visual"
}

// View is the complete rendering selector. It never affects step
// invariants beyond choosing how the max step is derived.
type View struct {
	Screen Screen
	Layout Layout
	Detail Detail
	Active ScriptID // transcript shown in the single layout
}
