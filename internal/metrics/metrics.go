// Package metrics computes the decorative per-side indicators shown next
// to each transcript on the divergence screen. The values are a function
// of reveal progress only; they carry no analysis of the dialogue.
package metrics

import "github.com/hammamikhairi/tworooms/internal/domain"

// Bar is one labelled value in [0,1].
type Bar struct {
	Label string
	Value float64
}

// Snapshot is everything rendered for one side at one step.
type Snapshot struct {
	Side   domain.ScriptID
	Bars   []Bar
	Radius float64 // semantic field radius; OuterRadius marks the full field
	Status string
}

// OuterRadius is the radius of the dashed ring the field is drawn inside.
const OuterRadius = 40.0

// Progress returns step/maxSteps, or 0 when there is nothing to walk.
func Progress(step, maxSteps int) float64 {
	if maxSteps <= 0 {
		return 0
	}
	return clamp01(float64(step) / float64(maxSteps))
}

// For computes the indicators for a side. Unknown sides get the
// therapist's indicators.
func For(side domain.ScriptID, step, maxSteps int) Snapshot {
	p := Progress(step, maxSteps)
	if side == domain.ScriptAI {
		return aiSnapshot(p)
	}
	return therapistSnapshot(p)
}

// The AI field contracts: mirroring stays high, the semantic field
// narrows and the loop closes.
func aiSnapshot(p float64) Snapshot {
	return Snapshot{
		Side: domain.ScriptAI,
		Bars: []Bar{
			{"Mirroring", max(0.3, 0.8-p*0.3)},
			{"Semantic field", max(0.1, 0.8-p*0.7)},
			{"Loop closure", 0.2 + p*0.7},
		},
		Radius: max(8, 30-p*22),
		Status: status(p, "MIRRORING", "NARROWING", "DRIFT COMPLETE"),
	}
}

// The therapist field widens as meaning is made together.
func therapistSnapshot(p float64) Snapshot {
	return Snapshot{
		Side: domain.ScriptTherapist,
		Bars: []Bar{
			{"Co-regulation", 0.2 + p*0.7},
			{"New meaning", 0.1 + p*0.8},
			{"Semantic field", 0.3 + p*0.6},
			{"Metabolization", 0.1 + p*0.75},
		},
		Radius: 15 + p*20,
		Status: status(p, "ATTUNEMENT", "CO-REGULATION", "INTEGRATION"),
	}
}

func status(p float64, early, middle, late string) string {
	switch {
	case p > 0.7:
		return late
	case p > 0.4:
		return middle
	default:
		return early
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
