package domain

// StepState is a snapshot of the step controller.
// Invariant: 0 <= CurrentStep <= MaxStep, and Playing is false whenever
// CurrentStep == MaxStep.
type StepState struct {
	CurrentStep int
	MaxStep     int
	Playing     bool
}

// AtEnd reports whether the last step is revealed.
func (s StepState) AtEnd() bool {
	return s.CurrentStep >= s.MaxStep
}
