// Package exploration implements exploration rate schedules for
// epsilon-greedy action selection.
package exploration

import (
	"fmt"
	"math"
)

// LinearDecay anneals epsilon linearly from Start to End over EndStep
// steps. Decay begins only once the step counter passes LearnStart;
// before that epsilon is Start. After LearnStart+EndStep epsilon stays at
// End.
type LinearDecay struct {
	Start      float64
	End        float64
	EndStep    int
	LearnStart int
}

// NewLinearDecay returns a new validated LinearDecay schedule
func NewLinearDecay(start, end float64, endStep,
	learnStart int) (LinearDecay, error) {
	l := LinearDecay{
		Start:      start,
		End:        end,
		EndStep:    endStep,
		LearnStart: learnStart,
	}
	return l, l.Validate()
}

// Validate checks that the schedule's parameters are legal
func (l LinearDecay) Validate() error {
	if l.EndStep <= 0 {
		return fmt.Errorf("validate: epsilon end step must be positive "+
			"\n\twant(>0) \n\thave(%v)", l.EndStep)
	}
	if l.Start < 0 || l.Start > 1 {
		return fmt.Errorf("validate: starting epsilon must be in [0, 1] "+
			"\n\thave(%v)", l.Start)
	}
	if l.End < 0 || l.End > 1 {
		return fmt.Errorf("validate: final epsilon must be in [0, 1] "+
			"\n\thave(%v)", l.End)
	}
	if l.End > l.Start {
		return fmt.Errorf("validate: final epsilon cannot exceed starting "+
			"epsilon \n\twant(<=%v) \n\thave(%v)", l.Start, l.End)
	}
	if l.LearnStart < 0 {
		return fmt.Errorf("validate: learn start cannot be negative "+
			"\n\thave(%v)", l.LearnStart)
	}
	return nil
}

// Epsilon returns the exploration rate at step
func (l LinearDecay) Epsilon(step int) float64 {
	elapsed := math.Max(0, float64(step-l.LearnStart))
	remaining := float64(l.EndStep) - elapsed

	decay := (l.Start - l.End) * remaining / float64(l.EndStep)
	return l.End + math.Max(0, decay)
}

// String implements the fmt.Stringer interface
func (l LinearDecay) String() string {
	return fmt.Sprintf("LinearDecay | %v -> %v over %v steps after step %v",
		l.Start, l.End, l.EndStep, l.LearnStart)
}
