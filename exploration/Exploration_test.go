package exploration

import (
	"math"
	"testing"
)

func TestLinearDecayEndpoints(t *testing.T) {
	l, err := NewLinearDecay(1.0, 0.1, 1_000_000, 100)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		step int
		want float64
	}{
		{0, 1.0},
		{100, 1.0},
		{100 + 500_000, 0.55},
		{100 + 1_000_000, 0.1},
		{100 + 5_000_000, 0.1},
	}

	for _, test := range tests {
		if have := l.Epsilon(test.step); math.Abs(have-test.want) > 1e-9 {
			t.Errorf("epsilon(%v): \n\twant(%v) \n\thave(%v)", test.step,
				test.want, have)
		}
	}
}

func TestLinearDecayBoundedAndMonotone(t *testing.T) {
	l := LinearDecay{Start: 0.9, End: 0.05, EndStep: 250, LearnStart: 50}

	prev := math.Inf(1)
	for step := 0; step < 1000; step++ {
		eps := l.Epsilon(step)
		if eps < l.End || eps > l.Start {
			t.Errorf("epsilon(%v) = %v outside [%v, %v]", step, eps, l.End,
				l.Start)
		}
		if eps > prev {
			t.Errorf("epsilon increased at step %v: %v -> %v", step, prev, eps)
		}
		prev = eps
	}
}

func TestLinearDecayValidate(t *testing.T) {
	invalid := []LinearDecay{
		{Start: 1, End: 0.1, EndStep: 0},
		{Start: 1.5, End: 0.1, EndStep: 10},
		{Start: 1, End: -0.1, EndStep: 10},
		{Start: 0.1, End: 0.5, EndStep: 10},
		{Start: 1, End: 0.1, EndStep: 10, LearnStart: -1},
	}

	for _, l := range invalid {
		if err := l.Validate(); err == nil {
			t.Errorf("validate(%v): expected error", l)
		}
	}
}
