package floatutils

import (
	"math"
	"testing"
)

func TestClipIdempotent(t *testing.T) {
	min, max := -1.0, 1.0
	values := []float64{-1000, -1.5, -1, -0.3, 0, 0.999, 1, 1.0001, 42,
		math.Inf(1), math.Inf(-1)}

	for _, v := range values {
		once := Clip(v, min, max)
		twice := Clip(once, min, max)

		if once != twice {
			t.Errorf("clip not idempotent for %v: \n\twant(%v) \n\thave(%v)",
				v, once, twice)
		}
		if once < min || once > max {
			t.Errorf("clip(%v) = %v outside [%v, %v]", v, once, min, max)
		}
	}
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		values []float64
		want   int
	}{
		{[]float64{1, 2, 3}, 2},
		{[]float64{3, 2, 1}, 0},
		{[]float64{0, 5, 5, 1}, 1},
		{[]float64{-1, -1, -1}, 0},
		{[]float64{}, -1},
	}

	for _, test := range tests {
		if have := ArgMax(test.values); have != test.want {
			t.Errorf("argmax(%v): \n\twant(%v) \n\thave(%v)", test.values,
				test.want, have)
		}
	}
}
