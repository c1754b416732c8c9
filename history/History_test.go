package history

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// frame returns a 2x2 frame filled with v
func frame(v float64) *mat.Dense {
	return mat.NewDense(2, 2, []float64{v, v, v, v})
}

func TestResetFillsWindow(t *testing.T) {
	h, err := New(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	h.Reset(frame(7))
	want := []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
	if have := h.Get(); !floats.Equal(want, have) {
		t.Errorf("reset: \n\twant(%v) \n\thave(%v)", want, have)
	}
}

func TestAddEvictsOldest(t *testing.T) {
	h, err := New(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	h.Reset(frame(0))

	for i := 1; i <= 5; i++ {
		h.Add(frame(float64(i)))
	}

	// Window holds frames 3, 4, 5 with the oldest first
	want := []float64{3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5}
	if have := h.Get(); !floats.Equal(want, have) {
		t.Errorf("add: \n\twant(%v) \n\thave(%v)", want, have)
	}
}

func TestGetIsRepeatableAndCopies(t *testing.T) {
	h, err := New(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	h.Reset(frame(1))
	h.Add(frame(2))

	first := h.Get()
	first[0] = 100
	second := h.Get()

	want := []float64{1, 1, 1, 1, 2, 2, 2, 2}
	if !floats.Equal(want, second) {
		t.Errorf("get mutated by caller: \n\twant(%v) \n\thave(%v)", want,
			second)
	}
}

func TestAddCopiesFrame(t *testing.T) {
	h, err := New(1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	f := frame(1)
	h.Add(f)
	f.Set(0, 0, 9)

	if have := h.Get()[0]; have != 1 {
		t.Errorf("frame aliased: \n\twant(1) \n\thave(%v)", have)
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(0, 2, 2); err == nil {
		t.Error("new: expected error for zero length")
	}
	if _, err := New(2, 0, 2); err == nil {
		t.Error("new: expected error for zero rows")
	}
}

func TestAddWrongShapePanics(t *testing.T) {
	h, err := New(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("add: expected panic on wrong frame shape")
		}
	}()
	h.Add(mat.NewDense(3, 1, nil))
}
