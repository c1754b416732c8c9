package expreplay

import (
	"bytes"
	"encoding/gob"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// frame returns a 1x2 frame filled with v
func frame(v float64) *mat.Dense {
	return mat.NewDense(1, 2, []float64{v, v})
}

func TestCapacityInvariant(t *testing.T) {
	capacity := 5
	m, err := New(capacity, 2, 1, 2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}

	for n := 1; n <= 12; n++ {
		m.Add(frame(float64(n)), float64(n)/10, n%3, false)

		want := n
		if want > capacity {
			want = capacity
		}
		if m.Count() != want {
			t.Errorf("count after %v adds: \n\twant(%v) \n\thave(%v)", n, want,
				m.Count())
		}
	}

	// The memory holds the last five insertions, oldest first
	for i := 0; i < capacity; i++ {
		n := 12 - capacity + 1 + i
		tr := m.At(i)
		if v := tr.Observation.At(0, 1); v != float64(n) {
			t.Errorf("frame %v: \n\twant(%v) \n\thave(%v)", i, n, v)
		}
		if tr.Action != n%3 {
			t.Errorf("action %v: \n\twant(%v) \n\thave(%v)", i, n%3, tr.Action)
		}
		if tr.Reward != float64(n)/10 {
			t.Errorf("reward %v: \n\twant(%v) \n\thave(%v)", i, float64(n)/10,
				tr.Reward)
		}
	}
}

func TestAddCopiesFrame(t *testing.T) {
	m, err := New(3, 1, 1, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	f := frame(1)
	m.Add(f, 0, 0, false)
	f.Set(0, 0, 100)

	if v := m.At(0).Observation.At(0, 0); v != 1 {
		t.Errorf("stored frame aliased caller data: \n\twant(1) \n\thave(%v)",
			v)
	}
}

// Scenario: capacity 5, history 2, a three step episode ending in a
// terminal followed by two steps of the next episode. Frames carry their
// episode number so that any window mixing episodes is detectable.
func TestNoCrossEpisodeLeakage(t *testing.T) {
	m, err := New(5, 2, 1, 2, 64, 42)
	if err != nil {
		t.Fatal(err)
	}

	m.Add(frame(1), 0, 0, false)
	m.Add(frame(1), 0, 1, false)
	m.Add(frame(1), 1, 2, true)
	m.Add(frame(2), 0, 0, false)
	m.Add(frame(2), 0, 1, false)

	for iter := 0; iter < 20; iter++ {
		batch, err := m.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if batch.Len() != 64 {
			t.Errorf("batch size: \n\twant(64) \n\thave(%v)", batch.Len())
		}

		for row := 0; row < batch.Len(); row++ {
			checkSingleEpisode(t, batch.States.RawRowView(row))
			checkSingleEpisode(t, batch.NextStates.RawRowView(row))

			// The only valid window ends at the terminal frame
			if !batch.Terminals[row] || batch.Actions[row] != 2 ||
				batch.Rewards[row] != 1 {
				t.Errorf("unexpected transition (a=%v, r=%v, done=%v)",
					batch.Actions[row], batch.Rewards[row],
					batch.Terminals[row])
			}
		}
	}
}

func checkSingleEpisode(t *testing.T, state []float64) {
	t.Helper()
	for _, v := range state {
		if v != state[0] {
			t.Errorf("state crosses an episode boundary: %v", state)
			return
		}
	}
}

func TestSampleSkipsWriteCursor(t *testing.T) {
	m, err := New(6, 2, 1, 2, 128, 7)
	if err != nil {
		t.Fatal(err)
	}

	// Frames are numbered so that consecutive frames differ by one
	for n := 0; n < 8; n++ {
		m.Add(frame(float64(n)), 0, 0, false)
	}

	batch, err := m.Sample()
	if err != nil {
		t.Fatal(err)
	}

	for row := 0; row < batch.Len(); row++ {
		state := batch.States.RawRowView(row)
		next := batch.NextStates.RawRowView(row)

		// Each state holds two frames of two elements each
		if state[2] != state[0]+1 {
			t.Errorf("state frames not contiguous in time: %v", state)
		}
		if next[0] != state[2] || next[2] != next[0]+1 {
			t.Errorf("next state %v does not follow state %v", next, state)
		}
	}
}

func TestInsufficientSamples(t *testing.T) {
	m, err := New(10, 3, 1, 2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}

	for n := 0; n < 3; n++ {
		_, err := m.Sample()
		if !IsInsufficientSamples(err) {
			t.Errorf("sample with %v transitions: \n\twant(%v) \n\thave(%v)",
				m.Count(), ErrInsufficientSamples, err)
		}
		if IsWindowExhausted(err) {
			t.Errorf("insufficient samples reported as window exhaustion")
		}
		m.Add(frame(float64(n)), 0, 0, false)
	}
}

func TestSampleNInvalid(t *testing.T) {
	m, err := New(10, 1, 1, 2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 5; n++ {
		m.Add(frame(float64(n)), 0, 0, false)
	}

	for _, n := range []int{0, -3} {
		_, err := m.SampleN(n)
		if err == nil {
			t.Errorf("samplen(%v): expected error", n)
		}
		if IsInsufficientSamples(err) {
			t.Errorf("samplen(%v): invalid size reported as insufficient "+
				"samples", n)
		}
	}

	b, err := m.SampleN(2)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := b.States.Dims(); r != 2 {
		t.Errorf("samplen(2) rows: \n\twant(2) \n\thave(%v)", r)
	}
}

func TestWindowExhausted(t *testing.T) {
	m, err := New(4, 2, 1, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}

	// Every frame ends its own episode, so no window is valid
	for n := 0; n < 4; n++ {
		m.Add(frame(float64(n)), 0, 0, true)
	}

	_, err = m.Sample()
	if !IsWindowExhausted(err) {
		t.Errorf("sample: \n\twant(%v) \n\thave(%v)", ErrWindowExhausted, err)
	}
	if !IsInsufficientSamples(err) {
		t.Errorf("window exhaustion should be treated as insufficient samples")
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		capacity, history, rows, cols, batch int
	}{
		{1, 2, 1, 1, 1},
		{10, 0, 1, 1, 1},
		{10, 2, 0, 1, 1},
		{10, 2, 1, 1, 0},
	}

	for _, test := range tests {
		_, err := New(test.capacity, test.history, test.rows, test.cols,
			test.batch, 0)
		if err == nil {
			t.Errorf("new(%+v): expected error", test)
		}
	}
}

func TestGob(t *testing.T) {
	m, err := New(4, 2, 1, 2, 2, 9)
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 6; n++ {
		m.Add(frame(float64(n)), float64(n), n, n == 3)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		t.Fatal(err)
	}

	decoded := &Memory{}
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Count() != m.Count() || decoded.String() != m.String() {
		t.Errorf("decoded memory: \n\twant(%v) \n\thave(%v)", m, decoded)
	}
	for i := 0; i < m.Count(); i++ {
		want, have := m.At(i), decoded.At(i)
		if !mat.Equal(want.Observation, have.Observation) ||
			want.Action != have.Action || want.Reward != have.Reward ||
			want.Terminal != have.Terminal {
			t.Errorf("transition %v: \n\twant(%+v) \n\thave(%+v)", i, want,
				have)
		}
	}
}
