package network

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/solver"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func testConfig(t *testing.T, init initwfn.Config) Config {
	t.Helper()

	s, err := solver.NewVanilla(0.1, 1, -1)
	if err != nil {
		t.Fatal(err)
	}

	return Config{
		HiddenSizes: []int{8},
		Activations: []*Activation{ReLU()},
		Solver:      s,
		InitWFn:     initwfn.New(init),
	}
}

func randomStates(rows, cols int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(rows, cols, data)
}

func TestTrainStepClipsBellmanError(t *testing.T) {
	tests := []struct {
		targets []float64
		want    float64
	}{
		{[]float64{5, 5}, 1.0},
		{[]float64{-5, -5}, 1.0},
		{[]float64{0.5, -0.25}, (0.25 + 0.0625) / 2},
		{[]float64{5, 0.5}, (1 + 0.25) / 2},
	}

	for _, test := range tests {
		// A zero network predicts zero for every action, so the Bellman
		// error equals the target
		q, err := New(testConfig(t, initwfn.ZeroesConfig{}), 3, 2, 2, -1, 1)
		if err != nil {
			t.Fatal(err)
		}

		loss, err := q.TrainStep(randomStates(2, 3, 1), []int{0, 1},
			test.targets)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(loss-test.want) > 1e-9 {
			t.Errorf("loss for targets %v: \n\twant(%v) \n\thave(%v)",
				test.targets, test.want, loss)
		}
	}
}

func TestSyncTargetFixedPoint(t *testing.T) {
	batch, features := 4, 5
	q, err := New(testConfig(t, initwfn.GlorotUConfig{Gain: 1}), features,
		3, batch, -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	states := randomStates(batch, features, 2)

	checkEqual := func(when string) {
		t.Helper()
		targetValues, err := q.TargetPredict(states)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < batch; i++ {
			online, err := q.Predict(states.RawRowView(i))
			if err != nil {
				t.Fatal(err)
			}
			for j, v := range online {
				if math.Abs(v-targetValues.At(i, j)) > 1e-9 {
					t.Errorf("%v: state %v action %v: \n\twant(%v) "+
						"\n\thave(%v)", when, i, j, v, targetValues.At(i, j))
				}
			}
		}
	}

	if err := q.SyncTarget(); err != nil {
		t.Fatal(err)
	}
	checkEqual("after sync")

	before, err := q.TargetPredict(states)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.TrainStep(states, []int{0, 1, 2, 0},
		[]float64{1, -1, 1, -1}); err != nil {
		t.Fatal(err)
	}

	// The target network is frozen until the next sync
	after, err := q.TargetPredict(states)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(before, after) {
		t.Errorf("target network changed by a train step")
	}

	if err := q.SyncTarget(); err != nil {
		t.Fatal(err)
	}
	checkEqual("after second sync")
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	c := testConfig(t, initwfn.GlorotUConfig{Gain: 1})
	c.CheckpointDir = dir
	q, err := New(c, 4, 2, 2, -1, 1)
	if err != nil {
		t.Fatal(err)
	}

	if step, err := q.Load(); err != nil || step != 0 {
		t.Errorf("load without checkpoint: \n\twant(0, nil) \n\thave(%v, %v)",
			step, err)
	}
	if err := q.Save(10); err != nil {
		t.Fatal(err)
	}

	c2 := testConfig(t, initwfn.GlorotUConfig{Gain: 1})
	c2.CheckpointDir = dir
	restored, err := New(c2, 4, 2, 2, -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	step, err := restored.Load()
	if err != nil {
		t.Fatal(err)
	}
	if step != 10 {
		t.Errorf("resume step: \n\twant(10) \n\thave(%v)", step)
	}

	state := []float64{0.1, 0.2, 0.3, 0.4}
	want, _ := q.Predict(state)
	have, _ := restored.Predict(state)
	for i := range want {
		if want[i] != have[i] {
			t.Errorf("restored prediction: \n\twant(%v) \n\thave(%v)", want,
				have)
			break
		}
	}
}

func TestConfigJSON(t *testing.T) {
	data := `{
		"HiddenSizes": [32, 16],
		"Activations": ["relu", "tanh"],
		"Solver": {"Type": "Adam", "Config": {"StepSize": 0.001,
			"Epsilon": 1e-8, "Beta1": 0.9, "Beta2": 0.999, "Batch": 1}},
		"InitWFn": {"Type": "HeN", "Config": {"Gain": 1}}
	}`

	var c Config
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Activations[1].String() != "tanh" {
		t.Errorf("activation: \n\twant(tanh) \n\thave(%v)", c.Activations[1])
	}

	c.Activations = c.Activations[:1]
	if err := c.Validate(); err == nil {
		t.Error("validate: mismatched activations should error")
	}
}

func TestNewRejectsSolverBatchScale(t *testing.T) {
	c := testConfig(t, initwfn.GlorotUConfig{Gain: 1})

	s, err := solver.NewVanilla(0.1, 8, -1)
	if err != nil {
		t.Fatal(err)
	}
	c.Solver = s

	if _, err := New(c, 4, 2, 4, -1, 1); err == nil {
		t.Error("new: solver batch scale above the batch size should error")
	}
	if _, err := New(c, 4, 2, 8, -1, 1); err != nil {
		t.Errorf("new: solver batch scale equal to the batch size: %v", err)
	}
}
