package solver

import (
	"encoding/json"
	"testing"

	G "gorgonia.org/gorgonia"
)

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		data string
		want Type
	}{
		{`{"Type": "RMSProp", "Config": {"StepSize": 0.00025, ` +
			`"Epsilon": 0.01, "Rho": 0.95, "Batch": 1, "Clip": -1}}`, RMSProp},
		{`{"Type": "Adam", "Config": {"StepSize": 0.001, "Epsilon": 1e-8, ` +
			`"Beta1": 0.9, "Beta2": 0.999, "Batch": 1}}`, Adam},
		{`{"Type": "Vanilla", "Config": {"StepSize": 0.1, "Batch": 1}}`,
			Vanilla},
	}

	for _, test := range tests {
		var s Solver
		if err := json.Unmarshal([]byte(test.data), &s); err != nil {
			t.Errorf("unmarshal %v: %v", test.want, err)
			continue
		}
		if s.Type != test.want {
			t.Errorf("type: \n\twant(%v) \n\thave(%v)", test.want, s.Type)
		}
		if s.Solver == nil {
			t.Errorf("%v: gorgonia solver not created", test.want)
		}
	}
}

func TestRMSPropCreatesRMSProp(t *testing.T) {
	s, err := NewRMSProp(0.01, 0.01, 0.95, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Solver.(*G.RMSPropSolver); !ok {
		t.Errorf("rmsprop with clipping: \n\twant(*G.RMSPropSolver) "+
			"\n\thave(%T)", s.Solver)
	}
}

func TestInvalid(t *testing.T) {
	var s Solver
	if err := json.Unmarshal([]byte(`{"Type": "Nesterov"}`), &s); err == nil {
		t.Error("unmarshal: unknown solver type should error")
	}
	if _, err := NewVanilla(-1, 1, 0); err == nil {
		t.Error("newvanilla: negative step size should error")
	}
	if _, err := NewRMSProp(0.1, 0.01, 1.5, 1, 0); err == nil {
		t.Error("newrmsprop: rho outside [0, 1) should error")
	}
}

func TestCheckBatch(t *testing.T) {
	tests := []struct {
		scale, batch int
		ok           bool
	}{
		{1, 32, true},
		{32, 32, true},
		{64, 32, false},
	}

	for _, test := range tests {
		s, err := NewAdam(0.001, 1e-8, 0.9, 0.999, test.scale, -1)
		if err != nil {
			t.Fatal(err)
		}
		err = s.CheckBatch(test.batch)
		if (err == nil) != test.ok {
			t.Errorf("checkbatch(scale %v, batch %v): \n\twant(ok=%v) "+
				"\n\thave(%v)", test.scale, test.batch, test.ok, err)
		}
	}
}

func TestAdamConfig(t *testing.T) {
	s, err := NewDefaultAdam(0.001)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Solver.(*G.AdamSolver); !ok {
		t.Errorf("default adam: \n\twant(*G.AdamSolver) \n\thave(%T)",
			s.Solver)
	}
	if s.Config.BatchScale() != 1 {
		t.Errorf("default adam batch scale: \n\twant(1) \n\thave(%v)",
			s.Config.BatchScale())
	}

	if _, err := NewAdam(0.001, 1e-8, 0.9, 0.999, 1, 5); err != nil {
		t.Errorf("newadam with clipping: %v", err)
	}
	if _, err := NewAdam(0.001, 0, 0.9, 0.999, 1, -1); err == nil {
		t.Error("newadam: zero epsilon should error")
	}
	if _, err := NewAdam(0.001, 1e-8, 1, 0.999, 1, -1); err == nil {
		t.Error("newadam: beta1 of 1 should error")
	}
}
