package initwfn

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalJSON(t *testing.T) {
	data := `{"Type": "GlorotU", "Config": {"Gain": 1.4142}}`

	var w InitWFn
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		t.Fatal(err)
	}
	if w.Type != GlorotU {
		t.Errorf("type: \n\twant(%v) \n\thave(%v)", GlorotU, w.Type)
	}
	if c, ok := w.Config.(GlorotUConfig); !ok || c.Gain != 1.4142 {
		t.Errorf("config: \n\twant(GlorotUConfig{1.4142}) \n\thave(%#v)",
			w.Config)
	}
	if w.InitWFn() == nil {
		t.Error("gorgonia initializer not created")
	}
}

func TestUnmarshalZeroes(t *testing.T) {
	var w InitWFn
	if err := json.Unmarshal([]byte(`{"Type": "Zeroes"}`), &w); err != nil {
		t.Fatal(err)
	}
	if w.Type != Zeroes || w.InitWFn() == nil {
		t.Errorf("zeroes: have %v", &w)
	}
}

func TestUnmarshalUnknown(t *testing.T) {
	var w InitWFn
	if err := json.Unmarshal([]byte(`{"Type": "Orthogonal"}`), &w); err == nil {
		t.Error("unknown initializer type should error")
	}
}
