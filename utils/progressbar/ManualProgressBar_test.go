package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 5, 10)

	for i := 0; i < 20; i++ {
		p.Increment()
	}
	if p.Progress() != 10 {
		t.Errorf("progress: \n\twant(10) \n\thave(%v)", p.Progress())
	}

	p.Display()
	out := buf.String()
	if !strings.Contains(out, "10/10 [100.00%") {
		t.Errorf("unexpected progress bar: %q", out)
	}
	if n := strings.Count(out, "█"); n != 10 {
		t.Errorf("filled cells: \n\twant(10) \n\thave(%v)", n)
	}
}
