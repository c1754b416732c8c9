package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testReports() []Report {
	return []Report{
		{
			RunID: "run", Step: 100, Epsilon: 1, AvgReward: 0.5,
			AvgLoss: math.NaN(), AvgQ: math.NaN(),
			MaxEpReward: math.NaN(), MinEpReward: math.NaN(),
		},
		{
			RunID: "run", Step: 200, Epsilon: 0.9, AvgReward: 0.25,
			AvgLoss: 0.01, AvgQ: 1.5, MaxEpReward: 3, MinEpReward: -1,
			NumGames: 4, Updates: 25,
		},
	}
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func sameReport(a, b Report) bool {
	return a.RunID == b.RunID && a.Step == b.Step &&
		sameFloat(a.Epsilon, b.Epsilon) &&
		sameFloat(a.AvgReward, b.AvgReward) &&
		sameFloat(a.AvgLoss, b.AvgLoss) && sameFloat(a.AvgQ, b.AvgQ) &&
		sameFloat(a.MaxEpReward, b.MaxEpReward) &&
		sameFloat(a.MinEpReward, b.MinEpReward) &&
		a.NumGames == b.NumGames && a.Updates == b.Updates
}

func TestReportJSONOmitsUndefined(t *testing.T) {
	r := testReports()[0]

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"avg_loss", "avg_q", "max_ep_reward",
		"min_ep_reward"} {
		if strings.Contains(string(data), field) {
			t.Errorf("undefined field %v marshalled: %s", field, data)
		}
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !sameReport(r, decoded) {
		t.Errorf("decoded report: \n\twant(%v) \n\thave(%v)", r, decoded)
	}
}

type failingTracker struct {
	tracked int
}

var errTrack = errors.New("track failed")

func (f *failingTracker) Track(Report) error {
	f.tracked++
	return errTrack
}

func (f *failingTracker) Save() error { return nil }

func TestRegister(t *testing.T) {
	g := NewGob(filepath.Join(t.TempDir(), "reports.gob"))
	f := &failingTracker{}

	tr := Register(Register(f, nil), g)
	if n := tr.(*multiTracker).Len(); n != 2 {
		t.Errorf("registered trackers: \n\twant(2) \n\thave(%v)", n)
	}

	for _, r := range testReports() {
		if err := tr.Track(r); !errors.Is(err, errTrack) {
			t.Errorf("track: \n\twant(%v) \n\thave(%v)", errTrack, err)
		}
	}

	// Trackers after a failing one still receive every report
	if len(g.Reports()) != 2 || f.tracked != 2 {
		t.Errorf("tracked reports: \n\twant(2, 2) \n\thave(%v, %v)",
			len(g.Reports()), f.tracked)
	}
}

func TestGobSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reports.gob")
	g := NewGob(filename)

	want := testReports()
	for _, r := range want {
		if err := g.Track(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Save(); err != nil {
		t.Fatal(err)
	}

	have, err := LoadReports(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(have) != len(want) {
		t.Fatalf("loaded reports: \n\twant(%v) \n\thave(%v)", len(want),
			len(have))
	}
	for i := range want {
		if !sameReport(want[i], have[i]) {
			t.Errorf("report %v: \n\twant(%v) \n\thave(%v)", i, want[i],
				have[i])
		}
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(&buf, false)

	for _, r := range testReports() {
		if err := l.Track(r); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines written: \n\twant(2) \n\thave(%v)", len(lines))
	}
	if !strings.Contains(lines[0], "avg_l: n/a") {
		t.Errorf("undefined loss not marked: %q", lines[0])
	}
	if !strings.Contains(lines[1], "avg_l: 0.010000") ||
		!strings.Contains(lines[1], "# game: 4") {
		t.Errorf("unexpected report line: %q", lines[1])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape codes written with colours disabled")
	}
}

func TestPlotAndChart(t *testing.T) {
	dir := t.TempDir()
	trackers := map[string]Tracker{
		"curves.png":  NewPlot(filepath.Join(dir, "curves.png"), "test"),
		"curves.html": NewChart(filepath.Join(dir, "curves.html"), "test"),
	}

	for name, tr := range trackers {
		for _, r := range testReports() {
			if err := tr.Track(r); err != nil {
				t.Fatal(err)
			}
		}
		if err := tr.Save(); err != nil {
			t.Fatalf("save %v: %v", name, err)
		}

		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%v: empty file", name)
		}
	}
}

func TestStatus(t *testing.T) {
	s := NewStatus("127.0.0.1:0")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status before first report: \n\twant(%v) \n\thave(%v)",
			http.StatusNoContent, resp.StatusCode)
	}

	reports := testReports()
	for _, r := range reports {
		if err := s.Track(r); err != nil {
			t.Fatal(err)
		}
	}

	resp, err = http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	var latest Report
	err = json.NewDecoder(resp.Body).Decode(&latest)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !sameReport(latest, reports[1]) {
		t.Errorf("latest report: \n\twant(%v) \n\thave(%v)", reports[1],
			latest)
	}

	resp, err = http.Get(srv.URL + "/reports")
	if err != nil {
		t.Fatal(err)
	}
	var all struct {
		Count   int      `json:"count"`
		Reports []Report `json:"reports"`
	}
	err = json.NewDecoder(resp.Body).Decode(&all)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if all.Count != 2 || len(all.Reports) != 2 {
		t.Fatalf("reports: \n\twant(2) \n\thave(%v, %v)", all.Count,
			len(all.Reports))
	}
	if !sameReport(all.Reports[0], reports[0]) {
		t.Errorf("first report: \n\twant(%v) \n\thave(%v)", reports[0],
			all.Reports[0])
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("GODQN_REDIS_ADDR")
	if addr == "" {
		t.Skip("GODQN_REDIS_ADDR not set")
	}

	r := NewRedis(addr, "test-"+t.Name())
	ctx := context.Background()
	if err := r.Ping(ctx); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	defer r.Save()
	defer r.client.Del(ctx, r.Key())

	want := testReports()
	for _, report := range want {
		if err := r.Track(report); err != nil {
			t.Fatal(err)
		}
	}

	have, err := r.Reports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(have) != len(want) {
		t.Fatalf("stored reports: \n\twant(%v) \n\thave(%v)", len(want),
			len(have))
	}
	for i := range want {
		if !sameReport(want[i], have[i]) {
			t.Errorf("report %v: \n\twant(%v) \n\thave(%v)", i, want[i],
				have[i])
		}
	}
}
