package simulation

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/constraints"
	"smartspec-scenariogen/internal/scenario/dataloader"
	"smartspec-scenariogen/internal/scenario/graph"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/registry"
	"smartspec-scenariogen/internal/scenario/timeprofile"
	"smartspec-scenariogen/internal/scenario/trajectory"
)

func newTestWorld(t *testing.T) *dataloader.World {
	t.Helper()

	spaces := registry.New[*model.Space, model.SpaceID](func(s *model.Space) model.SpaceID { return s.ID })
	spaces.Add(model.NewSpace(0, "outside", model.Coordinates{}, -1, nil))
	coords := map[model.SpaceID]model.Coordinates{0: {}}

	g := graph.New()
	g.AddNode(0, model.Coordinates{}, nil)
	g.BuildAllPairs()

	w := &dataloader.World{
		Spaces:      spaces,
		MetaPeople:  registry.New[*model.MetaPerson, model.MetaPersonID](func(m *model.MetaPerson) model.MetaPersonID { return m.ID }),
		People:      registry.New[*model.Person, model.PersonID](func(p *model.Person) model.PersonID { return p.ID }),
		MetaEvents:  registry.New[*model.MetaEvent, model.MetaEventID](func(m *model.MetaEvent) model.MetaEventID { return m.ID }),
		Events:      registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID }),
		Graph:       g,
		Constraints: constraints.New(),
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	w.Trajectories = trajectory.New(g, coords)
	return w
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %q: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %q: %v", path, err)
	}
	return rows
}

// TestEmptyWorld covers spec.md §8 scenario 1: with no people, the
// output CSV should contain only its header.
func TestEmptyWorld(t *testing.T) {
	w := newTestWorld(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	logPath := filepath.Join(dir, "data_log.txt")

	sim, err := New(w, rand.New(rand.NewSource(1)), dataPath, logPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sim.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := sim.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readCSV(t, dataPath)
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d rows: %v", len(rows), rows)
	}
	want := []string{"PersonID", "EventID", "SpaceID", "StartDateTime", "EndDateTime"}
	for i, h := range want {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
}

// dailyProfile builds a single-entry time profile active every day
// from startSec to endSec, requiring exactly (endSec-startSec) seconds
// -- i.e. no slack, so the probe/scheduling windows are pinned.
func dailyProfile(t *testing.T, startSec, endSec int) timeprofile.Profile {
	t.Helper()
	e := timeprofile.Entry{
		Pattern:   timeprofile.Day,
		Details:   timeprofile.PeriodDetails{RepeatEvery: 1},
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		StartTime: clock.Normal{Mean: float64(startSec)},
		EndTime:   clock.Normal{Mean: float64(endSec)},
		Required:  clock.Normal{Mean: float64(endSec - startSec)},
		Recurring: true,
	}
	if err := e.Expand(); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return timeprofile.Profile{Entries: []timeprofile.Entry{e}}
}

// TestSinglePersonNoEvents covers spec.md §8 scenario 2: a lone
// person active 09:00-17:00 with no events in the registry should
// produce out/leisure/out rows in space 0 spanning the whole day.
func TestSinglePersonNoEvents(t *testing.T) {
	w := newTestWorld(t)

	mp := &model.MetaPerson{
		ID:  1,
		TPs: []timeprofile.Profile{dailyProfile(t, 9*3600, 17*3600)},
	}
	w.MetaPeople.Add(mp)
	w.People.Add(model.NewPerson(1, 1, 0))

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	logPath := filepath.Join(dir, "data_log.txt")

	sim, err := New(w, rand.New(rand.NewSource(1)), dataPath, logPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sim.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := sim.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readCSV(t, dataPath)[1:]
	if len(rows) < 2 {
		t.Fatalf("expected at least an out-arrive and out-leave row, got %d: %v", len(rows), rows)
	}

	layout := "2006-01-02 15:04:05"
	total := 0
	for _, r := range rows {
		if r[0] != "1" {
			t.Errorf("row references unexpected person %q", r[0])
		}
		if r[2] != "0" {
			t.Errorf("row references unexpected space %q, want 0 (no other spaces exist)", r[2])
		}
		start, err := time.Parse(layout, r[3])
		if err != nil {
			t.Fatalf("parsing start %q: %v", r[3], err)
		}
		end, err := time.Parse(layout, r[4])
		if err != nil {
			t.Fatalf("parsing end %q: %v", r[4], err)
		}
		if end.Before(start) {
			t.Errorf("row has end before start: %v", r)
		}
		total += int(end.Sub(start).Seconds())
	}

	if rows[0][1] != "-1" {
		t.Errorf("first row should be the out event, got event %q", rows[0][1])
	}
	if rows[len(rows)-1][1] != "-1" {
		t.Errorf("last row should be the out event, got event %q", rows[len(rows)-1][1])
	}

	if total != 86399 {
		t.Errorf("total recorded seconds = %d, want 86399 (00:00:00-23:59:59)", total)
	}
}
