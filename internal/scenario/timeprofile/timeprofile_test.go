package timeprofile_test

import (
	"math/rand"
	"testing"
	"time"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayPatternExpansion(t *testing.T) {
	e := timeprofile.Entry{
		Pattern: timeprofile.Day,
		Details: timeprofile.PeriodDetails{RepeatEvery: 2},
		Start:   date(2024, 1, 1),
		End:     date(2024, 1, 8),
	}
	if err := e.Expand(); err != nil {
		t.Fatal(err)
	}
	want := []time.Time{date(2024, 1, 1), date(2024, 1, 3), date(2024, 1, 5), date(2024, 1, 7)}
	got := e.Dates()
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExpansionIdempotent(t *testing.T) {
	mk := func() timeprofile.Entry {
		return timeprofile.Entry{
			Pattern: timeprofile.Week,
			Details: timeprofile.PeriodDetails{RepeatEvery: 1, Weekdays: []timeprofile.Weekday{1, 3}},
			Start:   date(2024, 1, 1),
			End:     date(2024, 2, 1),
		}
	}
	e1, e2 := mk(), mk()
	if err := e1.Expand(); err != nil {
		t.Fatal(err)
	}
	if err := e2.Expand(); err != nil {
		t.Fatal(err)
	}
	d1, d2 := e1.Dates(), e2.Dates()
	if len(d1) != len(d2) {
		t.Fatalf("non-idempotent expansion: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if !d1[i].Equal(d2[i]) {
			t.Fatalf("date[%d] differs: %v vs %v", i, d1[i], d2[i])
		}
		if i > 0 && !d1[i-1].Before(d1[i]) {
			t.Fatalf("dates not strictly sorted/unique at %d", i)
		}
		if d1[i].Before(date(2024, 1, 1)) || d1[i].After(date(2024, 2, 1)) {
			t.Fatalf("date out of bounds: %v", d1[i])
		}
	}
}

func TestQueryNonETAProbe(t *testing.T) {
	e := timeprofile.Entry{
		Pattern:   timeprofile.Day,
		Details:   timeprofile.PeriodDetails{RepeatEvery: 1},
		Start:     date(2024, 1, 1),
		End:       date(2024, 1, 1),
		StartTime: clock.Normal{Mean: 9 * 3600},
		EndTime:   clock.Normal{Mean: 17 * 3600},
		Required:  clock.Normal{Mean: 8 * 3600},
	}
	if err := e.Expand(); err != nil {
		t.Fatal(err)
	}
	profile := timeprofile.Profile{Entries: []timeprofile.Entry{e}}
	r := rand.New(rand.NewSource(1))
	anchor := clock.NewDateTime(date(2024, 1, 1))
	tp := profile.Query(anchor, false, r)
	if tp.IsNull() {
		t.Fatal("expected a non-null period")
	}
	if tp.Duration() != 8*3600 {
		t.Fatalf("duration = %d, want %d", tp.Duration(), 8*3600)
	}
}

func TestQueryNoMatchIsNull(t *testing.T) {
	e := timeprofile.Entry{
		Pattern: timeprofile.Day,
		Details: timeprofile.PeriodDetails{RepeatEvery: 1},
		Start:   date(2024, 1, 1),
		End:     date(2024, 1, 1),
	}
	if err := e.Expand(); err != nil {
		t.Fatal(err)
	}
	profile := timeprofile.Profile{Entries: []timeprofile.Entry{e}}
	r := rand.New(rand.NewSource(1))
	anchor := clock.NewDateTime(date(2024, 1, 2))
	tp := profile.Query(anchor, false, r)
	if !tp.IsNull() {
		t.Fatal("expected a null period for a non-matching date")
	}
}
