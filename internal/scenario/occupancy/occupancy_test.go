package occupancy_test

import (
	"testing"

	"smartspec-scenariogen/internal/scenario/occupancy"
)

func TestInsertAndOccupancy(t *testing.T) {
	m := occupancy.New()
	m.Insert(100, 200)
	m.Insert(150, 250)

	cases := []struct {
		t    int64
		want int
	}{
		{50, 0},
		{100, 1},
		{149, 1},
		{150, 2},
		{199, 2},
		{200, 1},
		{249, 1},
		{250, 0},
	}
	for _, c := range cases {
		if got := m.Occupancy(c.t); got != c.want {
			t.Errorf("Occupancy(%d) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestNextOpenTimeUnlimited(t *testing.T) {
	m := occupancy.New()
	m.Insert(0, 1000)
	got, ok := m.NextOpenTime(10, 86399, -1)
	if !ok || got != 10 {
		t.Fatalf("expected unlimited capacity to stay at t, got %d %v", got, ok)
	}
}

func TestNextOpenTimeScansForward(t *testing.T) {
	m := occupancy.New()
	m.Insert(0, 100) // occupancy 1 in [0,100)
	m.Insert(0, 100) // occupancy 2 in [0,100)
	got, ok := m.NextOpenTime(10, 86399, 1)
	if !ok {
		t.Fatal("expected a next open time to be found")
	}
	if got != 100 {
		t.Fatalf("NextOpenTime = %d, want 100", got)
	}
}

func TestNextOpenTimeNoneFound(t *testing.T) {
	m := occupancy.New()
	m.Insert(0, 86400)
	m.Insert(0, 86400)
	got, ok := m.NextOpenTime(10, 86399, 1)
	if ok {
		t.Fatalf("expected no open time, got %d", got)
	}
	if got != 86399 {
		t.Fatalf("expected sentinel dayEnd 86399, got %d", got)
	}
}
