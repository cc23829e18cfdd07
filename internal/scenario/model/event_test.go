package model

import "testing"

func TestCanAttendBlocksAtCapacity(t *testing.T) {
	e := NewEvent(1, 1, 0, []SpaceID{0}, map[MetaPersonID]CapRange{
		1: {Lo: 0, Hi: 1},
	})

	if !e.CanAttend(1) {
		t.Fatalf("first enrollment into a cap-1 event should be allowed")
	}
	e.EnrollMetaPerson(1)

	if e.CanAttend(1) {
		t.Fatalf("CanAttend admitted a second person into a cap-1 event already at capacity")
	}
}

func TestCanAttendUnboundedAlwaysAllows(t *testing.T) {
	e := NewEvent(1, 1, 0, []SpaceID{0}, map[MetaPersonID]CapRange{
		1: {Lo: 0, Hi: -1},
	})
	for i := 0; i < 100; i++ {
		if !e.CanAttend(1) {
			t.Fatalf("unbounded capacity (Hi=-1) rejected enrollment %d", i)
		}
		e.EnrollMetaPerson(1)
	}
}

func TestCanAttendUnknownMetaPersonRejected(t *testing.T) {
	e := NewEvent(1, 1, 0, []SpaceID{0}, map[MetaPersonID]CapRange{
		1: {Lo: 0, Hi: 1},
	})
	if e.CanAttend(2) {
		t.Fatalf("CanAttend admitted a metaperson with no Cap entry")
	}
}

func TestCanAttendZeroCapacityRejected(t *testing.T) {
	e := NewEvent(1, 1, 0, []SpaceID{0}, map[MetaPersonID]CapRange{
		1: {Lo: 0, Hi: 0},
	})
	if e.CanAttend(1) {
		t.Fatalf("CanAttend admitted into a zero-capacity slot")
	}
}
