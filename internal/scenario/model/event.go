package model

import (
	"math/rand"

	"smartspec-scenariogen/internal/scenario/rng"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

// SpaceSelector chooses N of K candidate spaces on materialization.
type SpaceSelector struct {
	SpaceIDs []SpaceID
	N        int
}

func (s SpaceSelector) Select(r *rand.Rand) []SpaceID {
	n := s.N
	if n <= 0 {
		n = 1
	}
	sel := rng.Selector[SpaceID]{Items: s.SpaceIDs}
	return sel.SelectRandomN(r, n, false)
}

// CapRangeDistr is a per-metaperson capacity range given as
// (lo~Normal, hi~Normal); materializing an Event resamples until lo<=hi.
type CapRangeDistr struct {
	Lo, Hi Normal
}

// MetaEvent is the archetype a concrete Event is materialized from.
// ID 0 is leisure (infinite capacity, outside space); ID -1 is
// out-of-simulation.
type MetaEvent struct {
	ID          MetaEventID
	Description string
	Pr          float64
	Selector    SpaceSelector
	TPs         []timeprofile.Profile
	TPsPrs      []float64
	Cap         map[MetaPersonID]CapRangeDistr
}

// Event is a concrete, materialized instance of a MetaEvent.
type Event struct {
	ID          EventID
	MetaID      MetaEventID
	TPIndex     int
	Spaces      []SpaceID
	Cap         map[MetaPersonID]CapRange
	Enrolled    map[MetaPersonID]int
}

func NewEvent(id EventID, mid MetaEventID, tpIndex int, spaces []SpaceID, cap map[MetaPersonID]CapRange) *Event {
	return &Event{
		ID:       id,
		MetaID:   mid,
		TPIndex:  tpIndex,
		Spaces:   spaces,
		Cap:      cap,
		Enrolled: make(map[MetaPersonID]int),
	}
}

// CanAttend reports whether metaperson mid may still enroll: the key
// must exist in Cap, and if mid is not yet enrolled at all, Cap[mid]
// must allow at least one slot (Hi != 0); once enrolled, the running
// tally must stay strictly below Hi (Hi == -1 meaning unlimited) --
// enrolled == cap must block, not admit one more.
func (e *Event) CanAttend(mid MetaPersonID) bool {
	cr, ok := e.Cap[mid]
	if !ok {
		return false
	}
	enrolled, hasEnrolled := e.Enrolled[mid]
	if !hasEnrolled || enrolled == 0 {
		return cr.Hi != 0
	}
	return cr.Unbounded() || enrolled < cr.Hi
}

func (e *Event) EnrollMetaPerson(mid MetaPersonID) {
	e.Enrolled[mid]++
}

// TotalCapacity sums Cap[*].Hi across metapeople; -1 (unbounded)
// poisons the sum to -1 per the original's "unlimited wins" semantics.
func (e *Event) TotalCapacity() int {
	total := 0
	for _, cr := range e.Cap {
		if cr.Unbounded() {
			return -1
		}
		total += cr.Hi
	}
	return total
}

func (e *Event) IsLeisure() bool { return e.ID == LeisureEventID }
func (e *Event) IsOut() bool     { return e.ID == OutEventID }
