package model

import (
	"sort"

	"smartspec-scenariogen/internal/scenario/timeprofile"
)

// MetaPerson is the archetype a concrete Person is materialized from.
type MetaPerson struct {
	ID          MetaPersonID
	Description string
	Pr          float64
	TPs         []timeprofile.Profile
	TPsPrs      []float64
	Affinity    map[MetaEventID]float64
}

// Person is a concrete, materialized instance of a MetaPerson. Current
// space starts at OutsideSpaceID (0).
type Person struct {
	ID          PersonID
	MetaID      MetaPersonID
	Description string
	TPIndex     int
	CurrentSpace SpaceID

	// Attended is the set of EventLogistics the person has attended,
	// ordered by (EventID, SpaceID) as the simulator's recurring-recall
	// pass walks it.
	Attended []EventLogistics

	// Derived tallies, kept in sync by the simulator as Attended grows.
	AttendedEventIDs    map[EventID]bool
	AttendedMetaEventCt map[MetaEventID]int
}

func NewPerson(id PersonID, mid MetaPersonID, tpIndex int) *Person {
	return &Person{
		ID:                  id,
		MetaID:              mid,
		TPIndex:              tpIndex,
		CurrentSpace:         OutsideSpaceID,
		AttendedEventIDs:     make(map[EventID]bool),
		AttendedMetaEventCt:  make(map[MetaEventID]int),
	}
}

// Attend records a newly attended EventLogistics and updates the
// derived tallies used by the Constraint Engine. Leisure/out events
// are recorded by the caller's choice but typically skipped (see
// Simulator.attend in package simulation). An EventLogistics with the
// same (EventID, SpaceID) as one already in Attended is not added twice.
func (p *Person) Attend(el EventLogistics) {
	i := sort.Search(len(p.Attended), func(i int) bool { return !p.Attended[i].Less(el) })
	if i == len(p.Attended) || el.Less(p.Attended[i]) {
		p.Attended = append(p.Attended, EventLogistics{})
		copy(p.Attended[i+1:], p.Attended[i:])
		p.Attended[i] = el
	}
	p.AttendedEventIDs[el.EventID] = true
	p.AttendedMetaEventCt[el.MetaEventID]++
}
