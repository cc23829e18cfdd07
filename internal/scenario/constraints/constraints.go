// Package constraints implements Component F: the eight keyed
// constraint tables (CP, CMP, CE, CME, PE, PME, MPE, MPME) and the
// three combined checks the simulator calls.
package constraints

import (
	"math/rand"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

// SpaceKeyed carries the shared shape of CP/CMP/CE/CME rows: a
// required-events XOR required-metaevents gate (for Space-Person
// variants), an optional time-profile gate, and an optional capacity
// range (for Space-Event variants).
type SpaceKeyed struct {
	RequiredEvents     []model.EventID
	RequiredMetaEvents map[model.MetaEventID]model.CapRange
	TimeProfile        *timeprofile.Profile
	Capacity           *model.CapRange
}

// PersonEventKeyed is the structural slot for PE/PME/MPE/MPME rows.
// Per spec.md §9, the countdown/range fields exist but are never
// evaluated -- the original's checkPE/checkPME/checkMPE/checkMPME are
// literally `// TODO` followed by `return true`. This implementation
// preserves that: the fields are kept for forward compatibility but
// Engine.CheckPEConstraints always returns true.
type PersonEventKeyed struct {
	Countdown *int
	Range     *model.CapRange
}

// Engine holds the eight keyed tables.
type Engine struct {
	CP   map[spacePersonKey]SpaceKeyed
	CMP  map[spaceMetaPersonKey]SpaceKeyed
	CE   map[spaceEventKey]SpaceKeyed
	CME  map[spaceMetaEventKey]SpaceKeyed
	PE   map[personEventKey]PersonEventKeyed
	PME  map[personMetaEventKey]PersonEventKeyed
	MPE  map[metaPersonEventKey]PersonEventKeyed
	MPME map[metaPersonMetaEventKey]PersonEventKeyed
}

type (
	spacePersonKey         struct{ Space model.SpaceID; Person model.PersonID }
	spaceMetaPersonKey     struct{ Space model.SpaceID; MetaPerson model.MetaPersonID }
	spaceEventKey          struct{ Space model.SpaceID; Event model.EventID }
	spaceMetaEventKey      struct{ Space model.SpaceID; MetaEvent model.MetaEventID }
	personEventKey         struct{ Person model.PersonID; Event model.EventID }
	personMetaEventKey     struct{ Person model.PersonID; MetaEvent model.MetaEventID }
	metaPersonEventKey     struct{ MetaPerson model.MetaPersonID; Event model.EventID }
	metaPersonMetaEventKey struct{ MetaPerson model.MetaPersonID; MetaEvent model.MetaEventID }
)

func New() *Engine {
	return &Engine{
		CP:   make(map[spacePersonKey]SpaceKeyed),
		CMP:  make(map[spaceMetaPersonKey]SpaceKeyed),
		CE:   make(map[spaceEventKey]SpaceKeyed),
		CME:  make(map[spaceMetaEventKey]SpaceKeyed),
		PE:   make(map[personEventKey]PersonEventKeyed),
		PME:  make(map[personMetaEventKey]PersonEventKeyed),
		MPE:  make(map[metaPersonEventKey]PersonEventKeyed),
		MPME: make(map[metaPersonMetaEventKey]PersonEventKeyed),
	}
}

func (e *Engine) AddCP(space model.SpaceID, person model.PersonID, c SpaceKeyed) {
	e.CP[spacePersonKey{space, person}] = c
}

func (e *Engine) AddCMP(space model.SpaceID, mp model.MetaPersonID, c SpaceKeyed) {
	e.CMP[spaceMetaPersonKey{space, mp}] = c
}

func (e *Engine) AddCE(space model.SpaceID, event model.EventID, c SpaceKeyed) {
	e.CE[spaceEventKey{space, event}] = c
}

func (e *Engine) AddCME(space model.SpaceID, me model.MetaEventID, c SpaceKeyed) {
	e.CME[spaceMetaEventKey{space, me}] = c
}

func tallyContains(p *model.Person, required []model.EventID, requiredMeta map[model.MetaEventID]model.CapRange) bool {
	for _, eid := range required {
		if !p.AttendedEventIDs[eid] {
			return false
		}
	}
	for mid, cr := range requiredMeta {
		if !cr.Contains(p.AttendedMetaEventCt[mid]) {
			return false
		}
	}
	return true
}

func (sk SpaceKeyed) gate(now clock.DateTime, r *rand.Rand) bool {
	if sk.TimeProfile == nil {
		return true
	}
	return !sk.TimeProfile.Query(now, false, r).IsNull()
}

// checkSpacePerson evaluates a Space-Person (or Space-MetaPerson)
// constraint against a person's attendance tallies: spec.md §4.F.
func checkSpacePerson(constraint SpaceKeyed, p *model.Person, now clock.DateTime, r *rand.Rand) bool {
	if !tallyContains(p, constraint.RequiredEvents, constraint.RequiredMetaEvents) {
		return false
	}
	return constraint.gate(now, r)
}

// CheckCP evaluates the CP table entry for (space,person), if any;
// absence is vacuously true.
func (e *Engine) CheckCP(space model.SpaceID, person model.PersonID, p *model.Person, now clock.DateTime, r *rand.Rand) bool {
	c, ok := e.CP[spacePersonKey{space, person}]
	if !ok {
		return true
	}
	return checkSpacePerson(c, p, now, r)
}

// CheckCMP evaluates the CMP table entry for (space,metaperson).
func (e *Engine) CheckCMP(space model.SpaceID, mp model.MetaPersonID, p *model.Person, now clock.DateTime, r *rand.Rand) bool {
	c, ok := e.CMP[spaceMetaPersonKey{space, mp}]
	if !ok {
		return true
	}
	return checkSpacePerson(c, p, now, r)
}

// CheckCPConstraints = CP ∧ CMP, as spec.md §4.F defines.
func (e *Engine) CheckCPConstraints(space model.SpaceID, personID model.PersonID, mp model.MetaPersonID, p *model.Person, now clock.DateTime, r *rand.Rand) bool {
	return e.CheckCP(space, personID, p, now, r) && e.CheckCMP(space, mp, p, now, r)
}

func checkSpaceEvent(constraint SpaceKeyed, ev *model.Event, now clock.DateTime, r *rand.Rand) bool {
	if !constraint.gate(now, r) {
		return false
	}
	if constraint.Capacity != nil && !constraint.Capacity.Contains(ev.TotalCapacity()) {
		return false
	}
	return true
}

func (e *Engine) CheckCE(space model.SpaceID, eventID model.EventID, ev *model.Event, now clock.DateTime, r *rand.Rand) bool {
	c, ok := e.CE[spaceEventKey{space, eventID}]
	if !ok {
		return true
	}
	return checkSpaceEvent(c, ev, now, r)
}

func (e *Engine) CheckCME(space model.SpaceID, me model.MetaEventID, ev *model.Event, now clock.DateTime, r *rand.Rand) bool {
	c, ok := e.CME[spaceMetaEventKey{space, me}]
	if !ok {
		return true
	}
	return checkSpaceEvent(c, ev, now, r)
}

// CheckCEConstraints = CE ∧ CME.
func (e *Engine) CheckCEConstraints(space model.SpaceID, eventID model.EventID, me model.MetaEventID, ev *model.Event, now clock.DateTime, r *rand.Rand) bool {
	return e.CheckCE(space, eventID, ev, now, r) && e.CheckCME(space, me, ev, now, r)
}

// CheckPEConstraints = PE ∧ PME ∧ MPE ∧ MPME. No table row is looked
// up; the check always passes -- see PersonEventKeyed's doc comment
// and SPEC_FULL.md's Open Question resolution.
func (e *Engine) CheckPEConstraints(model.PersonID, model.MetaPersonID, model.EventID, model.MetaEventID) bool {
	return true
}
