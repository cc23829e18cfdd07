// Package sampler implements Component G: materializing concrete
// Events and People from MetaEvent/MetaPerson distributions.
package sampler

import (
	"math/rand"
	"strings"

	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/registry"
	"smartspec-scenariogen/internal/scenario/rng"
)

// Mode is the generation mode for entitygen: {none, all, diff}. Only
// the first letter is significant, case-insensitively.
type Mode int

const (
	ModeNone Mode = iota
	ModeAll
	ModeDiff
)

func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	switch strings.ToLower(s)[0] {
	case 'n':
		return ModeNone, nil
	case 'a':
		return ModeAll, nil
	case 'd':
		return ModeDiff, nil
	default:
		return 0, errs.InvariantError("unknown generation mode %q", s)
	}
}

type EventRegistry = registry.Registry[*model.Event, model.EventID]
type MetaEventRegistry = registry.Registry[*model.MetaEvent, model.MetaEventID]
type PersonRegistry = registry.Registry[*model.Person, model.PersonID]
type MetaPersonRegistry = registry.Registry[*model.MetaPerson, model.MetaPersonID]

// GenerateEvents materializes Events from MetaEvents according to
// mode, always ensuring out(-1) and leisure(0) events exist first.
func GenerateEvents(mes *MetaEventRegistry, existing *EventRegistry, n int, mode Mode, r *rand.Rand) *EventRegistry {
	ensureOutAndLeisureEvents(existing)

	switch mode {
	case ModeNone:
		return existing
	case ModeAll:
		out := registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID })
		ensureOutAndLeisureEvents(out)
		fillEvents(out, mes, n, r)
		return out
	case ModeDiff:
		have := 0
		for _, e := range existing.All() {
			if !e.IsLeisure() && !e.IsOut() {
				have++
			}
		}
		if n > have {
			fillEvents(existing, mes, n-have, r)
		}
		return existing
	}
	return existing
}

func ensureOutAndLeisureEvents(events *EventRegistry) {
	if !events.Has(model.OutEventID) {
		events.Add(model.NewEvent(model.OutEventID, model.OutMetaEvent, 0, []model.SpaceID{model.OutsideSpaceID}, map[model.MetaPersonID]model.CapRange{-1: {Lo: 0, Hi: -1}}))
	}
	if !events.Has(model.LeisureEventID) {
		events.Add(model.NewEvent(model.LeisureEventID, model.LeisureMetaEvent, 0, []model.SpaceID{model.OutsideSpaceID}, map[model.MetaPersonID]model.CapRange{-1: {Lo: 0, Hi: -1}}))
	}
}

// fillEvents adds up to n concrete events: first min(n,|metaevents|)
// distinct metaevents sampled without replacement, then the remainder
// sampled with replacement, per spec.md §4.G.
func fillEvents(events *EventRegistry, mes *MetaEventRegistry, n int, r *rand.Rand) {
	real := make([]*model.MetaEvent, 0, mes.Size())
	weights := make([]float64, 0, mes.Size())
	for _, me := range mes.All() {
		if me.ID == model.OutMetaEvent || me.ID == model.LeisureMetaEvent {
			continue
		}
		real = append(real, me)
		weights = append(weights, me.Pr)
	}
	if len(real) == 0 || n <= 0 {
		return
	}

	nextID := func() model.EventID {
		max := 0
		for _, id := range events.IDs() {
			if id > max {
				max = id
			}
		}
		return max + 1
	}

	sel := rng.Selector[*model.MetaEvent]{Items: real, Weights: weights}

	firstN := n
	if firstN > len(real) {
		firstN = len(real)
	}
	for _, me := range sel.SelectWeightedN(r, firstN, false) {
		events.Add(sampleEvent(me, nextID(), r))
	}
	for i := firstN; i < n; i++ {
		me := sel.Select(r)
		events.Add(sampleEvent(me, nextID(), r))
	}
}

func sampleEvent(me *model.MetaEvent, id model.EventID, r *rand.Rand) *model.Event {
	tpIdx := 0
	if len(me.TPsPrs) > 0 {
		idxSel := rng.Selector[int]{Items: indices(len(me.TPsPrs)), Weights: me.TPsPrs}
		tpIdx = idxSel.Select(r)
	}

	spaces := me.Selector.Select(r)

	cap := make(map[model.MetaPersonID]model.CapRange, len(me.Cap))
	for mid, crd := range me.Cap {
		var lo, hi int
		for {
			lo = int(crd.Lo.Sample(r) + 0.5)
			hi = int(crd.Hi.Sample(r) + 0.5)
			if lo <= hi {
				break
			}
		}
		if mid == -1 {
			hi = -1 // leisure-style "inf" capacity marker carries through untouched
		}
		cap[mid] = model.CapRange{Lo: lo, Hi: hi}
	}

	return model.NewEvent(id, me.ID, tpIdx, spaces, cap)
}

// GeneratePeople materializes People from MetaPeople according to mode.
func GeneratePeople(mps *MetaPersonRegistry, existing *PersonRegistry, n int, mode Mode, r *rand.Rand) *PersonRegistry {
	switch mode {
	case ModeNone:
		return existing
	case ModeAll:
		out := registry.New[*model.Person, model.PersonID](func(p *model.Person) model.PersonID { return p.ID })
		fillPeople(out, mps, n, 1, r)
		return out
	case ModeDiff:
		have := existing.Size()
		if n > have {
			fillPeople(existing, mps, n-have, have+1, r)
		}
		return existing
	}
	return existing
}

func fillPeople(people *PersonRegistry, mps *MetaPersonRegistry, n int, startID model.PersonID, r *rand.Rand) {
	if n <= 0 || mps.Size() == 0 {
		return
	}
	items := mps.All()
	weights := make([]float64, len(items))
	for i, mp := range items {
		weights[i] = mp.Pr
	}
	sel := rng.Selector[*model.MetaPerson]{Items: items, Weights: weights}

	for i := 0; i < n; i++ {
		mp := sel.Select(r)
		tpIdx := 0
		if len(mp.TPsPrs) > 0 {
			idxSel := rng.Selector[int]{Items: indices(len(mp.TPsPrs)), Weights: mp.TPsPrs}
			tpIdx = idxSel.Select(r)
		}
		people.Add(model.NewPerson(startID+model.PersonID(i), mp.ID, tpIdx))
	}
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
