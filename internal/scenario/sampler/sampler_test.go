package sampler_test

import (
	"math/rand"
	"testing"

	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/registry"
	"smartspec-scenariogen/internal/scenario/sampler"
)

func TestParseModeFirstLetterCaseInsensitive(t *testing.T) {
	cases := map[string]sampler.Mode{
		"none": sampler.ModeNone, "None": sampler.ModeNone, "N": sampler.ModeNone,
		"all": sampler.ModeAll, "ALL": sampler.ModeAll,
		"diff": sampler.ModeDiff, "Diff": sampler.ModeDiff,
	}
	for in, want := range cases {
		got, err := sampler.ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := sampler.ParseMode("bogus"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestGenerateEventsAlwaysEnsuresOutAndLeisure(t *testing.T) {
	mes := registry.New[*model.MetaEvent, model.MetaEventID](func(m *model.MetaEvent) model.MetaEventID { return m.ID })
	events := registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID })

	r := rand.New(rand.NewSource(1))
	out := sampler.GenerateEvents(mes, events, 0, sampler.ModeNone, r)

	if !out.Has(model.OutEventID) || !out.Has(model.LeisureEventID) {
		t.Fatal("expected out and leisure events to be ensured")
	}
}

func TestGenerateEventsAllRegeneratesN(t *testing.T) {
	mes := registry.New[*model.MetaEvent, model.MetaEventID](func(m *model.MetaEvent) model.MetaEventID { return m.ID })
	mes.Add(&model.MetaEvent{
		ID: 1, Pr: 1.0,
		Selector: model.SpaceSelector{SpaceIDs: []model.SpaceID{5}, N: 1},
		TPsPrs:   []float64{1.0},
		Cap:      map[model.MetaPersonID]model.CapRangeDistr{10: {Lo: model.Normal{Mean: 1}, Hi: model.Normal{Mean: 5}}},
	})
	events := registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID })

	r := rand.New(rand.NewSource(1))
	out := sampler.GenerateEvents(mes, events, 3, sampler.ModeAll, r)

	count := 0
	for _, e := range out.All() {
		if !e.IsLeisure() && !e.IsOut() {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 generated events, got %d", count)
	}
}

func TestGeneratePeopleDiffTopsUp(t *testing.T) {
	mps := registry.New[*model.MetaPerson, model.MetaPersonID](func(m *model.MetaPerson) model.MetaPersonID { return m.ID })
	mps.Add(&model.MetaPerson{ID: 1, Pr: 1.0, TPsPrs: []float64{1.0}})

	people := registry.New[*model.Person, model.PersonID](func(p *model.Person) model.PersonID { return p.ID })
	people.Add(model.NewPerson(1, 1, 0))

	r := rand.New(rand.NewSource(1))
	out := sampler.GeneratePeople(mps, people, 3, sampler.ModeDiff, r)

	if out.Size() != 3 {
		t.Fatalf("expected 3 people after diff top-up, got %d", out.Size())
	}
}
