package registry_test

import (
	"testing"

	"smartspec-scenariogen/internal/scenario/registry"
)

type widget struct {
	ID   int
	Name string
}

func TestAddGetAndReplace(t *testing.T) {
	r := registry.New[widget, int](func(w widget) int { return w.ID })
	r.Add(widget{ID: 1, Name: "a"})
	r.Add(widget{ID: 2, Name: "b"})
	r.Add(widget{ID: 1, Name: "a-replaced"})

	if r.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", r.Size())
	}
	got, ok := r.Get(1)
	if !ok || got.Name != "a-replaced" {
		t.Fatalf("Get(1) = %+v, %v", got, ok)
	}
	if len(r.IDs()) != 2 || r.IDs()[0] != 1 || r.IDs()[1] != 2 {
		t.Fatalf("IDs() = %v, insertion order not preserved", r.IDs())
	}
}

func TestIDsMatchEntries(t *testing.T) {
	r := registry.New[widget, int](func(w widget) int { return w.ID })
	r.Add(widget{ID: 5, Name: "x"})
	r.Add(widget{ID: 3, Name: "y"})
	for _, id := range r.IDs() {
		w, ok := r.Get(id)
		if !ok || w.ID != id {
			t.Fatalf("get(%d).ID = %d, ok=%v", id, w.ID, ok)
		}
	}
}
