// Package registry implements Component D: dense, indexable
// collections with insertion order, an id->index map, and an id list,
// shared by every Space/Person/Event/Sensor/MetaX collection.
package registry

// Registry[T, ID] is a dense collection of items keyed by ID. Adding
// an id that already exists replaces the entry in place, preserving
// its original position.
type Registry[T any, ID comparable] struct {
	getID   func(T) ID
	entries []T
	loc     map[ID]int
	ids     []ID
}

func New[T any, ID comparable](getID func(T) ID) *Registry[T, ID] {
	return &Registry[T, ID]{
		getID: getID,
		loc:   make(map[ID]int),
	}
}

func (r *Registry[T, ID]) Add(item T) {
	id := r.getID(item)
	if idx, ok := r.loc[id]; ok {
		r.entries[idx] = item
		return
	}
	r.loc[id] = len(r.entries)
	r.entries = append(r.entries, item)
	r.ids = append(r.ids, id)
}

func (r *Registry[T, ID]) Get(id ID) (T, bool) {
	idx, ok := r.loc[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.entries[idx], true
}

func (r *Registry[T, ID]) MustGet(id ID) T {
	v, ok := r.Get(id)
	if !ok {
		panic("registry: id not found")
	}
	return v
}

func (r *Registry[T, ID]) Has(id ID) bool {
	_, ok := r.loc[id]
	return ok
}

func (r *Registry[T, ID]) Size() int { return len(r.entries) }

func (r *Registry[T, ID]) IDs() []ID { return r.ids }

// All returns entries in insertion order. The returned slice aliases
// internal storage; callers must not retain it past the next Add.
func (r *Registry[T, ID]) All() []T { return r.entries }
