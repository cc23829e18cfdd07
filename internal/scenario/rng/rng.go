// Package rng implements the scenario generator's explicit random
// engine and weighted/uniform selection helpers. Following spec.md
// §9's design note, the engine is an explicit, seedable value passed
// as an argument through every sampling call, rather than process-wide
// state -- the same *rand.Rand-as-a-field shape the teacher's
// Monte-Carlo Engine uses (internal/simulation/engine.go's
// Engine{rng *rand.Rand} / SetSeed).
package rng

import (
	"math/rand"
	"time"
)

// New returns an engine seeded from a non-deterministic source, for
// interactive runs where reproducibility isn't required.
func New() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded returns an engine seeded explicitly, for golden/property
// tests and the SMARTSPEC_SEED reproducibility hook.
func NewSeeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Selector draws from a fixed population of items with parallel
// weights, mirroring the original's RandomSelector<T> template.
type Selector[T any] struct {
	Items   []T
	Weights []float64 // nil means uniform
}

// Select draws one weighted item (std::discrete_distribution semantics).
func (s Selector[T]) Select(r *rand.Rand) T {
	if len(s.Weights) == 0 {
		return s.Items[r.Intn(len(s.Items))]
	}
	total := 0.0
	for _, w := range s.Weights {
		total += w
	}
	x := r.Float64() * total
	cum := 0.0
	for i, w := range s.Weights {
		cum += w
		if x < cum {
			return s.Items[i]
		}
	}
	return s.Items[len(s.Items)-1]
}

// SelectRandomN draws n items uniformly; with replace=false it
// shuffles and takes the first n (n must be <= len(Items)), with
// replace=true it draws independently n times.
func (s Selector[T]) SelectRandomN(r *rand.Rand, n int, replace bool) []T {
	if !replace {
		idx := r.Perm(len(s.Items))
		if n > len(idx) {
			n = len(idx)
		}
		out := make([]T, n)
		for i := 0; i < n; i++ {
			out[i] = s.Items[idx[i]]
		}
		return out
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = s.Items[r.Intn(len(s.Items))]
	}
	return out
}

// SelectWeightedN draws n items by weight. With replace=true it draws
// independently n times (repeated discrete_distribution draws). With
// replace=false it iteratively removes the chosen item and redraws
// from what remains, so earlier picks cannot repeat.
func (s Selector[T]) SelectWeightedN(r *rand.Rand, n int, replace bool) []T {
	if replace {
		out := make([]T, n)
		for i := 0; i < n; i++ {
			out[i] = s.Select(r)
		}
		return out
	}

	items := append([]T(nil), s.Items...)
	weights := append([]float64(nil), s.Weights...)
	out := make([]T, 0, n)
	for i := 0; i < n && len(items) > 0; i++ {
		sub := Selector[T]{Items: items, Weights: weights}
		chosenIdx := sub.selectIndex(r)
		out = append(out, items[chosenIdx])
		items = append(items[:chosenIdx], items[chosenIdx+1:]...)
		weights = append(weights[:chosenIdx], weights[chosenIdx+1:]...)
	}
	return out
}

func (s Selector[T]) selectIndex(r *rand.Rand) int {
	if len(s.Weights) == 0 {
		return r.Intn(len(s.Items))
	}
	total := 0.0
	for _, w := range s.Weights {
		total += w
	}
	x := r.Float64() * total
	cum := 0.0
	for i, w := range s.Weights {
		cum += w
		if x < cum {
			return i
		}
	}
	return len(s.Items) - 1
}
