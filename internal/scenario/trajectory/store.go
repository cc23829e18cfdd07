// Package trajectory implements Component C: the trajectory store
// mapping (src,dst) to one of several pre-recorded trajectories, or a
// trajectory synthesized from the spaces graph's shortest path.
package trajectory

import (
	"math/rand"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/graph"
	"smartspec-scenariogen/internal/scenario/model"
)

// Store is keyed by (src,dst); GetPath dispatches between synthesized
// and pre-recorded trajectories per spec.md §4.C.
type Store struct {
	graph  *graph.SpacesGraph
	coords map[model.SpaceID]model.Coordinates

	entries map[model.SrcDest]*model.MetaTrajectory
	cache   map[model.SrcDest]int // chosen index into entries[sd].Trajs
}

func New(g *graph.SpacesGraph, coords map[model.SpaceID]model.Coordinates) *Store {
	return &Store{
		graph:   g,
		coords:  coords,
		entries: make(map[model.SrcDest]*model.MetaTrajectory),
		cache:   make(map[model.SrcDest]int),
	}
}

// AddPreRecorded registers a pre-recorded trajectory option for (s,t),
// loaded verbatim from the metatrajectories input file.
func (s *Store) AddPreRecorded(sd model.SrcDest, traj model.Trajectory) {
	e, ok := s.entries[sd]
	if !ok {
		e = &model.MetaTrajectory{SrcDst: sd}
		s.entries[sd] = e
	}
	e.Trajs = append(e.Trajs, traj)
}

// GetPath implements the three-way dispatch of spec.md §4.C.
func (s *Store) GetPath(src, dst model.SpaceID, useCache, useShortest bool, r *rand.Rand) (model.Trajectory, error) {
	sd := model.SrcDest{Src: src, Dst: dst}
	e, exists := s.entries[sd]

	if useShortest || !exists || len(e.Trajs) == 0 {
		path, err := s.graph.ShortestPath(src, dst)
		if err != nil {
			return model.Trajectory{}, err
		}
		traj := model.Trajectory{Spaces: path, Delta: s.estimateHopTimes(path, r)}
		s.entries[sd] = &model.MetaTrajectory{SrcDst: sd, Trajs: []model.Trajectory{traj}}
		return traj, nil
	}

	if useCache {
		if idx, ok := s.cache[sd]; ok {
			return e.Trajs[idx], nil
		}
	}

	idx := r.Intn(len(e.Trajs))
	s.cache[sd] = idx
	return e.Trajs[idx], nil
}

// estimateHopTimes samples Normal(5*d, 1*d) seconds per hop, where d
// is the Manhattan distance between consecutive hop coordinates.
func (s *Store) estimateHopTimes(path []model.SpaceID, r *rand.Rand) []int {
	if len(path) < 2 {
		return nil
	}
	deltas := make([]int, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		d := model.ManhattanDistance(s.coords[path[i]], s.coords[path[i+1]])
		n := clock.Normal{Mean: float64(5 * d), Stdev: float64(d)}
		v := n.SampleSeconds(r)
		if v < 0 {
			v = 0
		}
		deltas[i] = v
	}
	return deltas
}
