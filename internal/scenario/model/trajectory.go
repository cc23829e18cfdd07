package model

// SrcDest keys the trajectory store and the spaces-graph path cache.
type SrcDest struct {
	Src, Dst SpaceID
}

// Trajectory is a path through spaces with per-hop durations, in
// seconds. A size-1 trajectory means the walker is already at the
// destination. A Trajectory is considered empty/invalid when it has
// no hops at all (Delta has zero entries) -- the Go rendering of the
// original's inverted "operator bool() == delta.empty()" sense, named
// so call sites read naturally.
type Trajectory struct {
	Spaces []SpaceID
	Delta  []int // per-hop duration in seconds, len(Delta) == len(Spaces)-1
}

func (t Trajectory) IsEmpty() bool { return len(t.Delta) == 0 }

func (t Trajectory) Size() int { return len(t.Spaces) }

func (t Trajectory) TotalTime() int {
	total := 0
	for _, d := range t.Delta {
		total += d
	}
	return total
}

// Dest returns the trajectory's final space, or the zero value if the
// trajectory carries no spaces at all.
func (t Trajectory) Dest() SpaceID {
	if len(t.Spaces) == 0 {
		return 0
	}
	return t.Spaces[len(t.Spaces)-1]
}

// MetaTrajectory is a (src,dst) key paired with the list of
// pre-recorded Trajectory options for that pair.
type MetaTrajectory struct {
	SrcDst SrcDest
	Trajs  []Trajectory
}
