package model

import "smartspec-scenariogen/internal/scenario/occupancy"

// Space is a room or region with capacity, coordinates, and neighbors.
// Capacity -1 means unlimited. Space 0 is reserved as "outside"; every
// simulated day begins and ends there.
type Space struct {
	ID          SpaceID
	Description string
	Coords      Coordinates
	Capacity    int
	Neighbors   []SpaceID
	Occupancy   *occupancy.IntervalMap
}

func NewSpace(id SpaceID, desc string, coords Coordinates, capacity int, neighbors []SpaceID) *Space {
	return &Space{
		ID:          id,
		Description: desc,
		Coords:      coords,
		Capacity:    capacity,
		Neighbors:   neighbors,
		Occupancy:   occupancy.New(),
	}
}

func (s *Space) Unlimited() bool { return s.Capacity == -1 }
