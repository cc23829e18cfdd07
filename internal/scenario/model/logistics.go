package model

import "smartspec-scenariogen/internal/scenario/clock"

// EventLogistics is the tuple describing one planned/actual
// attendance: which event, which concrete space, the trajectory
// taken to get there, and the attendance window. Ordering is by
// (EventID, SpaceID), used when EventLogistics is treated as a set key.
type EventLogistics struct {
	EventID     EventID
	MetaEventID MetaEventID
	SpaceID     SpaceID
	Traj        Trajectory
	Period      clock.TimePeriod
}

func (e EventLogistics) Less(o EventLogistics) bool {
	if e.EventID != o.EventID {
		return e.EventID < o.EventID
	}
	return e.SpaceID < o.SpaceID
}

func (e EventLogistics) IsLeisure() bool { return e.EventID == LeisureEventID }
func (e EventLogistics) IsOut() bool     { return e.EventID == OutEventID }
