package simulation

import (
	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
)

// produceLogistics implements spec.md §4.H's produceLogistics(e,p,t):
// try every candidate space the event can occupy, keep those with
// room at the expected arrival time, route to one of the survivors,
// sample the event's time window, and gate on the constraint engine.
func (s *Simulator) produceLogistics(ev *model.Event, p *model.Person, t clock.DateTime) (*model.EventLogistics, error) {
	if ev.IsOut() {
		return nil, nil
	}
	if !ev.IsLeisure() && !ev.CanAttend(p.MetaID) {
		return nil, nil
	}

	var survivors []model.Trajectory

	for _, c := range ev.Spaces {
		traj, err := s.world.Trajectories.GetPath(p.CurrentSpace, c, true, false, s.rng)
		if err != nil {
			return nil, err
		}
		space, ok := s.world.Spaces.Get(c)
		if !ok {
			return nil, errs.DataError("event %d references unknown space %d", ev.ID, c)
		}
		expArrival := t.AddSeconds(traj.TotalTime())
		if space.Unlimited() || space.Occupancy.Occupancy(expArrival.Unix())+1 < space.Capacity {
			survivors = append(survivors, traj)
		}
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	chosen := survivors[s.rng.Intn(len(survivors))]

	sid := p.CurrentSpace
	if !chosen.IsEmpty() {
		sid = chosen.Dest()
	}

	tp, err := s.eventTimeProfile(ev)
	if err != nil {
		return nil, err
	}
	period := tp.Query(t, true, s.rng)
	if period.IsNull() {
		return nil, nil
	}

	if !s.world.Constraints.CheckCPConstraints(sid, p.ID, p.MetaID, p, t, s.rng) {
		return nil, nil
	}
	if !s.world.Constraints.CheckCEConstraints(sid, ev.ID, ev.MetaID, ev, t, s.rng) {
		return nil, nil
	}
	if !s.world.Constraints.CheckPEConstraints(p.ID, p.MetaID, ev.ID, ev.MetaID) {
		return nil, nil
	}

	return &model.EventLogistics{
		EventID: ev.ID, MetaEventID: ev.MetaID, SpaceID: sid, Traj: chosen, Period: period,
	}, nil
}

