package dataloader

import (
	"encoding/json"
	"os"

	"smartspec-scenariogen/internal/scenario/constraints"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/registry"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

func readJSON(fname string, v interface{}) error {
	b, err := os.ReadFile(fname)
	if err != nil {
		return errs.IOError(err, "reading %q", fname)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errs.IOError(err, "parsing JSON in %q", fname)
	}
	return nil
}

func writeJSON(fname string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errs.IOError(err, "encoding JSON for %q", fname)
	}
	if err := os.WriteFile(fname, b, 0o644); err != nil {
		return errs.IOError(err, "writing %q", fname)
	}
	return nil
}

// --- Spaces -----------------------------------------------------------

type rawSpace struct {
	ID          model.SpaceID   `json:"id"`
	Description string          `json:"description"`
	Coords      [3]int          `json:"coords"`
	Capacity    json.RawMessage `json:"capacity"`
	Neighbors   []model.SpaceID `json:"neighbors"`
}

func parseSpaceCapacity(raw json.RawMessage) (int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if IsNone(s) || s == "inf" {
			return -1, nil
		}
		return 0, errs.DataError("unknown space capacity %q", s)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	return 0, errs.DataError("cannot parse space capacity %s", raw)
}

func LoadSpaces(fname string) (*registry.Registry[*model.Space, model.SpaceID], map[model.SpaceID]model.Coordinates, error) {
	var raws []rawSpace
	if err := readJSON(fname, &raws); err != nil {
		return nil, nil, err
	}
	spaces := registry.New[*model.Space, model.SpaceID](func(s *model.Space) model.SpaceID { return s.ID })
	coords := make(map[model.SpaceID]model.Coordinates, len(raws))
	for _, rs := range raws {
		cap, err := parseSpaceCapacity(rs.Capacity)
		if err != nil {
			return nil, nil, err
		}
		c := model.Coordinates(rs.Coords)
		spaces.Add(model.NewSpace(rs.ID, rs.Description, c, cap, rs.Neighbors))
		coords[rs.ID] = c
	}
	return spaces, coords, nil
}

// --- MetaSensors / Sensors ---------------------------------------------

type rawSensor struct {
	ID          model.SensorID  `json:"id"`
	Description string          `json:"description"`
	IntervalSec int             `json:"interval-sec"`
	Mobility    string          `json:"mobility"`
	Coverage    []model.SpaceID `json:"coverage"`
	Follows     model.PersonID  `json:"follows"`
}

type rawMetaSensor struct {
	ID          model.MetaSensorID `json:"id"`
	Description string             `json:"description"`
	Sensors     []rawSensor        `json:"sensors"`
}

func LoadMetaSensors(fname string) (*registry.Registry[*model.MetaSensor, model.MetaSensorID], *registry.Registry[*model.Sensor, model.SensorID], error) {
	var raws []rawMetaSensor
	if err := readJSON(fname, &raws); err != nil {
		return nil, nil, err
	}
	metaSensors := registry.New[*model.MetaSensor, model.MetaSensorID](func(m *model.MetaSensor) model.MetaSensorID { return m.ID })
	sensors := registry.New[*model.Sensor, model.SensorID](func(s *model.Sensor) model.SensorID { return s.ID })
	for _, rms := range raws {
		ids := make([]model.SensorID, 0, len(rms.Sensors))
		for _, rs := range rms.Sensors {
			mobile := rs.Mobility == "mobile"
			sensors.Add(&model.Sensor{
				ID:          rs.ID,
				MetaID:      rms.ID,
				Description: rs.Description,
				IntervalSec: rs.IntervalSec,
				Mobile:      mobile,
				Coverage:    rs.Coverage,
				Follows:     rs.Follows,
			})
			ids = append(ids, rs.ID)
		}
		metaSensors.Add(&model.MetaSensor{ID: rms.ID, Description: rms.Description, SensorIDs: ids})
	}
	return metaSensors, sensors, nil
}

// --- MetaPeople / People -------------------------------------------------

type rawMetaPerson struct {
	ID          model.MetaPersonID          `json:"id"`
	Description string                      `json:"description"`
	Pr          float64                     `json:"pr"`
	TimeProfiles []json.RawMessage          `json:"time-profiles"`
	Affinity    map[string]float64          `json:"affinity"`
}

func LoadMetaPeople(fname string) (*registry.Registry[*model.MetaPerson, model.MetaPersonID], error) {
	var raws []rawMetaPerson
	if err := readJSON(fname, &raws); err != nil {
		return nil, err
	}
	out := registry.New[*model.MetaPerson, model.MetaPersonID](func(m *model.MetaPerson) model.MetaPersonID { return m.ID })
	for _, rmp := range raws {
		tps, prs, err := decodeTimeProfiles(rmp.TimeProfiles)
		if err != nil {
			return nil, err
		}
		affinity := make(map[model.MetaEventID]float64, len(rmp.Affinity))
		for k, v := range rmp.Affinity {
			id, err := parseIntKey(k)
			if err != nil {
				return nil, err
			}
			affinity[id] = v
		}
		out.Add(&model.MetaPerson{
			ID: rmp.ID, Description: rmp.Description, Pr: rmp.Pr,
			TPs: tps, TPsPrs: prs, Affinity: affinity,
		})
	}
	return out, nil
}

type rawPerson struct {
	ID      model.PersonID     `json:"id"`
	MetaID  model.MetaPersonID `json:"meta-id"`
	TPIndex int                `json:"tp-index"`
}

func LoadPeople(fname string) (*registry.Registry[*model.Person, model.PersonID], error) {
	var raws []rawPerson
	if err := readJSON(fname, &raws); err != nil {
		return nil, err
	}
	out := registry.New[*model.Person, model.PersonID](func(p *model.Person) model.PersonID { return p.ID })
	for _, rp := range raws {
		out.Add(model.NewPerson(rp.ID, rp.MetaID, rp.TPIndex))
	}
	return out, nil
}

func DumpPeople(fname string, people *registry.Registry[*model.Person, model.PersonID]) error {
	raws := make([]rawPerson, 0, people.Size())
	for _, p := range people.All() {
		raws = append(raws, rawPerson{ID: p.ID, MetaID: p.MetaID, TPIndex: p.TPIndex})
	}
	return writeJSON(fname, raws)
}

// --- MetaEvents / Events --------------------------------------------------

type rawSpaceSelector struct {
	SpaceIDs []model.SpaceID `json:"space-ids"`
	N        int             `json:"n"`
}

type rawMetaEvent struct {
	ID           model.MetaEventID       `json:"id"`
	Description  string                  `json:"description"`
	Pr           float64                 `json:"pr"`
	SpaceSelector rawSpaceSelector       `json:"space-selector"`
	TimeProfiles []json.RawMessage       `json:"time-profiles"`
	Capacity     json.RawMessage         `json:"capacity"`
}

func LoadMetaEvents(fname string) (*registry.Registry[*model.MetaEvent, model.MetaEventID], error) {
	var raws []rawMetaEvent
	if err := readJSON(fname, &raws); err != nil {
		return nil, err
	}
	out := registry.New[*model.MetaEvent, model.MetaEventID](func(m *model.MetaEvent) model.MetaEventID { return m.ID })
	for _, rme := range raws {
		tps, prs, err := decodeTimeProfiles(rme.TimeProfiles)
		if err != nil {
			return nil, err
		}
		cap, err := decodeMetaEventCapacity(rme.Capacity)
		if err != nil {
			return nil, err
		}
		out.Add(&model.MetaEvent{
			ID: rme.ID, Description: rme.Description, Pr: rme.Pr,
			Selector: model.SpaceSelector{SpaceIDs: rme.SpaceSelector.SpaceIDs, N: rme.SpaceSelector.N},
			TPs:      tps, TPsPrs: prs, Cap: cap,
		})
	}
	return out, nil
}

type rawEvent struct {
	ID       model.EventID   `json:"id"`
	MetaID   model.MetaEventID `json:"meta-id"`
	TPIndex  int             `json:"tp-index"`
	Spaces   []model.SpaceID `json:"spaces"`
	Capacity json.RawMessage `json:"capacity"`
}

func LoadEvents(fname string) (*registry.Registry[*model.Event, model.EventID], error) {
	var raws []rawEvent
	if err := readJSON(fname, &raws); err != nil {
		return nil, err
	}
	out := registry.New[*model.Event, model.EventID](func(e *model.Event) model.EventID { return e.ID })
	for _, re := range raws {
		cap, err := decodeEventCapacity(re.Capacity)
		if err != nil {
			return nil, err
		}
		out.Add(model.NewEvent(re.ID, re.MetaID, re.TPIndex, re.Spaces, cap))
	}
	return out, nil
}

func DumpEvents(fname string, events *registry.Registry[*model.Event, model.EventID]) error {
	raws := make([]rawEvent, 0, events.Size())
	for _, e := range events.All() {
		entries := make([]capacityEntry, 0, len(e.Cap))
		for mid, cr := range e.Cap {
			lo, hi := cr.Lo, cr.Hi
			entries = append(entries, capacityEntry{MetaPersonID: mid, Lo: &lo, Hi: &hi})
		}
		b, err := json.Marshal(entries)
		if err != nil {
			return errs.IOError(err, "encoding event %d capacity", e.ID)
		}
		raws = append(raws, rawEvent{ID: e.ID, MetaID: e.MetaID, TPIndex: e.TPIndex, Spaces: e.Spaces, Capacity: b})
	}
	return writeJSON(fname, raws)
}

// --- MetaTrajectories -------------------------------------------------

// rawMetaTrajectory mirrors MetaTrajectoriesLoader.hpp's on-disk shape
// verbatim (one object per pre-recorded trajectory, not grouped by
// src/dst): StartSpaceID/EndSpaceID key the pair, SpaceID is the full
// hop path, Delta is the per-hop duration given as "HH:MM:SS" strings.
type rawMetaTrajectory struct {
	StartSpaceID model.SpaceID   `json:"StartSpaceID"`
	EndSpaceID   model.SpaceID   `json:"EndSpaceID"`
	SpaceID      []model.SpaceID `json:"SpaceID"`
	Delta        []string        `json:"Delta"`
}

func LoadMetaTrajectories(fname string, store trajStoreAdder) error {
	var raws []rawMetaTrajectory
	if err := readJSON(fname, &raws); err != nil {
		return err
	}
	for _, rmt := range raws {
		delta := make([]int, len(rmt.Delta))
		for i, s := range rmt.Delta {
			secs, err := model.ParseClock(s)
			if err != nil {
				return err
			}
			delta[i] = secs
		}
		sd := model.SrcDest{Src: rmt.StartSpaceID, Dst: rmt.EndSpaceID}
		store.AddPreRecorded(sd, model.Trajectory{Spaces: rmt.SpaceID, Delta: delta})
	}
	return nil
}

// trajStoreAdder is the minimal interface LoadMetaTrajectories needs,
// satisfied by *trajectory.Store.
type trajStoreAdder interface {
	AddPreRecorded(sd model.SrcDest, traj model.Trajectory)
}

// --- Constraints --------------------------------------------------------

type rawSpaceKeyed struct {
	Space              model.SpaceID         `json:"space"`
	Person             *model.PersonID       `json:"person"`
	MetaPerson         *model.MetaPersonID   `json:"meta-person"`
	Event              *model.EventID        `json:"event"`
	MetaEvent          *model.MetaEventID    `json:"meta-event"`
	RequiredEvents     []model.EventID       `json:"required-events"`
	RequiredMetaEvents []rawCapRangeEntry    `json:"required-metaevents"`
	TimeProfile        *json.RawMessage      `json:"time-profile"`
	Capacity           *[2]int               `json:"capacity"`
}

type rawCapRangeEntry struct {
	MetaEventID model.MetaEventID `json:"metaevent-id"`
	Lo          int               `json:"lo"`
	Hi          int               `json:"hi"`
}

type rawConstraintsFile struct {
	CP   []rawSpaceKeyed `json:"cp"`
	CMP  []rawSpaceKeyed `json:"cmp"`
	CE   []rawSpaceKeyed `json:"ce"`
	CME  []rawSpaceKeyed `json:"cme"`
}

func toSpaceKeyed(rsk rawSpaceKeyed) (constraints.SpaceKeyed, error) {
	sk := constraints.SpaceKeyed{RequiredEvents: rsk.RequiredEvents}
	if len(rsk.RequiredMetaEvents) > 0 {
		sk.RequiredMetaEvents = make(map[model.MetaEventID]model.CapRange, len(rsk.RequiredMetaEvents))
		for _, e := range rsk.RequiredMetaEvents {
			sk.RequiredMetaEvents[e.MetaEventID] = model.CapRange{Lo: e.Lo, Hi: e.Hi}
		}
	}
	if rsk.Capacity != nil {
		sk.Capacity = &model.CapRange{Lo: rsk.Capacity[0], Hi: rsk.Capacity[1]}
	}
	if rsk.TimeProfile != nil {
		var entries []json.RawMessage
		if err := json.Unmarshal(*rsk.TimeProfile, &entries); err != nil {
			return sk, errs.IOError(err, "decoding constraint time-profile")
		}
		profiles, _, err := decodeTimeProfiles(entries)
		if err != nil {
			return sk, err
		}
		if len(profiles) > 0 {
			sk.TimeProfile = &timeprofile.Profile{Entries: flattenEntries(profiles)}
		}
	}
	return sk, nil
}

func flattenEntries(profiles []timeprofile.Profile) []timeprofile.Entry {
	var out []timeprofile.Entry
	for _, p := range profiles {
		out = append(out, p.Entries...)
	}
	return out
}

func LoadConstraints(fname string, engine *constraints.Engine) error {
	var raw rawConstraintsFile
	if err := readJSON(fname, &raw); err != nil {
		return err
	}
	for _, r := range raw.CP {
		sk, err := toSpaceKeyed(r)
		if err != nil {
			return err
		}
		if r.Person == nil {
			return errs.DataError("cp entry for space %d missing person", r.Space)
		}
		engine.AddCP(r.Space, *r.Person, sk)
	}
	for _, r := range raw.CMP {
		sk, err := toSpaceKeyed(r)
		if err != nil {
			return err
		}
		if r.MetaPerson == nil {
			return errs.DataError("cmp entry for space %d missing meta-person", r.Space)
		}
		engine.AddCMP(r.Space, *r.MetaPerson, sk)
	}
	for _, r := range raw.CE {
		sk, err := toSpaceKeyed(r)
		if err != nil {
			return err
		}
		if r.Event == nil {
			return errs.DataError("ce entry for space %d missing event", r.Space)
		}
		engine.AddCE(r.Space, *r.Event, sk)
	}
	for _, r := range raw.CME {
		sk, err := toSpaceKeyed(r)
		if err != nil {
			return err
		}
		if r.MetaEvent == nil {
			return errs.DataError("cme entry for space %d missing meta-event", r.Space)
		}
		engine.AddCME(r.Space, *r.MetaEvent, sk)
	}
	return nil
}

func parseIntKey(s string) (int, error) {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, errs.DataError("invalid integer key %q", s)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
