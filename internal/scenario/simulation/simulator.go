// Package simulation implements Component H: the day-stepped,
// single-threaded simulation loop that produces data.csv.
package simulation

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/dataloader"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/rng"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

// pastPr is PAST_PR from spec.md §4.H: the probability of skipping
// recurring recall in favor of the new-events branch.
const pastPr = 0.8

// Simulator owns the output CSV/log streams and walks the World day by
// day. Output streams are opened on construction and must be closed by
// the caller via Close once Run finishes.
type Simulator struct {
	world *dataloader.World
	rng   *rand.Rand

	csvFile *os.File
	csvW    *csv.Writer

	logFile *os.File
	logW    *bufio.Writer
}

func New(w *dataloader.World, r *rand.Rand, dataCSVPath, logPath string) (*Simulator, error) {
	csvFile, err := os.Create(dataCSVPath)
	if err != nil {
		return nil, errs.IOError(err, "creating %q", dataCSVPath)
	}
	csvW := csv.NewWriter(csvFile)
	if err := csvW.Write([]string{"PersonID", "EventID", "SpaceID", "StartDateTime", "EndDateTime"}); err != nil {
		csvFile.Close()
		return nil, errs.IOError(err, "writing %q header", dataCSVPath)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		csvFile.Close()
		return nil, errs.IOError(err, "creating %q", logPath)
	}

	return &Simulator{
		world:   w,
		rng:     r,
		csvFile: csvFile,
		csvW:    csvW,
		logFile: logFile,
		logW:    bufio.NewWriter(logFile),
	}, nil
}

// Close flushes and closes the output streams.
func (s *Simulator) Close() error {
	s.csvW.Flush()
	if err := s.csvW.Error(); err != nil {
		return errs.IOError(err, "flushing data.csv")
	}
	if err := s.logW.Flush(); err != nil {
		return errs.IOError(err, "flushing log file")
	}
	if err := s.csvFile.Close(); err != nil {
		return errs.IOError(err, "closing data.csv")
	}
	return s.logFile.Close()
}

func (s *Simulator) tee(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(s.logW, line)
	log.Debug().Msg(line)
}

// Run walks every calendar day in [world.StartDate, world.EndDate],
// per spec.md §4.H.
func (s *Simulator) Run() error {
	for day := s.world.StartDate; !day.After(s.world.EndDate); day = day.AddDate(0, 0, 1) {
		s.tee("=== day %s ===", day.Format("2006-01-02"))
		if err := s.runDay(day); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) runDay(day time.Time) error {
	anchor := clock.NewDateTime(day)
	dayStart := anchor.FirstTime()
	dayEnd := anchor.LastTime()

	order := s.rng.Perm(s.world.People.Size())
	people := s.world.People.All()

	for _, idx := range order {
		p := people[idx]
		if err := s.runPerson(p, anchor, dayStart, dayEnd); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) runPerson(p *model.Person, anchor, dayStart, dayEnd clock.DateTime) error {
	mp, ok := s.world.MetaPeople.Get(p.MetaID)
	if !ok {
		return errs.DataError("person %d references unknown metaperson %d", p.ID, p.MetaID)
	}
	if p.TPIndex < 0 || p.TPIndex >= len(mp.TPs) {
		return errs.DataError("person %d has out-of-range tp-index %d", p.ID, p.TPIndex)
	}

	active := mp.TPs[p.TPIndex].Query(anchor, false, s.rng)
	if active.IsNull() {
		s.tee("person %d: inactive today", p.ID)
		return nil
	}
	s.tee("person %d: active %s -> %s", p.ID, active.Start.Format(), active.End.Format())

	currDT := active.Start

	// Arrive: record the out event at the current space from day start.
	if err := s.writeRow(p, model.OutEventID, p.CurrentSpace, dayStart, currDT); err != nil {
		return err
	}

	for !currDT.After(active.End.Time) {
		chosen, err := s.chooseLogistics(p, mp, currDT)
		if err != nil {
			return err
		}
		if chosen == nil {
			break
		}
		if err := s.attend(p, *chosen, currDT); err != nil {
			return err
		}
		currDT = chosen.Period.End
	}

	// Leave: walk back to outside and record from currDT to day end.
	if err := s.leave(p, currDT, dayEnd); err != nil {
		return err
	}
	return nil
}

// chooseLogistics implements steps 3.a-3.c: recurring recall, new
// events, then leisure fallback.
func (s *Simulator) chooseLogistics(p *model.Person, mp *model.MetaPerson, currDT clock.DateTime) (*model.EventLogistics, error) {
	var candidates []model.EventLogistics

	if s.rng.Float64() >= pastPr {
		for _, el := range p.Attended {
			ev, ok := s.world.Events.Get(el.EventID)
			if !ok {
				continue
			}
			tp, err := s.eventTimeProfile(ev)
			if err != nil {
				return nil, err
			}
			period := tp.Query(currDT, true, s.rng)
			if period.IsNull() {
				continue
			}
			traj, err := s.world.Trajectories.GetPath(p.CurrentSpace, el.SpaceID, true, false, s.rng)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, model.EventLogistics{
				EventID: el.EventID, MetaEventID: el.MetaEventID,
				SpaceID: el.SpaceID, Traj: traj, Period: period,
			})
		}
	}

	if len(candidates) == 0 {
		for _, ev := range s.world.Events.All() {
			el, err := s.produceLogistics(ev, p, currDT)
			if err != nil {
				return nil, err
			}
			if el != nil {
				candidates = append(candidates, *el)
			}
		}
	}

	if len(candidates) == 0 {
		return s.leisureLogistics(p, currDT)
	}

	chosen := s.selectCandidate(mp, candidates)
	return &chosen, nil
}

// selectCandidate implements step 3.d: weight by affinity per
// metaevent, then pick uniformly within the winning metaevent.
func (s *Simulator) selectCandidate(mp *model.MetaPerson, candidates []model.EventLogistics) model.EventLogistics {
	metaIDs := make([]model.MetaEventID, 0)
	weights := make([]float64, 0)
	seen := make(map[model.MetaEventID]bool)
	for _, c := range candidates {
		if seen[c.MetaEventID] {
			continue
		}
		seen[c.MetaEventID] = true
		metaIDs = append(metaIDs, c.MetaEventID)
		w := 1.0
		if mp.Affinity != nil {
			if a, ok := mp.Affinity[c.MetaEventID]; ok {
				w = a
			}
		}
		weights = append(weights, w)
	}

	chosenMeta := metaIDs[0]
	if len(metaIDs) > 1 {
		sel := rng.Selector[model.MetaEventID]{Items: metaIDs, Weights: weights}
		chosenMeta = sel.Select(s.rng)
	}

	var pool []model.EventLogistics
	for _, c := range candidates {
		if c.MetaEventID == chosenMeta {
			pool = append(pool, c)
		}
	}
	return pool[s.rng.Intn(len(pool))]
}

func (s *Simulator) leisureLogistics(p *model.Person, currDT clock.DateTime) (*model.EventLogistics, error) {
	traj, err := s.world.Trajectories.GetPath(p.CurrentSpace, model.OutsideSpaceID, false, true, s.rng)
	if err != nil {
		return nil, err
	}
	dur := clock.Normal{Mean: 600, Stdev: 60}.SampleSeconds(s.rng)
	if dur < 0 {
		dur = 0
	}
	period := clock.TimePeriod{Start: currDT, End: currDT.AddSeconds(dur)}
	return &model.EventLogistics{
		EventID: model.LeisureEventID, MetaEventID: model.LeisureMetaEvent,
		SpaceID: model.OutsideSpaceID, Traj: traj, Period: period,
	}, nil
}

func (s *Simulator) attend(p *model.Person, el model.EventLogistics, currDT clock.DateTime) error {
	ev, hasEvent := s.world.Events.Get(el.EventID)

	if !el.IsLeisure() && !el.IsOut() {
		p.Attend(el)
		if hasEvent {
			mp, ok := s.world.MetaPeople.Get(p.MetaID)
			if ok {
				ev.EnrollMetaPerson(keyMetaPerson(mp.ID, ev))
			}
		}
		s.tee("person %d: attending event %d in space %d", p.ID, el.EventID, el.SpaceID)
	}

	arrived, err := s.move(p, el.EventID, el.Traj, currDT)
	if err != nil {
		return err
	}
	space, ok := s.world.Spaces.Get(el.SpaceID)
	if !ok {
		return errs.DataError("logistics reference unknown space %d", el.SpaceID)
	}
	return s.record(p, el.EventID, space, arrived, el.Period.End)
}

// keyMetaPerson resolves the metaperson id an event's capacity table
// is actually keyed by, falling back to the catch-all -1 bucket.
func keyMetaPerson(mid model.MetaPersonID, ev *model.Event) model.MetaPersonID {
	if _, ok := ev.Cap[mid]; ok {
		return mid
	}
	return -1
}

// move implements spec.md §4.H: walk every intermediate hop, and
// return the time the walker actually finishes the last hop (which
// may run later than scheduled if a space was over capacity). The
// gate on how long the walker waits before departing is the space
// they are currently IN (not the one they are moving to); each hop is
// then recorded in the destination space traj.Spaces[i], which also
// becomes the new current space -- grounded verbatim on
// SyntheticDataGenerator::move, whose nextOpenTime gate and record
// target space deliberately differ (dl.C[p.currSpace] vs
// dl.C[traj.traj[i]]), and whose currDT is mutated in place across
// hops for the caller's subsequent record call.
func (s *Simulator) move(p *model.Person, eventID model.EventID, traj model.Trajectory, t clock.DateTime) (clock.DateTime, error) {
	if traj.Size() <= 1 {
		return t, nil
	}
	for i := 0; i < traj.Size()-1; i++ {
		curSpace, ok := s.world.Spaces.Get(p.CurrentSpace)
		if !ok {
			return t, errs.DataError("transit references unknown space %d", p.CurrentSpace)
		}
		expected := t.AddSeconds(traj.Delta[i])
		dayEnd := t.LastTime()
		actualSec, _ := curSpace.Occupancy.NextOpenTime(expected.Unix(), dayEnd.Unix(), curSpace.Capacity)
		actual := clock.NewDateTime(time.Unix(actualSec, 0).UTC())

		destSpace, ok := s.world.Spaces.Get(traj.Spaces[i])
		if !ok {
			return t, errs.DataError("transit references unknown space %d", traj.Spaces[i])
		}
		if err := s.record(p, eventID, destSpace, t, actual); err != nil {
			return t, err
		}
		t = actual
	}
	return t, nil
}

// record updates p.currentSpace, inserts the occupancy interval, and
// writes the CSV row.
func (s *Simulator) record(p *model.Person, eventID model.EventID, space *model.Space, start, end clock.DateTime) error {
	p.CurrentSpace = space.ID
	space.Occupancy.Insert(start.Unix(), end.Unix())
	return s.writeCSVRow(p.ID, eventID, space.ID, start, end)
}

func (s *Simulator) writeRow(p *model.Person, eventID model.EventID, spaceID model.SpaceID, start, end clock.DateTime) error {
	space, ok := s.world.Spaces.Get(spaceID)
	if !ok {
		return errs.DataError("unknown space %d", spaceID)
	}
	return s.record(p, eventID, space, start, end)
}

func (s *Simulator) writeCSVRow(personID model.PersonID, eventID model.EventID, spaceID model.SpaceID, start, end clock.DateTime) error {
	row := []string{
		fmt.Sprintf("%d", personID),
		fmt.Sprintf("%d", eventID),
		fmt.Sprintf("%d", spaceID),
		start.Format(),
		end.Format(),
	}
	if err := s.csvW.Write(row); err != nil {
		return errs.IOError(err, "writing data.csv row")
	}
	s.tee("  row: %v", row)
	return nil
}

func (s *Simulator) leave(p *model.Person, currDT, dayEnd clock.DateTime) error {
	traj, err := s.world.Trajectories.GetPath(p.CurrentSpace, model.OutsideSpaceID, false, true, s.rng)
	if err != nil {
		return err
	}
	arrived, err := s.move(p, model.OutEventID, traj, currDT)
	if err != nil {
		return err
	}
	return s.writeRow(p, model.OutEventID, model.OutsideSpaceID, arrived, dayEnd)
}

func (s *Simulator) eventTimeProfile(ev *model.Event) (*timeprofile.Profile, error) {
	me, ok := s.world.MetaEvents.Get(ev.MetaID)
	if !ok {
		return nil, errs.DataError("event %d references unknown metaevent %d", ev.ID, ev.MetaID)
	}
	if ev.TPIndex < 0 || ev.TPIndex >= len(me.TPs) {
		return nil, errs.DataError("event %d has out-of-range tp-index %d", ev.ID, ev.TPIndex)
	}
	return &me.TPs[ev.TPIndex], nil
}
