package observation

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/dataloader"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
)

// Runner is the SensorObservationGenerator of spec.md §4.I: it reads
// data.csv once, then runs every registered metasensor's generator
// against it, one obs_msid_<id>.csv + obs_log_msid_<id>.csv pair per
// metasensor. Per-metasensor generation is the one deliberate
// deviation from the single-threaded simulation model (spec.md §5);
// each metasensor's generator instance, and the covering-sensor/
// attendance indices it reads, are independent, so fanning them out
// across goroutines cannot race.
type Runner struct {
	world   *dataloader.World
	outDir  string
	rows    []Attendance
	bySpace map[model.SpaceID][]Attendance
}

func NewRunner(w *dataloader.World, dataCSVPath, outDir string) (*Runner, error) {
	rows, err := ReadAttendance(dataCSVPath)
	if err != nil {
		return nil, err
	}
	return &Runner{
		world:   w,
		outDir:  outDir,
		rows:    rows,
		bySpace: AttendanceBySpace(rows),
	}, nil
}

// Run processes every metasensor in the registry concurrently and
// returns the first error encountered, per errgroup's fail-fast
// semantics.
func (ru *Runner) Run(seed int64) error {
	if ru.world.MetaSensors == nil {
		return nil
	}
	var g errgroup.Group
	for i, ms := range ru.world.MetaSensors.All() {
		ms := ms
		msSeed := seed + int64(i) + 1
		g.Go(func() error { return ru.runMetaSensor(ms, msSeed) })
	}
	return g.Wait()
}

func (ru *Runner) runMetaSensor(ms *model.MetaSensor, seed int64) error {
	r := rand.New(rand.NewSource(seed))
	gen, ok := New(ms.ID, r)
	if !ok {
		return errs.InvariantError("no sensor-observation generator registered for metasensor %d", ms.ID)
	}

	csvPath := filepath.Join(ru.outDir, fmt.Sprintf("obs_msid_%d.csv", ms.ID))
	logPath := filepath.Join(ru.outDir, fmt.Sprintf("obs_log_msid_%d.csv", ms.ID))

	csvFile, err := os.Create(csvPath)
	if err != nil {
		return errs.IOError(err, "creating %q", csvPath)
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()

	logFile, err := os.Create(logPath)
	if err != nil {
		return errs.IOError(err, "creating %q", logPath)
	}
	defer logFile.Close()

	header := gen.(Generator).Header()
	if err := w.Write(header); err != nil {
		return errs.IOError(err, "writing %q header", csvPath)
	}

	var sensors []*model.Sensor
	for _, sid := range ms.SensorIDs {
		if sn, ok := ru.world.Sensors.Get(sid); ok {
			sensors = append(sensors, sn)
		}
	}

	write := func(rows []Row) error {
		for _, row := range rows {
			if err := w.Write(row.Fields); err != nil {
				return errs.IOError(err, "writing %q row", csvPath)
			}
			fmt.Fprintln(logFile, strings.Join(row.Fields, ","))
		}
		return nil
	}

	switch gg := gen.(type) {
	case OccupancyGenerator:
		if err := ru.runOccupancy(gg, sensors, write); err != nil {
			return err
		}
	case EnvironmentalGenerator:
		if err := ru.runEnvironmental(gg, sensors, write); err != nil {
			return err
		}
	case UsageGenerator:
		if err := ru.runUsage(gg, sensors, write); err != nil {
			return err
		}
	default:
		return errs.InvariantError("generator for metasensor %d implements no recognized dispatch shape", ms.ID)
	}

	w.Flush()
	return w.Error()
}

// runOccupancy implements OccupancyObservation, mirroring
// OccupancyObservationGenerator::generateObservations(): per person,
// walk their trajectory entries in order, pairing each with the
// sensors covering its space, calling UpdateState then RecordState
// once per entry -- not once per entry per sensor -- so per-person
// continuity state only ever sees a single, time-ordered pass.
// RecordRest runs once, after every person has been walked.
func (ru *Runner) runOccupancy(gen OccupancyGenerator, sensors []*model.Sensor, write func([]Row) error) error {
	cov := BuildCoveringSensors(sensors)
	byPerson := ByPerson(ru.rows)

	for person, tuples := range byPerson {
		for _, a := range tuples {
			covering := coveringSensorsFor(cov, person, a.SpaceID)
			if err := write(gen.UpdateState(covering, person, a)); err != nil {
				return err
			}
			if err := write(gen.RecordState(covering, person)); err != nil {
				return err
			}
		}
	}
	if err := write(gen.RecordRest(sensors)); err != nil {
		return err
	}
	return nil
}

// coveringSensorsFor is the per-entry analogue of
// OccupancyObservationGenerator::computeCoverageMap(): the sensors,
// static or mobile, that cover one trajectory entry.
func coveringSensorsFor(cov *CoveringSensors, person model.PersonID, space model.SpaceID) []*model.Sensor {
	seen := make(map[model.SensorID]bool)
	var out []*model.Sensor
	for _, sn := range cov.BySpace[space] {
		if !seen[sn.ID] {
			seen[sn.ID] = true
			out = append(out, sn)
		}
	}
	for _, sn := range cov.ByPerson[person] {
		if !seen[sn.ID] {
			seen[sn.ID] = true
			out = append(out, sn)
		}
	}
	return out
}

// runEnvironmental implements EnvironmentalObservation, mirroring
// EnvironmentalObservationGenerator::generateObservations()'s outer
// loop over every calendar day from dl->start to dl->end: for each
// sensor, on each day, step dayStart to dayEnd by gen.Step(), sampling
// ambient state each tick.
func (ru *Runner) runEnvironmental(gen EnvironmentalGenerator, sensors []*model.Sensor, write func([]Row) error) error {
	for day := ru.world.StartDate; !day.After(ru.world.EndDate); day = day.AddDate(0, 0, 1) {
		dayStart := clock.NewDateTime(day).FirstTime()
		dayEnd := clock.NewDateTime(day).LastTime()

		for _, sn := range sensors {
			var space model.SpaceID
			if len(sn.Coverage) > 0 {
				space = sn.Coverage[0]
			}
			for t := dayStart; !t.After(dayEnd.Time); t = t.AddSeconds(gen.Step()) {
				n := PeopleCoveredAt(ru.bySpace, space, t)
				if err := write(gen.UpdateState(sn, t, n)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runUsage implements UsageObservation: collapse the CSV to one
// bucket per (person, event, day), then walk the buckets each
// covering sensor intersects.
func (ru *Runner) runUsage(gen UsageGenerator, sensors []*model.Sensor, write func([]Row) error) error {
	collapsed := CollapseByEventDay(ru.rows)
	cov := BuildCoveringSensors(sensors)

	for _, a := range collapsed {
		for _, sn := range cov.BySpace[a.SpaceID] {
			if err := write(gen.Observe(sn, a)); err != nil {
				return err
			}
		}
	}
	return nil
}
