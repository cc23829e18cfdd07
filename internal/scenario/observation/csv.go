package observation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
)

// ReadAttendance parses data.csv, produced by Component H, into
// Attendance rows in file order.
func ReadAttendance(path string) ([]Attendance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IOError(err, "opening %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, errs.IOError(err, "reading %q header", path)
	}

	var rows []Attendance
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.IOError(err, "reading %q", path)
		}
		a, err := parseRow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, a)
	}
	return rows, nil
}

func parseRow(rec []string) (Attendance, error) {
	if len(rec) != 5 {
		return Attendance{}, errs.IOError(nil, "malformed data.csv row %v", rec)
	}
	personID, err1 := strconv.Atoi(rec[0])
	eventID, err2 := strconv.Atoi(rec[1])
	spaceID, err3 := strconv.Atoi(rec[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Attendance{}, errs.IOError(nil, "malformed data.csv ids in row %v", rec)
	}
	start, err4 := parseDateTime(rec[3])
	end, err5 := parseDateTime(rec[4])
	if err4 != nil || err5 != nil {
		return Attendance{}, errs.IOError(nil, "malformed data.csv timestamp in row %v", rec)
	}
	return Attendance{PersonID: personID, EventID: eventID, SpaceID: spaceID, Start: start, End: end}, nil
}

func parseDateTime(s string) (clock.DateTime, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return clock.DateTime{}, err
	}
	return clock.NewDateTime(t), nil
}

// ByPerson groups attendance rows by person id, sorted by Start
// within each person (data.csv is already written in arrival order
// per person per day, so a stable bucket-append is sufficient).
func ByPerson(rows []Attendance) map[model.PersonID][]Attendance {
	out := make(map[model.PersonID][]Attendance)
	for _, a := range rows {
		out[a.PersonID] = append(out[a.PersonID], a)
	}
	return out
}

// CoveringSensors indexes static sensor coverage by space id, and
// mobile sensor coverage by the person id they follow.
type CoveringSensors struct {
	BySpace  map[model.SpaceID][]*model.Sensor
	ByPerson map[model.PersonID][]*model.Sensor
}

func BuildCoveringSensors(sensors []*model.Sensor) *CoveringSensors {
	c := &CoveringSensors{
		BySpace:  make(map[model.SpaceID][]*model.Sensor),
		ByPerson: make(map[model.PersonID][]*model.Sensor),
	}
	for _, sn := range sensors {
		if sn.Mobile {
			c.ByPerson[sn.Follows] = append(c.ByPerson[sn.Follows], sn)
			continue
		}
		for _, sp := range sn.Coverage {
			c.BySpace[sp] = append(c.BySpace[sp], sn)
		}
	}
	return c
}

// CollapseByEventDay collapses attendance rows into a single bucket
// per (person, event, calendar day), taking the min start / max end --
// the "last (person,event,day) bucket" spec.md §4.I describes for
// UsageObservation, so a multi-hop attendance (transit rows sharing
// the same event id as the destination event) reads as one
// continuous occupancy span.
func CollapseByEventDay(rows []Attendance) []Attendance {
	type key struct {
		person model.PersonID
		event  model.EventID
		day    string
	}
	order := make([]key, 0)
	buckets := make(map[key]*Attendance)
	for _, a := range rows {
		k := key{a.PersonID, a.EventID, a.Start.Format()[:10]}
		if b, ok := buckets[k]; ok {
			if a.Start.Before(b.Start.Time) {
				b.Start = a.Start
			}
			if a.End.After(b.End.Time) {
				b.End = a.End
			}
			continue
		}
		cp := a
		buckets[k] = &cp
		order = append(order, k)
	}
	out := make([]Attendance, 0, len(order))
	for _, k := range order {
		out = append(out, *buckets[k])
	}
	return out
}

// AttendanceBySpace builds the per-space interval list
// EnvironmentalObservation needs to compute "how many people were
// covered at time t", ignoring the event id column per spec.md §9.
func AttendanceBySpace(rows []Attendance) map[model.SpaceID][]Attendance {
	out := make(map[model.SpaceID][]Attendance)
	for _, a := range rows {
		out[a.SpaceID] = append(out[a.SpaceID], a)
	}
	return out
}

// PeopleCoveredAt counts how many attendance intervals for space
// contain instant t.
func PeopleCoveredAt(bySpace map[model.SpaceID][]Attendance, space model.SpaceID, t clock.DateTime) int {
	n := 0
	for _, a := range bySpace[space] {
		if !t.Before(a.Start.Time) && t.Before(a.End.Time) {
			n++
		}
	}
	return n
}
