// Package observation implements Component I: replaying the
// attendance CSV written by the simulator through a per-metasensor
// plug-in registry to emit sensor-level observation records.
package observation

import (
	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

// Attendance is one row of data.csv: a person occupying a space for
// an event during [Start,End).
type Attendance struct {
	PersonID model.PersonID
	EventID  model.EventID
	SpaceID  model.SpaceID
	Start    clock.DateTime
	End      clock.DateTime
}

// Row is the generic observation record a generator emits: the
// formatted field values for one CSV line (the column names come from
// Generator.Header).
type Row struct {
	Fields []string
}

// Generator is implemented by every concrete sensor-observation
// generator; Header names the CSV columns obs_msid_<id>.csv carries.
type Generator interface {
	Header() []string
}

// OccupancyGenerator replays a person's trajectory of Attendance
// tuples one entry at a time, each paired with whichever sensors
// cover that entry's space (or follow the person, for mobile
// coverage); state the generator keeps per person must therefore
// survive across calls for the same person. RecordRest runs once,
// after every person's trajectory has been replayed.
type OccupancyGenerator interface {
	Generator
	UpdateState(sensors []*model.Sensor, person model.PersonID, a Attendance) []Row
	RecordState(sensors []*model.Sensor, person model.PersonID) []Row
	RecordRest(sensors []*model.Sensor) []Row
}

// EnvironmentalGenerator steps a sensor forward in fixed increments
// across the day, sampling ambient state at each tick.
type EnvironmentalGenerator interface {
	Generator
	Step() int // tick interval, seconds
	UpdateState(sensor *model.Sensor, now clock.DateTime, peopleCovered int) []Row
}

// UsageGenerator walks the (possibly collapsed) attendance entries
// covered by a sensor and emits usage increments within each.
type UsageGenerator interface {
	Generator
	Observe(sensor *model.Sensor, a Attendance) []Row
}
