package observation

import (
	"fmt"
	"math/rand"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

// motionDetectProb is the per-covering-sensor chance of a detection
// firing at all, per spec.md §4.I.
const motionDetectProb = 0.7

type motionGenerator struct {
	r *rand.Rand
}

func newMotionGenerator(r *rand.Rand) *motionGenerator { return &motionGenerator{r: r} }

func (g *motionGenerator) Header() []string { return []string{"SensorID", "DateTime"} }

func (g *motionGenerator) UpdateState(sensors []*model.Sensor, person model.PersonID, a Attendance) []Row {
	dwell := a.End.Sub(a.Start.Time).Seconds()
	var rows []Row
	for _, sensor := range sensors {
		if g.r.Float64() >= motionDetectProb {
			continue
		}
		if dwell >= stationaryThreshold {
			near := clock.Normal{Mean: 300, Stdev: 60}
			start := a.Start.AddSeconds(clampNonNeg(near.SampleSeconds(g.r)))
			end := a.End.AddSeconds(-clampNonNeg(near.SampleSeconds(g.r)))
			rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", sensor.ID), start.Format()}})
			rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", sensor.ID), end.Format()}})
			continue
		}
		offset := 0
		if span := int(dwell); span > 0 {
			offset = g.r.Intn(span)
		}
		t := a.Start.AddSeconds(offset)
		rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", sensor.ID), t.Format()}})
	}
	return rows
}

func (g *motionGenerator) RecordState(sensors []*model.Sensor, person model.PersonID) []Row { return nil }
func (g *motionGenerator) RecordRest(sensors []*model.Sensor) []Row                        { return nil }

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
