package observation

import (
	"fmt"
	"math/rand"

	"smartspec-scenariogen/internal/scenario/model"
)

// doorGenerator emits one "opened" record per pass-through dwell, per
// spec.md §4.I.
type doorGenerator struct {
	r *rand.Rand
}

func newDoorGenerator(r *rand.Rand) *doorGenerator { return &doorGenerator{r: r} }

func (g *doorGenerator) Header() []string { return []string{"SensorID", "DateTime"} }

func (g *doorGenerator) UpdateState(sensors []*model.Sensor, person model.PersonID, a Attendance) []Row {
	dwell := a.End.Sub(a.Start.Time).Seconds()
	if dwell >= stationaryThreshold {
		return nil
	}
	offset := 0
	if span := int(dwell); span > 0 {
		offset = g.r.Intn(span)
	}
	t := a.Start.AddSeconds(offset)
	var rows []Row
	for _, sensor := range sensors {
		rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", sensor.ID), t.Format()}})
	}
	return rows
}

func (g *doorGenerator) RecordState(sensors []*model.Sensor, person model.PersonID) []Row { return nil }
func (g *doorGenerator) RecordRest(sensors []*model.Sensor) []Row                        { return nil }
