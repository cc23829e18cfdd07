package observation

import (
	"fmt"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

// temperatureStep overrides EnvironmentalObservation's 1-minute
// default tick to 15 minutes, per spec.md §4.I.
const temperatureStep = 15 * 60

type temperatureGenerator struct {
	value map[model.SensorID]float64
}

func newTemperatureGenerator() *temperatureGenerator {
	return &temperatureGenerator{value: make(map[model.SensorID]float64)}
}

func (g *temperatureGenerator) Header() []string {
	return []string{"SensorID", "DateTime", "Temperature"}
}

func (g *temperatureGenerator) Step() int { return temperatureStep }

func (g *temperatureGenerator) UpdateState(sensor *model.Sensor, now clock.DateTime, peopleCovered int) []Row {
	prev, ok := g.value[sensor.ID]
	if !ok {
		prev = 70
	}
	next := 0.4*prev + 0.6*(70+0.25*float64(peopleCovered))
	g.value[sensor.ID] = next
	return []Row{{Fields: []string{fmt.Sprintf("%d", sensor.ID), now.Format(), fmt.Sprintf("%.2f", next)}}}
}
