package observation

import (
	"fmt"
	"math/rand"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

// waterUsageGenerator increments usage in short bursts separated by
// idle gaps within each collapsed attendance span, per spec.md §4.I.
type waterUsageGenerator struct {
	r *rand.Rand

	burst clock.Normal
	gap   clock.Normal
}

func newWaterUsageGenerator(r *rand.Rand) *waterUsageGenerator {
	return &waterUsageGenerator{
		r:     r,
		burst: clock.Normal{Mean: 180, Stdev: 30},
		gap:   clock.Normal{Mean: 1800, Stdev: 300},
	}
}

func (g *waterUsageGenerator) Header() []string {
	return []string{"SensorID", "DateTime", "Usage"}
}

func (g *waterUsageGenerator) Observe(sensor *model.Sensor, a Attendance) []Row {
	var rows []Row
	t := a.Start
	usage := 0
	for t.Before(a.End.Time) {
		burstLen := clampNonNeg(g.burst.SampleSeconds(g.r))
		end := t.AddSeconds(burstLen)
		if end.After(a.End.Time) {
			end = a.End
		}
		usage++
		rows = append(rows, Row{Fields: []string{
			fmt.Sprintf("%d", sensor.ID), t.Format(), fmt.Sprintf("%d", usage),
		}})

		gapLen := clampNonNeg(g.gap.SampleSeconds(g.r))
		t = end.AddSeconds(gapLen)
	}
	return rows
}
