package observation

import (
	"fmt"
	"math/rand"

	"smartspec-scenariogen/internal/scenario/clock"
	"smartspec-scenariogen/internal/scenario/model"
)

// stationaryThreshold separates "stationary" from "moving" dwells
// across WiFi, Door and Motion, per spec.md §4.I.
const stationaryThreshold = 5 * 60

const wifiPeriodicInterval = 15 * 60

// wifiGenerator emits periodic AP associations while a person
// dwells, and sparse associations while they pass through.
type wifiGenerator struct {
	r *rand.Rand

	lastAP   map[model.PersonID]string
	lastSeen map[model.PersonID]clock.DateTime
}

func newWiFiGenerator(r *rand.Rand) *wifiGenerator {
	return &wifiGenerator{
		r:        r,
		lastAP:   make(map[model.PersonID]string),
		lastSeen: make(map[model.PersonID]clock.DateTime),
	}
}

func (g *wifiGenerator) Header() []string { return []string{"PersonID", "DateTime", "WiFiAP"} }

func apName(sensor *model.Sensor) string {
	return fmt.Sprintf("AP-%d", sensor.ID)
}

func (g *wifiGenerator) UpdateState(sensors []*model.Sensor, person model.PersonID, a Attendance) []Row {
	dwell := a.End.Sub(a.Start.Time).Seconds()
	var rows []Row

	if dwell >= stationaryThreshold {
		for _, sensor := range sensors {
			ap := apName(sensor)
			for t := a.Start; t.Before(a.End.Time); t = t.AddSeconds(wifiPeriodicInterval) {
				rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", person), t.Format(), ap}})
			}
			g.lastAP[person] = ap
		}
		g.lastSeen[person] = a.End
		return rows
	}

	last, seen := g.lastSeen[person]
	if !seen || a.Start.Sub(last.Time).Seconds() > stationaryThreshold {
		ap, known := g.lastAP[person]
		if !known && len(sensors) > 0 {
			ap = apName(sensors[0])
		}
		rows = append(rows, Row{Fields: []string{fmt.Sprintf("%d", person), a.Start.Format(), ap}})
		g.lastAP[person] = ap
		g.lastSeen[person] = a.Start
	}
	return rows
}

func (g *wifiGenerator) RecordState(sensors []*model.Sensor, person model.PersonID) []Row { return nil }
func (g *wifiGenerator) RecordRest(sensors []*model.Sensor) []Row                        { return nil }
