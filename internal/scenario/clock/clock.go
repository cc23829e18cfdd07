package clock

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// DateTime wraps time.Time in UTC; the scenario generator only ever
// reasons about seconds-since-epoch and same-calendar-day arithmetic.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime { return DateTime{t.UTC()} }

// FirstTime is 00:00:00 of the same calendar day.
func (d DateTime) FirstTime() DateTime {
	y, m, day := d.Date()
	return DateTime{time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

// LastTime is 23:59:59 of the same calendar day.
func (d DateTime) LastTime() DateTime {
	y, m, day := d.Date()
	return DateTime{time.Date(y, m, day, 23, 59, 59, 0, time.UTC)}
}

func (d DateTime) AddSeconds(s int) DateTime {
	return DateTime{d.Time.Add(time.Duration(s) * time.Second)}
}

// SecondsOfDay is the offset from FirstTime, in [0, 86400).
func (d DateTime) SecondsOfDay() int {
	return int(d.Sub(d.FirstTime().Time).Seconds())
}

func (d DateTime) SameDay(o DateTime) bool {
	y1, m1, day1 := d.Date()
	y2, m2, day2 := o.Date()
	return y1 == y2 && m1 == m2 && day1 == day2
}

func (d DateTime) Format() string {
	return d.Time.Format("2006-01-02 15:04:05")
}

// TimePeriod is a [Start, End] window. A period is "null" (invalid)
// when Start equals End, mirroring the original's TimePeriod::operator
// bool() == !(s==e).
type TimePeriod struct {
	Start, End DateTime
}

func (p TimePeriod) IsNull() bool { return p.Start.Equal(p.End.Time) }

func (p TimePeriod) Duration() int { return int(p.End.Sub(p.Start.Time).Seconds()) }

// Normal is a Gaussian distribution; Sample draws an unrounded value
// from it using an explicit, caller-owned engine so that sampling is
// reproducible given a seed.
type Normal struct {
	Mean, Stdev float64
}

func (n Normal) Sample(r *rand.Rand) float64 {
	if n.Stdev == 0 {
		return n.Mean
	}
	return r.NormFloat64()*n.Stdev + n.Mean
}

// SampleSeconds rounds Sample to the nearest second, used throughout
// for durations and clock times expressed as seconds-of-day.
func (n Normal) SampleSeconds(r *rand.Rand) int {
	return int(math.Round(n.Sample(r)))
}

// ParseClock parses "HH:MM:SS" into seconds-of-day.
func ParseClock(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return h*3600 + m*60 + sec, nil
}
