package dataloader

import (
	"encoding/json"
	"time"

	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
	"smartspec-scenariogen/internal/scenario/timeprofile"
)

const maxCapacity = 99999

// parseTimeValue decodes either a "HH:MM:SS" clock string (stdev 0) or
// a [mean, stdev] pair of seconds, per spec.md §6's JSON input shapes.
func parseTimeValue(raw json.RawMessage) (model.Normal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		secs, err := model.ParseClock(s)
		if err != nil {
			return model.Normal{}, err
		}
		return model.Normal{Mean: float64(secs)}, nil
	}
	var pair [2]float64
	if err := json.Unmarshal(raw, &pair); err == nil {
		return model.Normal{Mean: pair[0], Stdev: pair[1]}, nil
	}
	return model.Normal{}, errs.DataError("cannot parse time value %s", raw)
}

type rawPattern struct {
	StartDate     string         `json:"start-date"`
	EndDate       string         `json:"end-date"`
	Period        string         `json:"period"`
	PeriodDetails rawPeriodDetails `json:"period-details"`
}

type rawPeriodDetails struct {
	RepeatEvery int   `json:"repeat-every"`
	DaysOfMonth []int `json:"days-of-month"`
	WeeksOfYear []int `json:"weeks-of-year"`
	Months      []int `json:"months"`
	Weekdays    []int `json:"weekdays"`
	MonthWeeks  []struct {
		N       int `json:"n"`
		Weekday int `json:"weekday"`
	} `json:"month-weeks"`
	DaysOfYear []int `json:"days-of-year"`
}

type rawDuration struct {
	StartTime json.RawMessage `json:"start-time"`
	EndTime   json.RawMessage `json:"end-time"`
	Required  json.RawMessage `json:"required"`
	Recurring bool            `json:"recurring"`
}

type rawTimeProfileEntry struct {
	Pattern  rawPattern  `json:"pattern"`
	Duration rawDuration `json:"duration"`
}

var periodNames = map[string]timeprofile.Pattern{
	"day":              timeprofile.Day,
	"week":             timeprofile.Week,
	"month-day":        timeprofile.MonthByDay,
	"month-weekday":    timeprofile.MonthByWeekday,
	"year-day":         timeprofile.YearByDay,
	"year-weekday":     timeprofile.YearByWeekday,
	"year-monthday":    timeprofile.YearByMonthDay,
	"year-monthweekday": timeprofile.YearByMonthWeekday,
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errs.DataError("invalid date %q: %v", s, err)
	}
	return t.UTC(), nil
}

func decodeTimeProfileEntry(raw rawTimeProfileEntry) (timeprofile.Entry, error) {
	pattern, ok := periodNames[raw.Pattern.Period]
	if !ok {
		return timeprofile.Entry{}, errs.DataError("unknown time-profile period %q", raw.Pattern.Period)
	}
	start, err := parseDate(raw.Pattern.StartDate)
	if err != nil {
		return timeprofile.Entry{}, err
	}
	end, err := parseDate(raw.Pattern.EndDate)
	if err != nil {
		return timeprofile.Entry{}, err
	}

	weekdays := make([]timeprofile.Weekday, len(raw.Pattern.PeriodDetails.Weekdays))
	for i, w := range raw.Pattern.PeriodDetails.Weekdays {
		weekdays[i] = timeprofile.Weekday(w)
	}
	months := make([]time.Month, len(raw.Pattern.PeriodDetails.Months))
	for i, m := range raw.Pattern.PeriodDetails.Months {
		months[i] = time.Month(m)
	}
	monthWeeks := make([]timeprofile.WeekdayOrdinal, len(raw.Pattern.PeriodDetails.MonthWeeks))
	for i, mw := range raw.Pattern.PeriodDetails.MonthWeeks {
		monthWeeks[i] = timeprofile.WeekdayOrdinal{N: mw.N, Weekday: timeprofile.Weekday(mw.Weekday)}
	}

	startTime, err := parseTimeValue(raw.Duration.StartTime)
	if err != nil {
		return timeprofile.Entry{}, err
	}
	endTime, err := parseTimeValue(raw.Duration.EndTime)
	if err != nil {
		return timeprofile.Entry{}, err
	}
	required, err := parseTimeValue(raw.Duration.Required)
	if err != nil {
		return timeprofile.Entry{}, err
	}

	e := timeprofile.Entry{
		Pattern: pattern,
		Details: timeprofile.PeriodDetails{
			RepeatEvery: raw.Pattern.PeriodDetails.RepeatEvery,
			DaysOfMonth: raw.Pattern.PeriodDetails.DaysOfMonth,
			WeeksOfYear: raw.Pattern.PeriodDetails.WeeksOfYear,
			MonthsOfYr:  months,
			Weekdays:    weekdays,
			MonthWeeks:  monthWeeks,
			DaysOfYear:  raw.Pattern.PeriodDetails.DaysOfYear,
		},
		Start:     start,
		End:       end,
		StartTime: startTime,
		EndTime:   endTime,
		Required:  required,
		Recurring: raw.Duration.Recurring,
	}
	if err := e.Expand(); err != nil {
		return timeprofile.Entry{}, err
	}
	return e, nil
}

func decodeTimeProfiles(raw []json.RawMessage) ([]timeprofile.Profile, []float64, error) {
	profiles := make([]timeprofile.Profile, 0, len(raw))
	prs := make([]float64, 0, len(raw))
	for _, r := range raw {
		var item struct {
			Profile     rawTimeProfileEntry `json:"profile"`
			Probability float64             `json:"probability"`
		}
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, nil, errs.IOError(err, "decoding time-profile entry")
		}
		entry, err := decodeTimeProfileEntry(item.Profile)
		if err != nil {
			return nil, nil, err
		}
		pr := item.Probability
		if pr == 0 {
			pr = 1.0
		}
		profiles = append(profiles, timeprofile.Profile{Entries: []timeprofile.Entry{entry}})
		prs = append(prs, pr)
	}
	return profiles, prs, nil
}

// capacityDistrEntry/capacityEntry mirror the two JSON shapes spec.md
// §6 documents for metaevent/event capacity respectively.
type capacityDistrEntry struct {
	MetaPersonID model.MetaPersonID `json:"metaperson-id"`
	Range        *[2][2]float64     `json:"range"`
	Lo           *[2]float64        `json:"lo"`
	Hi           *[2]float64        `json:"hi"`
}

func decodeMetaEventCapacity(raw json.RawMessage) (map[model.MetaPersonID]model.CapRangeDistr, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "inf" {
			return map[model.MetaPersonID]model.CapRangeDistr{
				-1: {Lo: model.Normal{Mean: 0}, Hi: model.Normal{Mean: maxCapacity}},
			}, nil
		}
		return nil, errs.DataError("unknown capacity string %q", asString)
	}

	var entries []capacityDistrEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errs.IOError(err, "decoding metaevent capacity")
	}
	out := make(map[model.MetaPersonID]model.CapRangeDistr, len(entries))
	for _, e := range entries {
		switch {
		case e.Range != nil:
			out[e.MetaPersonID] = model.CapRangeDistr{
				Lo: model.Normal{Mean: e.Range[0][0], Stdev: e.Range[0][1]},
				Hi: model.Normal{Mean: e.Range[1][0], Stdev: e.Range[1][1]},
			}
		case e.Lo != nil && e.Hi != nil:
			out[e.MetaPersonID] = model.CapRangeDistr{
				Lo: model.Normal{Mean: e.Lo[0], Stdev: e.Lo[1]},
				Hi: model.Normal{Mean: e.Hi[0], Stdev: e.Hi[1]},
			}
		default:
			return nil, errs.DataError("malformed capacity entry for metaperson %d", e.MetaPersonID)
		}
	}
	return out, nil
}

type capacityEntry struct {
	MetaPersonID model.MetaPersonID `json:"metaperson-id"`
	Range        *[2]int            `json:"range"`
	Lo           *int               `json:"lo"`
	Hi           *int               `json:"hi"`
}

func decodeEventCapacity(raw json.RawMessage) (map[model.MetaPersonID]model.CapRange, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "inf" {
			return map[model.MetaPersonID]model.CapRange{-1: {Lo: 0, Hi: maxCapacity}}, nil
		}
		return nil, errs.DataError("unknown capacity string %q", asString)
	}

	var entries []capacityEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errs.IOError(err, "decoding event capacity")
	}
	out := make(map[model.MetaPersonID]model.CapRange, len(entries))
	for _, e := range entries {
		switch {
		case e.Range != nil:
			out[e.MetaPersonID] = model.CapRange{Lo: e.Range[0], Hi: e.Range[1]}
		case e.Hi != nil:
			lo := 0
			if e.Lo != nil {
				lo = *e.Lo
			}
			out[e.MetaPersonID] = model.CapRange{Lo: lo, Hi: *e.Hi}
		default:
			return nil, errs.DataError("malformed capacity entry for metaperson %d", e.MetaPersonID)
		}
	}
	return out, nil
}
