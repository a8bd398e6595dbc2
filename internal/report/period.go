// Package report resolves reporting periods and aggregates transactions into reports.
package report

import (
	"time"

	"budget_tracker/internal/model"
)

// Interval is a resolved reporting range. End is exclusive unless EndInclusive is set.
type Interval struct {
	Period       string
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// Contains reports whether the calendar date of d lies inside the interval
func (iv Interval) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, iv.Start.Location())
	if day.Before(iv.Start) {
		return false
	}
	if iv.EndInclusive {
		return !day.After(iv.End)
	}
	return day.Before(iv.End)
}

// LastDay returns the inclusive calendar end date of the interval
func (iv Interval) LastDay() time.Time {
	end := iv.End
	if !iv.EndInclusive {
		end = end.AddDate(0, 0, -1)
	}
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolve maps a period keyword or an explicit date range to a concrete interval
// anchored at now. Unknown keywords and a custom period without dates resolve to
// the current month. An explicit custom range that is incomplete, malformed or
// reversed is rejected with a validation error.
func Resolve(period, startStr, endStr string, now time.Time) (Interval, error) {
	today := midnight(now)
	loc := now.Location()

	if period == "" && startStr != "" && endStr != "" {
		period = model.PeriodCustom
	}

	switch period {
	case model.PeriodDaily:
		return Interval{Period: period, Start: today, End: today.AddDate(0, 0, 1)}, nil
	case model.PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return Interval{Period: period, Start: monday, End: monday.AddDate(0, 0, 7)}, nil
	case model.PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Interval{Period: period, Start: start, End: start.AddDate(1, 0, 0)}, nil
	case model.PeriodLastYearToDate:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		return Interval{Period: period, Start: start, End: now, EndInclusive: true}, nil
	case model.PeriodCustom:
		if startStr != "" || endStr != "" {
			return resolveCustom(startStr, endStr, loc)
		}
	}
	return monthly(now), nil
}

func monthly(now time.Time) Interval {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Interval{Period: model.PeriodMonthly, Start: start, End: start.AddDate(0, 1, 0)}
}

func resolveCustom(startStr, endStr string, loc *time.Location) (Interval, error) {
	if startStr == "" {
		return Interval{}, model.NewValidationError("start_date", "custom range requires a start date")
	}
	if endStr == "" {
		return Interval{}, model.NewValidationError("end_date", "custom range requires an end date")
	}
	start, err := time.ParseInLocation(model.DateLayout, startStr, loc)
	if err != nil {
		return Interval{}, model.NewValidationError("start_date", "invalid date, use YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(model.DateLayout, endStr, loc)
	if err != nil {
		return Interval{}, model.NewValidationError("end_date", "invalid date, use YYYY-MM-DD")
	}
	if start.After(end) {
		return Interval{}, model.NewValidationError("start_date", "start date must not be after end date")
	}

	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999000, loc)
	return Interval{Period: model.PeriodCustom, Start: start, End: endOfDay, EndInclusive: true}, nil
}
