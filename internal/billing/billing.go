// Package billing computes subscription billing schedules.
package billing

import (
	"strings"
	"time"
)

// Interval is a billing period unit.
type Interval string

const (
	Day   Interval = "day"
	Week  Interval = "week"
	Month Interval = "month"
	Year  Interval = "year"
)

// ParseInterval normalizes s. Unrecognized values fall back to Month.
func ParseInterval(s string) Interval {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day
	case Week:
		return Week
	case Year:
		return Year
	default:
		return Month
	}
}

// AddInterval advances t by count units of interval. Month and year steps clamp
// to the last day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func AddInterval(t time.Time, interval Interval, count int) time.Time {
	switch interval {
	case Day:
		return t.AddDate(0, 0, count)
	case Week:
		return t.AddDate(0, 0, 7*count)
	case Year:
		return addMonths(t, 12*count)
	default:
		return addMonths(t, count)
	}
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// First of the target month, then clamp the day.
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Schedule is the billing timeline of a new subscription.
type Schedule struct {
	Interval        Interval
	IntervalCount   int
	TrialPeriodDays int
	// TrialEnd is nil when there is no trial.
	TrialEnd        *time.Time
	NextBillingDate time.Time
}

// NewSchedule computes the trial end and first billing date starting at now.
// A count below 1 is treated as 1 and negative trial lengths as no trial.
func NewSchedule(now time.Time, interval Interval, count, trialDays int) Schedule {
	if count < 1 {
		count = 1
	}
	if trialDays < 0 {
		trialDays = 0
	}

	s := Schedule{
		Interval:        interval,
		IntervalCount:   count,
		TrialPeriodDays: trialDays,
	}

	start := now
	if trialDays > 0 {
		trialEnd := now.AddDate(0, 0, trialDays)
		s.TrialEnd = &trialEnd
		start = trialEnd
	}
	s.NextBillingDate = AddInterval(start, interval, count)

	return s
}
