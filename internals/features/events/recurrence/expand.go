package recurrence

import (
	"errors"
	"time"
)

// ErrUnboundedExpansion guards against infinite generation: Expand refuses
// to run when neither a count nor any end date bounds the series. The
// orchestrator always supplies a bound, so reaching this is a bug upstream.
var ErrUnboundedExpansion = errors.New("recurrence: expansion has neither a count nor an end date bound")

// Occurrence is one calendar date on which a recurring category should
// produce an event. It only lives for the duration of a generation call.
type Occurrence struct {
	Date          time.Time // midnight UTC, date-only
	SequenceIndex int
}

// Bounds limits an expansion. Count 0 means "no count limit"; Until is
// exclusive. At least one of Count / Until / rule.EndDate must be set.
type Bounds struct {
	Count int
	Until *time.Time
}

// Expand produces the ordered occurrence dates for rule starting at anchor.
// The output is strictly increasing, visits each date at most once, and is
// fully determined by its inputs.
//
// Month-end policy: a monthly day_of_month larger than the target month
// (day 31 in February) clamps to the last day of that month. Yearly Feb-29
// anchors clamp to Feb-28 in non-leap years.
func Expand(rule Rule, anchor time.Time, bounds Bounds) ([]Occurrence, error) {
	if bounds.Count <= 0 && bounds.Until == nil && rule.EndDate == nil {
		return nil, ErrUnboundedExpansion
	}

	anchor = DateOnly(anchor)
	yield, done, collect := collector(rule, bounds)

	switch rule.Pattern {
	case PatternDaily:
		for d := anchor; !done(d); d = d.AddDate(0, 0, rule.Interval) {
			yield(d)
		}
	case PatternWeekly:
		expandWeekly(rule, anchor, yield, done)
	case PatternMonthly:
		expandMonthly(rule, anchor, yield, done)
	case PatternYearly:
		expandYearly(rule, anchor, yield, done)
	default:
		return nil, &InvalidRuleError{Field: "recurrence_pattern", Reason: "is not expandable"}
	}

	return collect(), nil
}

// collector builds the yield/done pair shared by all patterns. done reports
// whether the candidate date (or any later one) can no longer be produced.
func collector(rule Rule, bounds Bounds) (func(time.Time), func(time.Time) bool, func() []Occurrence) {
	var out []Occurrence

	yield := func(d time.Time) {
		out = append(out, Occurrence{Date: d, SequenceIndex: len(out)})
	}
	done := func(d time.Time) bool {
		if bounds.Count > 0 && len(out) >= bounds.Count {
			return true
		}
		if bounds.Until != nil && !d.Before(*bounds.Until) {
			return true
		}
		if rule.EndDate != nil && d.After(DateOnly(*rule.EndDate)) {
			return true
		}
		return false
	}
	return yield, done, func() []Occurrence { return out }
}

func expandWeekly(rule Rule, anchor time.Time, yield func(time.Time), done func(time.Time) bool) {
	wanted := map[int]bool{}
	for _, wd := range rule.Weekdays {
		wanted[wd] = true
	}
	if len(wanted) == 0 {
		wanted[isoWeekday(anchor)] = true
	}

	anchorWeek := startOfISOWeek(anchor)
	for d := anchor; !done(d); d = d.AddDate(0, 0, 1) {
		if !wanted[isoWeekday(d)] {
			continue
		}
		// Only weeks that are a whole number of intervals past the
		// anchor's week carry occurrences.
		weeks := int(startOfISOWeek(d).Sub(anchorWeek).Hours()) / (24 * 7)
		if weeks%rule.Interval == 0 {
			yield(d)
		}
	}
}

func expandMonthly(rule Rule, anchor time.Time, yield func(time.Time), done func(time.Time) bool) {
	day := rule.DayOfMonth
	if day == 0 {
		day = anchor.Day()
	}
	year, month := anchor.Year(), int(anchor.Month())
	for i := 0; ; i++ {
		// Month stepping is done on year/month integers; AddDate would
		// normalize Jan 31 + 1 month into March and skip February.
		m := month - 1 + i*rule.Interval
		y := year + m/12
		d := clampedDate(y, time.Month(m%12+1), day)
		if d.Before(anchor) {
			continue // anchor month's slot already passed
		}
		if done(d) {
			return
		}
		yield(d)
	}
}

func expandYearly(rule Rule, anchor time.Time, yield func(time.Time), done func(time.Time) bool) {
	for y := anchor.Year(); ; y += rule.Interval {
		d := clampedDate(y, anchor.Month(), anchor.Day())
		if d.Before(anchor) {
			continue
		}
		if done(d) {
			return
		}
		yield(d)
	}
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isoWeekday maps time.Weekday to 1=Mon .. 7=Sun.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func startOfISOWeek(t time.Time) time.Time {
	return DateOnly(t).AddDate(0, 0, 1-isoWeekday(t))
}

// clampedDate returns year/month/day with day clamped to the month's length.
func clampedDate(year int, month time.Month, day int) time.Time {
	last := daysInMonth(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
