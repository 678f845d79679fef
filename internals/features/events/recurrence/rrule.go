package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"
)

var isoToRRuleWeekday = map[int]rrule.Weekday{
	1: rrule.MO, 2: rrule.TU, 3: rrule.WE, 4: rrule.TH,
	5: rrule.FR, 6: rrule.SA, 7: rrule.SU,
}

// RRuleString renders the rule as an RFC 5545 RRULE value for calendar
// clients subscribing to the ICS feed. It is an interop hint only: RFC 5545
// skips a monthly BYMONTHDAY that a short month lacks, while Expand clamps
// it to the month's last day, so exported series may diverge from the
// persisted events around month ends.
func RRuleString(rule Rule, anchor time.Time) (string, error) {
	opt := rrule.ROption{
		Interval: rule.Interval,
		Dtstart:  DateOnly(anchor),
	}

	switch rule.Pattern {
	case PatternDaily:
		opt.Freq = rrule.DAILY
	case PatternWeekly:
		opt.Freq = rrule.WEEKLY
		for _, wd := range rule.Weekdays {
			opt.Byweekday = append(opt.Byweekday, isoToRRuleWeekday[wd])
		}
	case PatternMonthly:
		opt.Freq = rrule.MONTHLY
		if rule.DayOfMonth > 0 {
			opt.Bymonthday = []int{rule.DayOfMonth}
		}
	case PatternYearly:
		opt.Freq = rrule.YEARLY
	default:
		return "", &InvalidRuleError{Field: "recurrence_pattern", Reason: "has no RRULE mapping"}
	}

	if rule.EndDate != nil {
		opt.Until = DateOnly(*rule.EndDate)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", err
	}
	// RRuleString renders only the rule part; String() would prepend a
	// DTSTART line, which has its own ICS property.
	return r.OrigOptions.RRuleString(), nil
}
