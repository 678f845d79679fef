package recurrence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternYearly  Pattern = "yearly"
)

// Rule is the normalized form of a category's recurrence configuration.
// The HTTP layer stores the raw settings as a JSONB bag; ParseRule is the
// only place that bag is allowed to cross into expansion logic.
type Rule struct {
	Pattern  Pattern
	Interval int

	// Weekdays uses ISO numbering (1=Mon .. 7=Sun). Weekly only; empty
	// means "the anchor's weekday".
	Weekdays []int

	// DayOfMonth 1..31. Monthly only; 0 means "the anchor's day".
	DayOfMonth int

	// EndDate is inclusive: no occurrence may fall after it.
	EndDate *time.Time
}

// InvalidRuleError marks a recurrence configuration the administrator can
// fix from the category form.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s %s", e.Field, e.Reason)
}

// ParseRule validates the pattern string plus the raw recurrence_settings
// bag into a Rule. endDate is the category's recurrence_end_date.
func ParseRule(pattern string, settings map[string]interface{}, endDate *time.Time) (Rule, error) {
	r := Rule{Interval: 1, EndDate: endDate}

	switch Pattern(pattern) {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternYearly:
		r.Pattern = Pattern(pattern)
	case "":
		return Rule{}, &InvalidRuleError{Field: "recurrence_pattern", Reason: "is required for recurring categories"}
	default:
		return Rule{}, &InvalidRuleError{Field: "recurrence_pattern", Reason: "must be one of daily, weekly, monthly, yearly"}
	}

	if v, ok := settings["interval"]; ok {
		n, err := toInt(v)
		if err != nil || n < 1 {
			return Rule{}, &InvalidRuleError{Field: "interval", Reason: "must be a positive integer"}
		}
		r.Interval = n
	}

	if v, ok := settings["weekdays"]; ok && v != nil {
		days, err := toIntSlice(v)
		if err != nil {
			return Rule{}, &InvalidRuleError{Field: "weekdays", Reason: "must be a list of integers"}
		}
		seen := map[int]bool{}
		for _, d := range days {
			if d < 1 || d > 7 {
				return Rule{}, &InvalidRuleError{Field: "weekdays", Reason: "entries must be within 1..7"}
			}
			if !seen[d] {
				seen[d] = true
				r.Weekdays = append(r.Weekdays, d)
			}
		}
	}

	if v, ok := settings["day_of_month"]; ok && v != nil {
		n, err := toInt(v)
		if err != nil || n < 1 || n > 31 {
			return Rule{}, &InvalidRuleError{Field: "day_of_month", Reason: "must be within 1..31"}
		}
		r.DayOfMonth = n
	}

	return r, nil
}

// JSONB values arrive as float64 (encoding/json) but clients occasionally
// send numbers as strings; accept both.
func toInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(t)
	}
	return 0, fmt.Errorf("not an integer: %v", v)
}

func toIntSlice(v interface{}) ([]int, error) {
	switch t := v.(type) {
	case []int:
		return t, nil
	case []interface{}:
		out := make([]int, 0, len(t))
		for _, e := range t {
			n, err := toInt(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list: %v", v)
}
