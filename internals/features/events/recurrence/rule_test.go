package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	t.Run("full weekly settings", func(t *testing.T) {
		// JSONB round-trips numbers as float64.
		r, err := ParseRule("weekly", map[string]interface{}{
			"interval": float64(2),
			"weekdays": []interface{}{float64(1), float64(3), float64(3)},
		}, &end)
		require.NoError(t, err)
		assert.Equal(t, PatternWeekly, r.Pattern)
		assert.Equal(t, 2, r.Interval)
		assert.Equal(t, []int{1, 3}, r.Weekdays, "duplicates collapse")
		require.NotNil(t, r.EndDate)
		assert.True(t, r.EndDate.Equal(end))
	})

	t.Run("defaults", func(t *testing.T) {
		r, err := ParseRule("daily", map[string]interface{}{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Interval)
		assert.Empty(t, r.Weekdays)
		assert.Zero(t, r.DayOfMonth)
	})

	t.Run("string numbers accepted", func(t *testing.T) {
		r, err := ParseRule("monthly", map[string]interface{}{
			"interval":     "3",
			"day_of_month": "15",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Interval)
		assert.Equal(t, 15, r.DayOfMonth)
	})

	invalid := []struct {
		name     string
		pattern  string
		settings map[string]interface{}
		field    string
	}{
		{"missing pattern", "", nil, "recurrence_pattern"},
		{"unknown pattern", "fortnightly", nil, "recurrence_pattern"},
		{"zero interval", "daily", map[string]interface{}{"interval": float64(0)}, "interval"},
		{"negative interval", "daily", map[string]interface{}{"interval": float64(-2)}, "interval"},
		{"weekday out of range", "weekly", map[string]interface{}{"weekdays": []interface{}{float64(8)}}, "weekdays"},
		{"weekday zero", "weekly", map[string]interface{}{"weekdays": []interface{}{float64(0)}}, "weekdays"},
		{"weekdays not a list", "weekly", map[string]interface{}{"weekdays": "monday"}, "weekdays"},
		{"day_of_month too large", "monthly", map[string]interface{}{"day_of_month": float64(32)}, "day_of_month"},
		{"day_of_month zero", "monthly", map[string]interface{}{"day_of_month": float64(0)}, "day_of_month"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.pattern, tt.settings, nil)
			var ire *InvalidRuleError
			require.ErrorAs(t, err, &ire)
			assert.Equal(t, tt.field, ire.Field)
		})
	}
}

func TestRRuleString(t *testing.T) {
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	s, err := RRuleString(Rule{Pattern: PatternWeekly, Interval: 2, Weekdays: []int{1, 3}}, anchor)
	require.NoError(t, err)
	assert.Contains(t, s, "FREQ=WEEKLY")
	assert.Contains(t, s, "INTERVAL=2")
	assert.Contains(t, s, "MO")
	assert.Contains(t, s, "WE")

	s, err = RRuleString(Rule{Pattern: PatternMonthly, Interval: 1, DayOfMonth: 31}, anchor)
	require.NoError(t, err)
	assert.Contains(t, s, "FREQ=MONTHLY")
	assert.Contains(t, s, "BYMONTHDAY=31")
}
