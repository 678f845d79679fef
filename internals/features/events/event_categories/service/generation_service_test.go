package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	eventModel "churchku_backend/internals/features/events/events/model"
	"churchku_backend/internals/features/events/recurrence"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// named shared-cache DB so every pooled connection sees the same schema
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&categoryModel.EventCategoryModel{},
		&eventModel.EventModel{},
	))
	return db
}

func newTestService(t *testing.T) *GenerationService {
	svc := NewGenerationService(newTestDB(t))
	// frozen clock: Monday 2024-01-01
	svc.Now = func() time.Time {
		return time.Date(2024, time.January, 1, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func weeklyCategory(t *testing.T, db *gorm.DB) *categoryModel.EventCategoryModel {
	t.Helper()
	cat := &categoryModel.EventCategoryModel{
		EventCategoryName:        "Sunday Service",
		EventCategorySlug:        "sunday-service",
		EventCategoryIsActive:    true,
		EventCategoryIsRecurring: true,

		EventCategoryRecurrencePattern: "weekly",
		EventCategoryRecurrenceSettings: map[string]interface{}{
			"interval": float64(1),
			"weekdays": []interface{}{float64(7)}, // Sunday
		},

		EventCategoryDefaultStartTime:   "09:30",
		EventCategoryDefaultDuration:    90,
		EventCategoryDefaultLocation:    "Main Hall",
		EventCategoryDefaultDescription: "Weekly worship service",
		EventCategoryAttendanceType:     categoryModel.AttendanceGeneral,
	}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func TestGenerateEventsMaterializesDefaults(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	res, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 3})
	require.NoError(t, err)
	require.Equal(t, 3, res.GeneratedCount)
	require.Len(t, res.Events, 3)

	first := res.Events[0]
	assert.Equal(t, "Sunday Service", first.EventTitle)
	assert.Equal(t, "Main Hall", first.EventLocation)
	assert.Equal(t, "Weekly worship service", first.EventDescription)
	assert.Equal(t, eventModel.EventStatusDraft, first.EventStatus)

	// Anchor is Monday Jan 1; first Sunday is Jan 7, at the default time.
	assert.Equal(t, time.Date(2024, time.January, 7, 9, 30, 0, 0, time.UTC), first.EventStartDate.UTC())
	require.NotNil(t, first.EventEndDate)
	assert.Equal(t, time.Date(2024, time.January, 7, 11, 0, 0, 0, time.UTC), first.EventEndDate.UTC())

	// Sundays a week apart.
	var stored []eventModel.EventModel
	require.NoError(t, svc.DB.Order("event_occurrence_date ASC").Find(&stored).Error)
	require.Len(t, stored, 3)
	for i := 1; i < len(stored); i++ {
		assert.Equal(t, 7*24*time.Hour,
			stored[i].EventOccurrenceDate.Sub(stored[i-1].EventOccurrenceDate))
	}
}

func TestGenerateEventsIdempotentForSameWindow(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	res1, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{FromDate: &from, Count: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, res1.GeneratedCount)

	// Same explicit window again: every occurrence is a duplicate.
	res2, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{FromDate: &from, Count: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, res2.GeneratedCount)
	assert.Empty(t, res2.Events)

	var total int64
	require.NoError(t, svc.DB.Model(&eventModel.EventModel{}).Count(&total).Error)
	assert.EqualValues(t, 5, total)
}

func TestGenerateEventsAnchorsAfterLastOccurrence(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	res1, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 2, res1.GeneratedCount)

	// Without an explicit from_date the next call continues the series
	// instead of regenerating past dates.
	res2, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 2, res2.GeneratedCount)

	lastOfFirst := res1.Events[len(res1.Events)-1].EventOccurrenceDate
	firstOfSecond := res2.Events[0].EventOccurrenceDate
	assert.True(t, firstOfSecond.After(lastOfFirst))

	var total int64
	require.NoError(t, svc.DB.Model(&eventModel.EventModel{}).Count(&total).Error)
	assert.EqualValues(t, 4, total)
}

func TestGenerateEventsContinuesOnCadence(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)
	cat.EventCategoryRecurrencePattern = "daily"
	cat.EventCategoryRecurrenceSettings = map[string]interface{}{"interval": float64(2)}
	require.NoError(t, svc.DB.Save(cat).Error)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	res1, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{FromDate: &from, Count: 3})
	require.NoError(t, err)
	require.Equal(t, 3, res1.GeneratedCount)

	// Continuation anchors at the last occurrence (Jan 5), so an
	// every-other-day rule stays on Jan 7/9 instead of re-phasing to Jan 6/8.
	res2, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 2, res2.GeneratedCount)

	var stored []eventModel.EventModel
	require.NoError(t, svc.DB.Order("event_occurrence_date ASC").Find(&stored).Error)
	var got []string
	for _, ev := range stored {
		got = append(got, ev.EventOccurrenceDate.UTC().Format("2006-01-02"))
	}
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-07", "2024-01-09",
	}, got)
}

func TestGenerateEventsWeeklyContinuationKeepsWeekParity(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)
	cat.EventCategoryRecurrenceSettings = map[string]interface{}{
		"interval": float64(2),
		"weekdays": []interface{}{float64(7)}, // every other Sunday
	}
	require.NoError(t, svc.DB.Save(cat).Error)

	res1, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 2, res1.GeneratedCount)
	// anchor Monday Jan 1: Sundays Jan 7 and Jan 21

	res2, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2})
	require.NoError(t, err)
	require.Equal(t, 2, res2.GeneratedCount)

	assert.Equal(t, time.Date(2024, time.February, 4, 0, 0, 0, 0, time.UTC),
		recurrence.DateOnly(res2.Events[0].EventOccurrenceDate))
	assert.Equal(t, time.Date(2024, time.February, 18, 0, 0, 0, 0, time.UTC),
		recurrence.DateOnly(res2.Events[1].EventOccurrenceDate))
}

func TestGenerateEventsSkipsPreexistingDates(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	// Jan 14 already has a manually created event.
	occupied := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.DB.Create(&eventModel.EventModel{
		EventCategoryID:     cat.EventCategoryID,
		EventChurchID:       cat.EventCategoryChurchID,
		EventTitle:          "Special Sunday",
		EventStartDate:      occupied.Add(8 * time.Hour),
		EventOccurrenceDate: occupied,
		EventStatus:         eventModel.EventStatusPublished,
	}).Error)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	res, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{FromDate: &from, Count: 3})
	require.NoError(t, err)

	// Jan 7, 14, 21 expanded; Jan 14 is a silent skip.
	assert.Equal(t, 2, res.GeneratedCount)
	require.Len(t, res.Events, 2)
	for _, ev := range res.Events {
		assert.NotEqual(t, occupied, ev.EventOccurrenceDate.UTC())
		assert.Equal(t, "Sunday Service", ev.EventTitle)
	}

	// The manual event was not touched.
	var manual eventModel.EventModel
	require.NoError(t, svc.DB.Where("event_occurrence_date = ?", occupied).First(&manual).Error)
	assert.Equal(t, "Special Sunday", manual.EventTitle)
}

func TestGenerateEventsAutoPublish(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	res, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 2, AutoPublish: true})
	require.NoError(t, err)
	for _, ev := range res.Events {
		assert.Equal(t, eventModel.EventStatusPublished, ev.EventStatus)
	}
}

func TestGenerateEventsHonorsRecurrenceEndDate(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)

	end := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	cat.EventCategoryRecurrenceEndDate = &end
	require.NoError(t, svc.DB.Save(cat).Error)

	res, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 10})
	require.NoError(t, err)

	// Only Jan 7 and Jan 14 fit before the end date.
	assert.Equal(t, 2, res.GeneratedCount)
}

func TestGenerateEventsRejectsNonRecurring(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)
	cat.EventCategoryIsRecurring = false
	require.NoError(t, svc.DB.Save(cat).Error)

	_, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 5})
	assert.ErrorIs(t, err, ErrNotRecurring)

	var total int64
	require.NoError(t, svc.DB.Model(&eventModel.EventModel{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestGenerateEventsRejectsInvalidRule(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)
	cat.EventCategoryRecurrenceSettings = map[string]interface{}{"interval": float64(0)}
	require.NoError(t, svc.DB.Save(cat).Error)

	_, err := svc.GenerateEvents(context.Background(), cat, GenerateOptions{Count: 5})
	var ire *recurrence.InvalidRuleError
	require.ErrorAs(t, err, &ire)

	// Fail closed: nothing persisted.
	var total int64
	require.NoError(t, svc.DB.Model(&eventModel.EventModel{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestGenerateOneTimeEvent(t *testing.T) {
	svc := newTestService(t)
	cat := weeklyCategory(t, svc.DB)
	cat.EventCategoryIsRecurring = false
	require.NoError(t, svc.DB.Save(cat).Error)

	res, err := svc.GenerateOneTimeEvent(context.Background(), cat, true)
	require.NoError(t, err)
	require.Equal(t, 1, res.GeneratedCount)
	require.Len(t, res.Events, 1)

	ev := res.Events[0]
	assert.Equal(t, eventModel.EventStatusPublished, ev.EventStatus)
	assert.Equal(t, time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC), ev.EventStartDate.UTC())

	// A second trigger lands on the next free anchor, not the same date.
	res2, err := svc.GenerateOneTimeEvent(context.Background(), cat, false)
	require.NoError(t, err)
	require.Equal(t, 1, res2.GeneratedCount)
	assert.True(t, res2.Events[0].EventOccurrenceDate.After(ev.EventOccurrenceDate))
}

func TestMaterializeWithoutDuration(t *testing.T) {
	cat := &categoryModel.EventCategoryModel{
		EventCategoryName:             "Prayer Meeting",
		EventCategoryDefaultStartTime: "19:00",
	}
	occ := recurrence.Occurrence{
		Date:          time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		SequenceIndex: 2,
	}

	ev := Materialize(cat, occ, false)
	assert.Equal(t, time.Date(2024, time.March, 6, 19, 0, 0, 0, time.UTC), ev.EventStartDate)
	assert.Nil(t, ev.EventEndDate, "no duration means open-ended event")
	assert.Equal(t, 2, ev.EventSequence)
	assert.Equal(t, eventModel.EventStatusDraft, ev.EventStatus)
}

func TestMaterializeBlankStartTimeFallsBackToMidnight(t *testing.T) {
	cat := &categoryModel.EventCategoryModel{EventCategoryName: "All Day"}
	occ := recurrence.Occurrence{Date: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)}

	ev := Materialize(cat, occ, false)
	assert.Equal(t, occ.Date, ev.EventStartDate)
}
