package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	eventModel "churchku_backend/internals/features/events/events/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func TestStartEventGenerationScheduler(t *testing.T) {
	t.Run("disabled via env", func(t *testing.T) {
		t.Setenv("EVENT_GENERATION_CRON_DISABLED", "true")
		assert.Nil(t, StartEventGenerationScheduler(newTestDB(t)))
	})

	t.Run("invalid cron spec", func(t *testing.T) {
		t.Setenv("EVENT_GENERATION_CRON", "not a cron spec")
		assert.Nil(t, StartEventGenerationScheduler(newTestDB(t)))
	})

	t.Run("starts with one job", func(t *testing.T) {
		c := StartEventGenerationScheduler(newTestDB(t))
		require.NotNil(t, c)
		defer c.Stop()
		assert.Len(t, c.Entries(), 1)
	})
}

func TestTopUpSkipsMisconfiguredCategories(t *testing.T) {
	db := newTestDB(t)

	broken := &categoryModel.EventCategoryModel{
		EventCategoryName:               "Broken",
		EventCategorySlug:               "broken",
		EventCategoryIsActive:           true,
		EventCategoryIsRecurring:        true,
		EventCategoryRecurrencePattern:  "weekly",
		EventCategoryRecurrenceSettings: map[string]interface{}{"interval": float64(0)},
	}
	healthy := &categoryModel.EventCategoryModel{
		EventCategoryName:              "Daily Prayer",
		EventCategorySlug:              "daily-prayer",
		EventCategoryIsActive:          true,
		EventCategoryIsRecurring:       true,
		EventCategoryRecurrencePattern: "daily",
		EventCategoryRecurrenceSettings: map[string]interface{}{
			"interval": float64(1),
		},
		EventCategoryDefaultStartTime: "06:00",
	}
	require.NoError(t, db.Create(broken).Error)
	require.NoError(t, db.Create(healthy).Error)

	t.Setenv("EVENT_GENERATION_DEFAULT_COUNT", "4")
	topUpRecurringCategories(db)

	// the broken rule is logged and skipped; the healthy one still fills up
	var total int64
	require.NoError(t, db.Model(&eventModel.EventModel{}).
		Where("event_category_id = ?", healthy.EventCategoryID).
		Count(&total).Error)
	assert.EqualValues(t, 4, total)

	require.NoError(t, db.Model(&eventModel.EventModel{}).
		Where("event_category_id = ?", broken.EventCategoryID).
		Count(&total).Error)
	assert.Zero(t, total)
}
