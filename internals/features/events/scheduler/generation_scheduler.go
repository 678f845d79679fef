package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"churchku_backend/internals/configs"
	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	"churchku_backend/internals/features/events/event_categories/service"
)

// StartEventGenerationScheduler tops up every active recurring category on
// a cron schedule (default: nightly at 02:00). Generation is idempotent, so
// overlapping with a manual "Generate Events" click is harmless.
func StartEventGenerationScheduler(db *gorm.DB) *cron.Cron {
	if configs.GetEnv("EVENT_GENERATION_CRON_DISABLED") == "true" {
		log.Println("[SCHEDULER] event generation cron disabled via env")
		return nil
	}

	spec := configs.GetEnv("EVENT_GENERATION_CRON", "0 2 * * *")

	// a panicking job must not take the server down with it
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { topUpRecurringCategories(db) }); err != nil {
		log.Printf("[SCHEDULER] invalid cron spec %q: %v", spec, err)
		return nil
	}
	c.Start()
	log.Printf("[SCHEDULER] event generation cron started (%s)", spec)
	return c
}

func topUpRecurringCategories(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cats []categoryModel.EventCategoryModel
	if err := db.WithContext(ctx).
		Where("event_category_is_active = ? AND event_category_is_recurring = ?", true, true).
		Find(&cats).Error; err != nil {
		log.Printf("[SCHEDULER ERROR] load recurring categories: %v", err)
		return
	}

	gen := service.NewGenerationService(db)
	totalGenerated := 0
	for i := range cats {
		res, err := gen.GenerateEvents(ctx, &cats[i], service.GenerateOptions{})
		if err != nil {
			// a misconfigured rule should not stop the other categories
			log.Printf("[SCHEDULER ERROR] category=%s: %v", cats[i].EventCategoryID, err)
			continue
		}
		totalGenerated += res.GeneratedCount
	}
	log.Printf("[SCHEDULER] top-up complete: %d categories, %d events generated", len(cats), totalGenerated)
}
