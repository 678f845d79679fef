package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/event_categories/controller"
)

func EventCategoryAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventCategoryController(db)

	categories := api.Group("/event-categories")
	categories.Post("/", ctrl.CreateEventCategory)
	categories.Get("/", ctrl.GetEventCategories)
	categories.Get("/:id", ctrl.GetEventCategoryByID)
	categories.Patch("/:id", ctrl.UpdateEventCategory)
	categories.Delete("/:id", ctrl.DeleteEventCategory)

	// 🔹 Generation (the dashboard's "Generate Events" actions)
	categories.Post("/:id/generate-events", ctrl.GenerateEvents)
	categories.Post("/:id/generate-one-time-event", ctrl.GenerateOneTimeEvent)
}
