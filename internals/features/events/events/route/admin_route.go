package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/events/controller"
)

func EventAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)

	// listing lives under the owning category
	api.Get("/event-categories/:id/events", ctrl.GetEventsByCategory)

	events := api.Group("/events")
	events.Get("/:id", ctrl.GetEventByID)
	events.Patch("/:id", ctrl.UpdateEvent)
	events.Delete("/:id", ctrl.DeleteEvent)
}
