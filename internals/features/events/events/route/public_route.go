package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/events/controller"
)

func EventPublicRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)
	api.Get("/events", ctrl.GetUpcomingEvents)
}
