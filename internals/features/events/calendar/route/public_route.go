package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/calendar/controller"
)

func CalendarPublicRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCalendarController(db)
	api.Get("/event-categories/:id/calendar.ics", ctrl.GetCategoryCalendar)
}
