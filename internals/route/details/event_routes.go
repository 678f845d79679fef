package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calendarRoute "churchku_backend/internals/features/events/calendar/route"
	categoryRoute "churchku_backend/internals/features/events/event_categories/route"
	eventRoute "churchku_backend/internals/features/events/events/route"
)

// EventAdminRoutes mounts everything behind /api/a (auth + admin role
// already applied by the caller).
func EventAdminRoutes(admin fiber.Router, db *gorm.DB) {
	categoryRoute.EventCategoryAdminRoutes(admin, db)
	eventRoute.EventAdminRoutes(admin, db)
}

// EventPublicRoutes mounts the unauthenticated surface under /api/public.
func EventPublicRoutes(public fiber.Router, db *gorm.DB) {
	eventRoute.EventPublicRoutes(public, db)
	calendarRoute.CalendarPublicRoutes(public, db)
}
