package controller

import (
	"fmt"
	"log"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	eventModel "churchku_backend/internals/features/events/events/model"
	"churchku_backend/internals/features/events/recurrence"
	helper "churchku_backend/internals/helpers"
)

const calendarFeedLimit = 500

type CalendarController struct {
	DB *gorm.DB
}

func NewCalendarController(db *gorm.DB) *CalendarController {
	return &CalendarController{DB: db}
}

// 🟢 GET /api/public/event-categories/:id/calendar.ics
//
// ICS feed of a category's published events so members can subscribe from
// their own calendar app. The category rule is attached as an RRULE on the
// first event as a series hint for clients that want the ongoing pattern.
func (ctrl *CalendarController) GetCategoryCalendar(c *fiber.Ctx) error {
	catID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event category ID")
	}

	var cat categoryModel.EventCategoryModel
	if err := ctrl.DB.
		Where("event_category_id = ? AND event_category_is_active = ?", catID, true).
		First(&cat).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Event category not found")
	}

	var events []eventModel.EventModel
	if err := ctrl.DB.
		Where("event_category_id = ? AND event_status = ?", catID, eventModel.EventStatusPublished).
		Order("event_start_date ASC").
		Limit(calendarFeedLimit).
		Find(&events).Error; err != nil {
		log.Printf("[ERROR] calendar feed query: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build calendar feed")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//churchku//event-calendar//EN")

	var rruleValue string
	if cat.EventCategoryIsRecurring && len(events) > 0 {
		rule, rerr := recurrence.ParseRule(
			cat.EventCategoryRecurrencePattern,
			cat.EventCategoryRecurrenceSettings,
			cat.EventCategoryRecurrenceEndDate,
		)
		if rerr == nil {
			if s, serr := recurrence.RRuleString(rule, events[0].EventOccurrenceDate); serr == nil {
				rruleValue = s
			}
		}
	}

	for i, ev := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@churchku", ev.EventID))
		ve.SetDtStampTime(ev.EventCreatedAt)
		ve.SetStartAt(ev.EventStartDate)
		if ev.EventEndDate != nil {
			ve.SetEndAt(*ev.EventEndDate)
		}
		ve.SetSummary(ev.EventTitle)
		if ev.EventLocation != "" {
			ve.SetLocation(ev.EventLocation)
		}
		if ev.EventDescription != "" {
			ve.SetDescription(ev.EventDescription)
		}
		if i == 0 && rruleValue != "" {
			ve.AddRrule(rruleValue)
		}
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+cat.EventCategorySlug+`.ics"`)
	return c.SendString(cal.Serialize())
}
