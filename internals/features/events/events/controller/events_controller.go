package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/events/dto"
	"churchku_backend/internals/features/events/events/model"
	helper "churchku_backend/internals/helpers"
)

type EventController struct {
	DB *gorm.DB
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db}
}

// 🟢 GET /api/a/event-categories/:id/events?status=&search=&page=&per_page=
//
// The consumer side of generation: the dashboard lists what a category's
// rule has materialized so far.
func (ctrl *EventController) GetEventsByCategory(c *fiber.Ctx) error {
	catID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event category ID")
	}

	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 15, 100)

	q := ctrl.DB.Model(&model.EventModel{}).
		Where("event_category_id = ? AND event_church_id = ?", catID, churchID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("event_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(event_title) LIKE ? OR LOWER(event_location) LIKE ?", needle, needle)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count events by category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.
		Order("event_occurrence_date ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		log.Printf("[ERROR] list events by category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	return helper.JsonList(c, "Events fetched",
		dto.ToEventResponseList(events), helper.BuildPagination(total, paging))
}

// 🟢 GET /api/a/events/:id
func (ctrl *EventController) GetEventByID(c *fiber.Ctx) error {
	ev, err := ctrl.findOwnedEvent(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Event found", dto.ToEventResponse(ev))
}

// 🟡 PATCH /api/a/events/:id  (manual edits to a single generated event)
func (ctrl *EventController) UpdateEvent(c *fiber.Ctx) error {
	ev, err := ctrl.findOwnedEvent(c)
	if err != nil {
		return err
	}

	var req dto.EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fieldErrors := helper.ValidateStruct(&req); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	updates := map[string]interface{}{}
	if req.EventTitle != nil {
		updates["event_title"] = *req.EventTitle
	}
	if req.EventDescription != nil {
		updates["event_description"] = *req.EventDescription
	}
	if req.EventLocation != nil {
		updates["event_location"] = *req.EventLocation
	}
	if req.EventStatus != nil {
		updates["event_status"] = *req.EventStatus
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No fields to update")
	}

	if err := ctrl.DB.Model(ev).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update event: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event")
	}
	if err := ctrl.DB.Where("event_id = ?", ev.EventID).First(ev).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload event")
	}
	return helper.JsonUpdated(c, "Event updated", dto.ToEventResponse(ev))
}

// 🔴 DELETE /api/a/events/:id
//
// Soft delete. The occurrence date stays occupied in the unique index, so
// regeneration will not resurrect a removed instance.
func (ctrl *EventController) DeleteEvent(c *fiber.Ctx) error {
	ev, err := ctrl.findOwnedEvent(c)
	if err != nil {
		return err
	}
	if err := ctrl.DB.Delete(ev).Error; err != nil {
		log.Printf("[ERROR] delete event: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}
	return helper.JsonDeleted(c, "Event deleted", nil)
}

// 🟢 GET /api/public/events?church_id=&page=&per_page=
//
// Published upcoming events for the public site.
func (ctrl *EventController) GetUpcomingEvents(c *fiber.Ctx) error {
	churchID, err := uuid.Parse(strings.TrimSpace(c.Query("church_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid church_id")
	}

	paging := helper.ResolvePaging(c, 15, 50)

	q := ctrl.DB.Model(&model.EventModel{}).
		Where("event_church_id = ? AND event_status = ? AND event_start_date >= ?",
			churchID, model.EventStatusPublished, time.Now().UTC())

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.
		Order("event_start_date ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	return helper.JsonList(c, "Upcoming events fetched",
		dto.ToEventResponseList(events), helper.BuildPagination(total, paging))
}

func (ctrl *EventController) findOwnedEvent(c *fiber.Ctx) (*model.EventModel, error) {
	evID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event ID")
	}

	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return nil, err
	}

	var ev model.EventModel
	if err := ctrl.DB.
		Where("event_id = ? AND event_church_id = ?", evID, churchID).
		First(&ev).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Event not found")
	}
	return &ev, nil
}
