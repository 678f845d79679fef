package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"churchku_backend/internals/features/events/event_categories/dto"
	"churchku_backend/internals/features/events/event_categories/model"
	"churchku_backend/internals/features/events/event_categories/service"
	eventDto "churchku_backend/internals/features/events/events/dto"
	"churchku_backend/internals/features/events/recurrence"
	helper "churchku_backend/internals/helpers"
)

type EventCategoryController struct {
	DB        *gorm.DB
	Generator *service.GenerationService
}

func NewEventCategoryController(db *gorm.DB) *EventCategoryController {
	return &EventCategoryController{
		DB:        db,
		Generator: service.NewGenerationService(db),
	}
}

// findOwnedCategory loads a category scoped to the admin's church.
func (ctrl *EventCategoryController) findOwnedCategory(c *fiber.Ctx) (*model.EventCategoryModel, error) {
	idStr := strings.TrimSpace(c.Params("id"))
	catID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event category ID")
	}

	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return nil, err
	}

	var cat model.EventCategoryModel
	if err := ctrl.DB.
		Where("event_category_id = ? AND event_category_church_id = ?", catID, churchID).
		First(&cat).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Event category not found")
	}
	return &cat, nil
}

// 🟢 POST /api/a/event-categories
func (ctrl *EventCategoryController) CreateEventCategory(c *fiber.Ctx) error {
	var req dto.EventCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[ERROR] body parse failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fieldErrors := helper.ValidateStruct(&req); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	// Recurring categories must carry a parseable rule up front so the
	// first "Generate Events" click cannot fail on configuration.
	if req.EventCategoryIsRecurring {
		if _, err := recurrence.ParseRule(
			req.EventCategoryRecurrencePattern,
			req.EventCategoryRecurrenceSettings,
			dto.ParseDate(req.EventCategoryRecurrenceEndDate),
		); err != nil {
			return ruleError(c, err)
		}
	}

	cat := req.ToModel(churchID)
	if err := ctrl.DB.Create(cat).Error; err != nil {
		log.Printf("[ERROR] create event category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save event category")
	}
	return helper.JsonCreated(c, "Event category created", dto.ToEventCategoryResponse(cat))
}

// 🟢 GET /api/a/event-categories?search=&is_active=&page=&per_page=
func (ctrl *EventCategoryController) GetEventCategories(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.EventCategoryModel{}).
		Where("event_category_church_id = ?", churchID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("LOWER(event_category_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if active := c.Query("is_active"); active != "" {
		q = q.Where("event_category_is_active = ?", strings.EqualFold(active, "true"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count event categories: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count event categories")
	}

	var cats []model.EventCategoryModel
	if err := q.
		Order("event_category_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&cats).Error; err != nil {
		log.Printf("[ERROR] list event categories: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch event categories")
	}

	return helper.JsonList(c, "Event categories fetched",
		dto.ToEventCategoryResponseList(cats), helper.BuildPagination(total, paging))
}

// 🟢 GET /api/a/event-categories/:id
func (ctrl *EventCategoryController) GetEventCategoryByID(c *fiber.Ctx) error {
	cat, err := ctrl.findOwnedCategory(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Event category found", dto.ToEventCategoryResponse(cat))
}

// 🟡 PATCH /api/a/event-categories/:id
//
// Editing the recurrence rule never touches already-generated events
// (draft or published); the new rule only steers future generation.
func (ctrl *EventCategoryController) UpdateEventCategory(c *fiber.Ctx) error {
	cat, err := ctrl.findOwnedCategory(c)
	if err != nil {
		return err
	}

	var req dto.EventCategoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fieldErrors := helper.ValidateStruct(&req); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	updates := map[string]interface{}{}

	if req.EventCategoryName != nil {
		updates["event_category_name"] = *req.EventCategoryName
		updates["event_category_slug"] = helper.GenerateSlug(*req.EventCategoryName)
	}
	if req.EventCategoryColor != nil {
		updates["event_category_color"] = *req.EventCategoryColor
	}
	if req.EventCategoryIcon != nil {
		updates["event_category_icon"] = *req.EventCategoryIcon
	}
	if req.EventCategoryDescription != nil {
		updates["event_category_description"] = *req.EventCategoryDescription
	}
	if req.EventCategoryIsActive != nil {
		updates["event_category_is_active"] = *req.EventCategoryIsActive
	}
	if req.EventCategoryIsRecurring != nil {
		updates["event_category_is_recurring"] = *req.EventCategoryIsRecurring
	}
	if req.EventCategoryRecurrencePattern != nil {
		updates["event_category_recurrence_pattern"] = *req.EventCategoryRecurrencePattern
	}
	if req.EventCategoryRecurrenceSettings != nil {
		updates["event_category_recurrence_settings"] = datatypes.JSONMap(req.EventCategoryRecurrenceSettings)
	}
	if req.EventCategoryRecurrenceEndDate != nil {
		updates["event_category_recurrence_end_date"] = dto.ParseDate(*req.EventCategoryRecurrenceEndDate)
	}
	if req.EventCategoryDefaultStartTime != nil {
		updates["event_category_default_start_time"] = *req.EventCategoryDefaultStartTime
	}
	if req.EventCategoryDefaultDuration != nil {
		updates["event_category_default_duration"] = *req.EventCategoryDefaultDuration
	}
	if req.EventCategoryDefaultLocation != nil {
		updates["event_category_default_location"] = *req.EventCategoryDefaultLocation
	}
	if req.EventCategoryDefaultDescription != nil {
		updates["event_category_default_description"] = *req.EventCategoryDefaultDescription
	}
	if req.EventCategoryAttendanceType != nil {
		updates["event_category_attendance_type"] = *req.EventCategoryAttendanceType
	}

	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No fields to update")
	}

	// Validate the merged rule before writing anything: a half-edited
	// recurring category must never be persisted in an unusable state.
	merged := *cat
	if req.EventCategoryIsRecurring != nil {
		merged.EventCategoryIsRecurring = *req.EventCategoryIsRecurring
	}
	if req.EventCategoryRecurrencePattern != nil {
		merged.EventCategoryRecurrencePattern = *req.EventCategoryRecurrencePattern
	}
	if req.EventCategoryRecurrenceSettings != nil {
		merged.EventCategoryRecurrenceSettings = datatypes.JSONMap(req.EventCategoryRecurrenceSettings)
	}
	if req.EventCategoryRecurrenceEndDate != nil {
		merged.EventCategoryRecurrenceEndDate = dto.ParseDate(*req.EventCategoryRecurrenceEndDate)
	}
	if merged.EventCategoryIsRecurring {
		if _, err := recurrence.ParseRule(
			merged.EventCategoryRecurrencePattern,
			merged.EventCategoryRecurrenceSettings,
			merged.EventCategoryRecurrenceEndDate,
		); err != nil {
			return ruleError(c, err)
		}
	}

	if err := ctrl.DB.Model(cat).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update event category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event category")
	}

	if err := ctrl.DB.Where("event_category_id = ?", cat.EventCategoryID).First(cat).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload event category")
	}

	return helper.JsonUpdated(c, "Event category updated", dto.ToEventCategoryResponse(cat))
}

// 🔴 DELETE /api/a/event-categories/:id  (soft delete; generated events stay)
func (ctrl *EventCategoryController) DeleteEventCategory(c *fiber.Ctx) error {
	cat, err := ctrl.findOwnedCategory(c)
	if err != nil {
		return err
	}
	if err := ctrl.DB.Delete(cat).Error; err != nil {
		log.Printf("[ERROR] delete event category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event category")
	}
	return helper.JsonDeleted(c, "Event category deleted", nil)
}

// 🟢 POST /api/a/event-categories/:id/generate-events
func (ctrl *EventCategoryController) GenerateEvents(c *fiber.Ctx) error {
	cat, err := ctrl.findOwnedCategory(c)
	if err != nil {
		return err
	}

	var req dto.GenerateEventsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if fieldErrors := helper.ValidateStruct(&req); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	opts := service.GenerateOptions{
		Count:       req.Count,
		AutoPublish: req.AutoPublish,
	}
	if req.FromDate != "" {
		opts.FromDate = dto.ParseDate(req.FromDate)
	}

	res, err := ctrl.Generator.GenerateEvents(c.UserContext(), cat, opts)
	if err != nil {
		return generationError(c, err)
	}

	log.Printf("[GENERATE] category=%s generated=%d", cat.EventCategoryID, res.GeneratedCount)
	return helper.JsonOK(c, "Events generated", fiber.Map{
		"generated_count": res.GeneratedCount,
		"category":        dto.ToEventCategoryResponse(cat),
		"events":          eventDto.ToEventResponseList(res.Events),
	})
}

// 🟢 POST /api/a/event-categories/:id/generate-one-time-event
func (ctrl *EventCategoryController) GenerateOneTimeEvent(c *fiber.Ctx) error {
	cat, err := ctrl.findOwnedCategory(c)
	if err != nil {
		return err
	}

	var req dto.GenerateOneTimeEventRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := ctrl.Generator.GenerateOneTimeEvent(c.UserContext(), cat, req.AutoPublish)
	if err != nil {
		return generationError(c, err)
	}

	log.Printf("[GENERATE] category=%s one-time generated=%d", cat.EventCategoryID, res.GeneratedCount)
	return helper.JsonOK(c, "One-time event generated", dto.ToEventCategoryResponse(cat))
}

// ruleError maps rule validation failures onto the 422 field-error shape
// the category form renders inline.
func ruleError(c *fiber.Ctx, err error) error {
	var ire *recurrence.InvalidRuleError
	if errors.As(err, &ire) {
		return helper.JsonValidationError(c, map[string][]string{
			ire.Field: {ire.Reason},
		})
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to validate recurrence rule")
}

func generationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotRecurring):
		return helper.JsonError(c, fiber.StatusConflict, "Event category is not recurring")
	case errors.Is(err, recurrence.ErrUnboundedExpansion):
		log.Printf("[ERROR] unbounded expansion reached the orchestrator: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Event generation failed")
	}
	var ire *recurrence.InvalidRuleError
	if errors.As(err, &ire) {
		return ruleError(c, err)
	}
	log.Printf("[ERROR] generate events: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Event generation failed")
}
