package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"churchku_backend/internals/features/events/event_categories/model"
	helper "churchku_backend/internals/helpers"
)

// 🔹 Create request
type EventCategoryRequest struct {
	EventCategoryName        string `json:"event_category_name" validate:"required,max=255"`
	EventCategoryColor       string `json:"event_category_color" validate:"omitempty,max=20"`
	EventCategoryIcon        string `json:"event_category_icon" validate:"omitempty,max=50"`
	EventCategoryDescription string `json:"event_category_description"`

	EventCategoryIsActive    *bool `json:"event_category_is_active"`
	EventCategoryIsRecurring bool  `json:"event_category_is_recurring"`

	EventCategoryRecurrencePattern  string                 `json:"event_category_recurrence_pattern" validate:"omitempty,oneof=daily weekly monthly yearly"`
	EventCategoryRecurrenceSettings map[string]interface{} `json:"event_category_recurrence_settings"`
	EventCategoryRecurrenceEndDate  string                 `json:"event_category_recurrence_end_date" validate:"omitempty,datetime=2006-01-02"`

	EventCategoryDefaultStartTime   string `json:"event_category_default_start_time" validate:"omitempty,datetime=15:04"`
	EventCategoryDefaultDuration    int    `json:"event_category_default_duration" validate:"omitempty,min=0"`
	EventCategoryDefaultLocation    string `json:"event_category_default_location" validate:"omitempty,max=255"`
	EventCategoryDefaultDescription string `json:"event_category_default_description"`

	EventCategoryAttendanceType string `json:"event_category_attendance_type" validate:"omitempty,oneof=individual general none"`
}

// 🔹 Partial update request
type EventCategoryUpdateRequest struct {
	EventCategoryName        *string `json:"event_category_name" validate:"omitempty,max=255"`
	EventCategoryColor       *string `json:"event_category_color" validate:"omitempty,max=20"`
	EventCategoryIcon        *string `json:"event_category_icon" validate:"omitempty,max=50"`
	EventCategoryDescription *string `json:"event_category_description"`

	EventCategoryIsActive    *bool `json:"event_category_is_active"`
	EventCategoryIsRecurring *bool `json:"event_category_is_recurring"`

	EventCategoryRecurrencePattern  *string                `json:"event_category_recurrence_pattern" validate:"omitempty,oneof=daily weekly monthly yearly"`
	EventCategoryRecurrenceSettings map[string]interface{} `json:"event_category_recurrence_settings"`
	EventCategoryRecurrenceEndDate  *string                `json:"event_category_recurrence_end_date" validate:"omitempty,datetime=2006-01-02"`

	EventCategoryDefaultStartTime   *string `json:"event_category_default_start_time" validate:"omitempty,datetime=15:04"`
	EventCategoryDefaultDuration    *int    `json:"event_category_default_duration" validate:"omitempty,min=0"`
	EventCategoryDefaultLocation    *string `json:"event_category_default_location" validate:"omitempty,max=255"`
	EventCategoryDefaultDescription *string `json:"event_category_default_description"`

	EventCategoryAttendanceType *string `json:"event_category_attendance_type" validate:"omitempty,oneof=individual general none"`
}

// 🔹 Generate requests (observed frontend contract)
type GenerateEventsRequest struct {
	FromDate    string `json:"from_date" validate:"omitempty,datetime=2006-01-02"`
	Count       int    `json:"count" validate:"omitempty,min=1,max=500"`
	AutoPublish bool   `json:"auto_publish"`
}

type GenerateOneTimeEventRequest struct {
	AutoPublish bool `json:"auto_publish"`
}

// 🔹 Response
type EventCategoryResponse struct {
	EventCategoryID       uuid.UUID `json:"event_category_id"`
	EventCategoryChurchID uuid.UUID `json:"event_category_church_id"`

	EventCategoryName        string `json:"event_category_name"`
	EventCategorySlug        string `json:"event_category_slug"`
	EventCategoryColor       string `json:"event_category_color"`
	EventCategoryIcon        string `json:"event_category_icon"`
	EventCategoryDescription string `json:"event_category_description"`

	EventCategoryIsActive    bool `json:"event_category_is_active"`
	EventCategoryIsRecurring bool `json:"event_category_is_recurring"`

	EventCategoryRecurrencePattern  string                 `json:"event_category_recurrence_pattern"`
	EventCategoryRecurrenceSettings map[string]interface{} `json:"event_category_recurrence_settings"`
	EventCategoryRecurrenceEndDate  string                 `json:"event_category_recurrence_end_date,omitempty"`

	EventCategoryDefaultStartTime   string `json:"event_category_default_start_time"`
	EventCategoryDefaultDuration    int    `json:"event_category_default_duration"`
	EventCategoryDefaultLocation    string `json:"event_category_default_location"`
	EventCategoryDefaultDescription string `json:"event_category_default_description"`

	EventCategoryAttendanceType string `json:"event_category_attendance_type"`
	EventCategoryCreatedAt      string `json:"event_category_created_at"`
}

func (r *EventCategoryRequest) ToModel(churchID uuid.UUID) *model.EventCategoryModel {
	isActive := true
	if r.EventCategoryIsActive != nil {
		isActive = *r.EventCategoryIsActive
	}
	attendance := model.AttendanceNone
	if r.EventCategoryAttendanceType != "" {
		attendance = model.AttendanceTypeEnum(r.EventCategoryAttendanceType)
	}

	return &model.EventCategoryModel{
		EventCategoryChurchID:           churchID,
		EventCategoryName:               r.EventCategoryName,
		EventCategorySlug:               helper.GenerateSlug(r.EventCategoryName),
		EventCategoryColor:              r.EventCategoryColor,
		EventCategoryIcon:               r.EventCategoryIcon,
		EventCategoryDescription:        r.EventCategoryDescription,
		EventCategoryIsActive:           isActive,
		EventCategoryIsRecurring:        r.EventCategoryIsRecurring,
		EventCategoryRecurrencePattern:  r.EventCategoryRecurrencePattern,
		EventCategoryRecurrenceSettings: datatypes.JSONMap(r.EventCategoryRecurrenceSettings),
		EventCategoryRecurrenceEndDate:  ParseDate(r.EventCategoryRecurrenceEndDate),
		EventCategoryDefaultStartTime:   r.EventCategoryDefaultStartTime,
		EventCategoryDefaultDuration:    r.EventCategoryDefaultDuration,
		EventCategoryDefaultLocation:    r.EventCategoryDefaultLocation,
		EventCategoryDefaultDescription: r.EventCategoryDefaultDescription,
		EventCategoryAttendanceType:     attendance,
	}
}

func ToEventCategoryResponse(m *model.EventCategoryModel) *EventCategoryResponse {
	endDate := ""
	if m.EventCategoryRecurrenceEndDate != nil {
		endDate = m.EventCategoryRecurrenceEndDate.Format("2006-01-02")
	}
	return &EventCategoryResponse{
		EventCategoryID:                 m.EventCategoryID,
		EventCategoryChurchID:           m.EventCategoryChurchID,
		EventCategoryName:               m.EventCategoryName,
		EventCategorySlug:               m.EventCategorySlug,
		EventCategoryColor:              m.EventCategoryColor,
		EventCategoryIcon:               m.EventCategoryIcon,
		EventCategoryDescription:        m.EventCategoryDescription,
		EventCategoryIsActive:           m.EventCategoryIsActive,
		EventCategoryIsRecurring:        m.EventCategoryIsRecurring,
		EventCategoryRecurrencePattern:  m.EventCategoryRecurrencePattern,
		EventCategoryRecurrenceSettings: m.EventCategoryRecurrenceSettings,
		EventCategoryRecurrenceEndDate:  endDate,
		EventCategoryDefaultStartTime:   m.EventCategoryDefaultStartTime,
		EventCategoryDefaultDuration:    m.EventCategoryDefaultDuration,
		EventCategoryDefaultLocation:    m.EventCategoryDefaultLocation,
		EventCategoryDefaultDescription: m.EventCategoryDefaultDescription,
		EventCategoryAttendanceType:     string(m.EventCategoryAttendanceType),
		EventCategoryCreatedAt:          m.EventCategoryCreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ToEventCategoryResponseList(models []model.EventCategoryModel) []EventCategoryResponse {
	result := make([]EventCategoryResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToEventCategoryResponse(&models[i]))
	}
	return result
}

// ParseDate parses a "2006-01-02" string, returning nil for empty or
// malformed input (format is enforced by the validator beforehand).
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
