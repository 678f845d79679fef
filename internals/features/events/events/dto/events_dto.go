package dto

import (
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/features/events/events/model"
)

type EventResponse struct {
	EventID         uuid.UUID `json:"event_id"`
	EventCategoryID uuid.UUID `json:"event_category_id"`
	EventChurchID   uuid.UUID `json:"event_church_id"`

	EventTitle       string `json:"event_title"`
	EventDescription string `json:"event_description"`
	EventLocation    string `json:"event_location"`

	EventStartDate      string `json:"event_start_date"`
	EventEndDate        string `json:"event_end_date,omitempty"`
	EventOccurrenceDate string `json:"event_occurrence_date"`

	EventStatus   string `json:"event_status"`
	EventSequence int    `json:"event_sequence"`

	EventCreatedAt string `json:"event_created_at"`
}

// 🔹 Partial update (admin edits a single generated event)
type EventUpdateRequest struct {
	EventTitle       *string `json:"event_title" validate:"omitempty,max=255"`
	EventDescription *string `json:"event_description"`
	EventLocation    *string `json:"event_location" validate:"omitempty,max=255"`
	EventStatus      *string `json:"event_status" validate:"omitempty,oneof=draft published"`
}

func ToEventResponse(m *model.EventModel) *EventResponse {
	endDate := ""
	if m.EventEndDate != nil {
		endDate = m.EventEndDate.Format(time.RFC3339)
	}
	return &EventResponse{
		EventID:             m.EventID,
		EventCategoryID:     m.EventCategoryID,
		EventChurchID:       m.EventChurchID,
		EventTitle:          m.EventTitle,
		EventDescription:    m.EventDescription,
		EventLocation:       m.EventLocation,
		EventStartDate:      m.EventStartDate.Format(time.RFC3339),
		EventEndDate:        endDate,
		EventOccurrenceDate: m.EventOccurrenceDate.Format("2006-01-02"),
		EventStatus:         string(m.EventStatus),
		EventSequence:       m.EventSequence,
		EventCreatedAt:      m.EventCreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ToEventResponseList(models []model.EventModel) []EventResponse {
	result := make([]EventResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToEventResponse(&models[i]))
	}
	return result
}
