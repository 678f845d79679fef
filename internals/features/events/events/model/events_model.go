package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatusEnum string

const (
	EventStatusDraft     EventStatusEnum = "draft"
	EventStatusPublished EventStatusEnum = "published"
)

type EventModel struct {
	EventID         uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventCategoryID uuid.UUID `gorm:"column:event_category_id;type:uuid;not null;uniqueIndex:ux_events_category_occurrence,priority:1" json:"event_category_id"`
	EventChurchID   uuid.UUID `gorm:"column:event_church_id;type:uuid;not null;index:idx_events_church_id" json:"event_church_id"`

	EventTitle       string `gorm:"column:event_title;type:varchar(255);not null" json:"event_title"`
	EventDescription string `gorm:"column:event_description;type:text" json:"event_description"`
	EventLocation    string `gorm:"column:event_location;type:varchar(255)" json:"event_location"`

	// Timestamp columns take the dialect's native type (timestamptz on
	// postgres, datetime on the sqlite test database).
	EventStartDate time.Time  `gorm:"column:event_start_date;not null" json:"event_start_date"`
	EventEndDate   *time.Time `gorm:"column:event_end_date" json:"event_end_date,omitempty"`

	// The calendar date the occurrence expanded to. One event per category
	// per date is the idempotence backbone of generation: concurrent
	// generate calls race on this index instead of duplicating rows.
	EventOccurrenceDate time.Time `gorm:"column:event_occurrence_date;type:date;not null;uniqueIndex:ux_events_category_occurrence,priority:2" json:"event_occurrence_date"`

	EventStatus   EventStatusEnum `gorm:"column:event_status;type:varchar(20);not null;default:'draft'" json:"event_status"`
	EventSequence int             `gorm:"column:event_sequence;not null;default:0" json:"event_sequence"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}
