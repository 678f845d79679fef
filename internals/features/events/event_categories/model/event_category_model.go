package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceTypeEnum string

const (
	AttendanceIndividual AttendanceTypeEnum = "individual"
	AttendanceGeneral    AttendanceTypeEnum = "general"
	AttendanceNone       AttendanceTypeEnum = "none"
)

type EventCategoryModel struct {
	EventCategoryID       uuid.UUID `gorm:"column:event_category_id;type:uuid;primaryKey" json:"event_category_id"`
	EventCategoryChurchID uuid.UUID `gorm:"column:event_category_church_id;type:uuid;not null;index:idx_event_categories_church_id" json:"event_category_church_id"`

	EventCategoryName        string `gorm:"column:event_category_name;type:varchar(255);not null" json:"event_category_name"`
	EventCategorySlug        string `gorm:"column:event_category_slug;type:varchar(100);not null" json:"event_category_slug"`
	EventCategoryColor       string `gorm:"column:event_category_color;type:varchar(20)" json:"event_category_color"`
	EventCategoryIcon        string `gorm:"column:event_category_icon;type:varchar(50)" json:"event_category_icon"`
	EventCategoryDescription string `gorm:"column:event_category_description;type:text" json:"event_category_description"`

	EventCategoryIsActive    bool `gorm:"column:event_category_is_active;not null;default:true" json:"event_category_is_active"`
	EventCategoryIsRecurring bool `gorm:"column:event_category_is_recurring;not null;default:false" json:"event_category_is_recurring"`

	// Recurrence configuration as sent by the dashboard. The settings bag is
	// kept as JSONB and only parsed into a typed rule at generation time.
	EventCategoryRecurrencePattern  string            `gorm:"column:event_category_recurrence_pattern;type:varchar(20)" json:"event_category_recurrence_pattern"`
	EventCategoryRecurrenceSettings datatypes.JSONMap `gorm:"column:event_category_recurrence_settings;type:jsonb" json:"event_category_recurrence_settings"`
	EventCategoryRecurrenceEndDate  *time.Time        `gorm:"column:event_category_recurrence_end_date;type:date" json:"event_category_recurrence_end_date,omitempty"`

	// Defaults copied onto every materialized event.
	EventCategoryDefaultStartTime   string `gorm:"column:event_category_default_start_time;type:varchar(5)" json:"event_category_default_start_time"` // "HH:MM"
	EventCategoryDefaultDuration    int    `gorm:"column:event_category_default_duration" json:"event_category_default_duration"`                     // minutes, 0 = open-ended
	EventCategoryDefaultLocation    string `gorm:"column:event_category_default_location;type:varchar(255)" json:"event_category_default_location"`
	EventCategoryDefaultDescription string `gorm:"column:event_category_default_description;type:text" json:"event_category_default_description"`

	EventCategoryAttendanceType AttendanceTypeEnum `gorm:"column:event_category_attendance_type;type:varchar(20);not null;default:'none'" json:"event_category_attendance_type"`

	// Timestamp columns take the dialect's native type (timestamptz on
	// postgres, datetime on the sqlite test database).
	EventCategoryCreatedAt time.Time      `gorm:"column:event_category_created_at;autoCreateTime" json:"event_category_created_at"`
	EventCategoryUpdatedAt time.Time      `gorm:"column:event_category_updated_at;autoUpdateTime" json:"event_category_updated_at"`
	EventCategoryDeletedAt gorm.DeletedAt `gorm:"column:event_category_deleted_at;index" json:"event_category_deleted_at,omitempty"`

	// NOTE:
	// - Unique slug per church (case-insensitive) lives in a migration:
	//   CREATE UNIQUE INDEX ux_event_categories_slug_per_church_lower
	//   ON event_categories (event_category_church_id, LOWER(event_category_slug));
}

func (EventCategoryModel) TableName() string {
	return "event_categories"
}

// IDs are assigned app-side so inserts behave the same on postgres and the
// sqlite test database.
func (m *EventCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventCategoryID == uuid.Nil {
		m.EventCategoryID = uuid.New()
	}
	return nil
}
