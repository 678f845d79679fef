package service

import (
	"strconv"
	"strings"
	"time"

	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	eventModel "churchku_backend/internals/features/events/events/model"
	"churchku_backend/internals/features/events/recurrence"
)

// Materialize turns one occurrence date plus the category's defaults into a
// concrete event row (not yet persisted). Deterministic: the same category
// and occurrence always produce the same draft.
func Materialize(cat *categoryModel.EventCategoryModel, occ recurrence.Occurrence, autoPublish bool) eventModel.EventModel {
	start := occ.Date.Add(parseStartTime(cat.EventCategoryDefaultStartTime))

	var end *time.Time
	if cat.EventCategoryDefaultDuration > 0 {
		e := start.Add(time.Duration(cat.EventCategoryDefaultDuration) * time.Minute)
		end = &e
	}

	status := eventModel.EventStatusDraft
	if autoPublish {
		status = eventModel.EventStatusPublished
	}

	return eventModel.EventModel{
		EventCategoryID:     cat.EventCategoryID,
		EventChurchID:       cat.EventCategoryChurchID,
		EventTitle:          cat.EventCategoryName,
		EventDescription:    cat.EventCategoryDefaultDescription,
		EventLocation:       cat.EventCategoryDefaultLocation,
		EventStartDate:      start,
		EventEndDate:        end,
		EventOccurrenceDate: occ.Date,
		EventStatus:         status,
		EventSequence:       occ.SequenceIndex,
	}
}

// parseStartTime converts "HH:MM" into an offset from midnight. Empty or
// malformed values fall back to midnight; the DTO validator rejects
// malformed input before it reaches storage.
func parseStartTime(s string) time.Duration {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}
