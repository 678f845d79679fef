package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"churchku_backend/internals/configs"
	categoryModel "churchku_backend/internals/features/events/event_categories/model"
	eventModel "churchku_backend/internals/features/events/events/model"
	"churchku_backend/internals/features/events/recurrence"
)

// ErrNotRecurring rejects generation on a category whose recurrence toggle
// is off; the dashboard should never offer the action for those.
var ErrNotRecurring = errors.New("event category is not recurring")

const hardGenerationCap = 500

// GenerationService expands a category's recurrence rule into persisted
// events. All writes go through the (category_id, occurrence_date) unique
// index, so repeated or concurrent calls cannot duplicate a date.
type GenerationService struct {
	DB *gorm.DB

	// Now is swappable for tests.
	Now func() time.Time
}

func NewGenerationService(db *gorm.DB) *GenerationService {
	return &GenerationService{DB: db, Now: time.Now}
}

type GenerateOptions struct {
	FromDate    *time.Time
	Count       int // 0 = use the configured default cap
	AutoPublish bool
}

type GenerateResult struct {
	GeneratedCount int
	Events         []eventModel.EventModel
}

// GenerateEvents validates, expands, materializes and persists events for
// one category. Validation failures happen before any write; duplicate
// occurrence dates are skipped silently and simply not counted.
func (s *GenerationService) GenerateEvents(ctx context.Context, cat *categoryModel.EventCategoryModel, opts GenerateOptions) (*GenerateResult, error) {
	if !cat.EventCategoryIsRecurring {
		return nil, ErrNotRecurring
	}

	rule, err := recurrence.ParseRule(
		cat.EventCategoryRecurrencePattern,
		cat.EventCategoryRecurrenceSettings,
		cat.EventCategoryRecurrenceEndDate,
	)
	if err != nil {
		return nil, err
	}

	anchor, continuing, err := s.resolveAnchor(ctx, cat, opts.FromDate)
	if err != nil {
		return nil, err
	}

	count := opts.Count
	if count <= 0 {
		count = configs.GetEnvInt("EVENT_GENERATION_DEFAULT_COUNT", 50)
	}
	if count > hardGenerationCap {
		count = hardGenerationCap
	}

	// When continuing a series the anchor is the already-persisted last
	// occurrence, so expand one extra and drop it again: anchoring a day
	// later would re-phase any interval > 1 rule.
	bound := count
	if continuing {
		bound++
	}

	occurrences, err := recurrence.Expand(rule, anchor, recurrence.Bounds{Count: bound})
	if err != nil {
		return nil, err
	}
	if continuing {
		occurrences = dropAnchorOccurrence(occurrences, anchor, count)
	}

	drafts := make([]eventModel.EventModel, 0, len(occurrences))
	for _, occ := range occurrences {
		drafts = append(drafts, Materialize(cat, occ, opts.AutoPublish))
	}

	return s.persistDrafts(ctx, cat, drafts)
}

// GenerateOneTimeEvent is the degenerate case: one occurrence at the next
// anchor date, no recurrence rule required. Used by categories that host
// manually triggered instances.
func (s *GenerationService) GenerateOneTimeEvent(ctx context.Context, cat *categoryModel.EventCategoryModel, autoPublish bool) (*GenerateResult, error) {
	anchor, continuing, err := s.resolveAnchor(ctx, cat, nil)
	if err != nil {
		return nil, err
	}
	if continuing {
		// the anchor date is taken; the next free slot is a day later, or
		// today when the series lies in the past
		next := anchor.AddDate(0, 0, 1)
		if today := recurrence.DateOnly(s.Now()); next.Before(today) {
			next = today
		}
		anchor = next
	}

	draft := Materialize(cat, recurrence.Occurrence{Date: anchor}, autoPublish)
	return s.persistDrafts(ctx, cat, []eventModel.EventModel{draft})
}

// resolveAnchor picks the expansion start date: an explicit from_date wins;
// otherwise the category's most recent generated occurrence date, so a
// continued series keeps the rule's cadence (continuing=true marks that the
// anchor itself is already persisted). The last date is always derived from
// the events table so retries and concurrent calls agree on it.
func (s *GenerationService) resolveAnchor(ctx context.Context, cat *categoryModel.EventCategoryModel, fromDate *time.Time) (time.Time, bool, error) {
	if fromDate != nil {
		return recurrence.DateOnly(*fromDate), false, nil
	}

	var last eventModel.EventModel
	err := s.DB.WithContext(ctx).
		Unscoped(). // soft-deleted rows still occupy the unique index
		Where("event_category_id = ?", cat.EventCategoryID).
		Order("event_occurrence_date DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return time.Time{}, false, err
	}

	if last.EventID != uuid.Nil {
		return recurrence.DateOnly(last.EventOccurrenceDate), true, nil
	}
	return recurrence.DateOnly(s.Now()), false, nil
}

// dropAnchorOccurrence removes the already-persisted anchor date from a
// continued expansion and renumbers, keeping at most count occurrences.
func dropAnchorOccurrence(occurrences []recurrence.Occurrence, anchor time.Time, count int) []recurrence.Occurrence {
	out := make([]recurrence.Occurrence, 0, count)
	for _, occ := range occurrences {
		if occ.Date.Equal(anchor) {
			continue
		}
		if len(out) == count {
			break
		}
		out = append(out, recurrence.Occurrence{Date: occ.Date, SequenceIndex: len(out)})
	}
	return out
}

// persistDrafts inserts the drafts, skipping any (category, date) that
// already exists. The ON CONFLICT clause makes the skip atomic even when
// two admins generate simultaneously.
func (s *GenerationService) persistDrafts(ctx context.Context, cat *categoryModel.EventCategoryModel, drafts []eventModel.EventModel) (*GenerateResult, error) {
	if len(drafts) == 0 {
		return &GenerateResult{Events: []eventModel.EventModel{}}, nil
	}

	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_category_id"}, {Name: "event_occurrence_date"}},
			DoNothing: true,
		}).
		Create(&drafts)
	if res.Error != nil {
		return nil, res.Error
	}

	inserted := int(res.RowsAffected)
	if inserted == len(drafts) {
		return &GenerateResult{GeneratedCount: inserted, Events: drafts}, nil
	}

	// Some dates already existed; reload what actually landed so callers
	// never see phantom rows.
	log.Printf("[GENERATE] category=%s skipped %d duplicate occurrence(s)", cat.EventCategoryID, len(drafts)-inserted)

	dates := make([]time.Time, 0, len(drafts))
	ids := make([]interface{}, 0, len(drafts))
	for _, d := range drafts {
		dates = append(dates, d.EventOccurrenceDate)
		ids = append(ids, d.EventID)
	}

	var created []eventModel.EventModel
	if err := s.DB.WithContext(ctx).
		Where("event_category_id = ? AND event_occurrence_date IN ? AND event_id IN ?", cat.EventCategoryID, dates, ids).
		Order("event_occurrence_date ASC").
		Find(&created).Error; err != nil {
		return nil, err
	}
	return &GenerateResult{GeneratedCount: inserted, Events: created}, nil
}
