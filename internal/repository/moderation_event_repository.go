package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ventbot/internal/model"
)

type ModerationEventRepository struct {
	db *gorm.DB
}

func NewModerationEventRepository(db *gorm.DB) *ModerationEventRepository {
	return &ModerationEventRepository{db: db}
}

// Create inserts the event, ignoring duplicates on event_id so that
// redelivered broker messages stay idempotent.
func (r *ModerationEventRepository) Create(ctx context.Context, event *model.ModerationEvent) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event).Error
	if err != nil {
		return fmt.Errorf("create moderation event failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first, bounded by limit.
func (r *ModerationEventRepository) ListRecent(ctx context.Context, limit int) ([]model.ModerationEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var events []model.ModerationEvent
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list moderation events failed: %w", err)
	}
	return events, nil
}
