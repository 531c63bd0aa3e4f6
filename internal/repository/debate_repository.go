package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ventbot/internal/model"
)

// DebateRepository persists debate sessions and their messages. A chat
// has at most one open debate (ended_at IS NULL); appends always target
// the open one.
type DebateRepository struct {
	db *gorm.DB
}

func NewDebateRepository(db *gorm.DB) *DebateRepository {
	return &DebateRepository{db: db}
}

func (r *DebateRepository) Start(ctx context.Context, chatID int64, topic string, startedAt time.Time) error {
	debate := &model.Debate{
		ChatID:    chatID,
		Topic:     topic,
		StartedAt: startedAt,
	}
	if err := r.db.WithContext(ctx).Create(debate).Error; err != nil {
		return fmt.Errorf("create debate failed: %w", err)
	}
	return nil
}

// AppendMessage adds a message to the chat's open debate. It is a
// no-op when no debate is open.
func (r *DebateRepository) AppendMessage(ctx context.Context, chatID int64, role, content string, at time.Time) error {
	debate, err := r.open(ctx, chatID)
	if err != nil {
		return err
	}
	if debate == nil {
		return nil
	}

	message := &model.Message{
		DebateID:  debate.ID,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("append message failed: %w", err)
	}
	return nil
}

// End closes the chat's open debate and returns its full transcript.
// Returns nil when no debate is open.
func (r *DebateRepository) End(ctx context.Context, chatID int64, endedAt time.Time) (*model.Transcript, error) {
	debate, err := r.open(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if debate == nil {
		return nil, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&model.Debate{}).
		Where("id = ?", debate.ID).
		Update("ended_at", endedAt).Error; err != nil {
		return nil, fmt.Errorf("end debate failed: %w", err)
	}

	messages, err := r.listMessages(ctx, debate.ID, 0)
	if err != nil {
		return nil, err
	}
	return &model.Transcript{
		Topic:     debate.Topic,
		StartedAt: debate.StartedAt,
		Messages:  messages,
	}, nil
}

// ListOpenMessages returns messages of the chat's open debate in
// insertion order, bounded by limit.
func (r *DebateRepository) ListOpenMessages(ctx context.Context, chatID int64, limit int) ([]model.Message, error) {
	debate, err := r.open(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if debate == nil {
		return nil, nil
	}
	return r.listMessages(ctx, debate.ID, limit)
}

func (r *DebateRepository) open(ctx context.Context, chatID int64) (*model.Debate, error) {
	var debate model.Debate
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND ended_at IS NULL", chatID).
		Order("started_at DESC").
		First(&debate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open debate failed: %w", err)
	}
	return &debate, nil
}

func (r *DebateRepository) listMessages(ctx context.Context, debateID uint, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("debate_id = ?", debateID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}
