package debate

import (
	"context"

	"ventbot/internal/model"
)

// HistoryCache caches the open debate's history, with a dirty marker
// that suppresses refills while appends are in flight.
type HistoryCache interface {
	GetHistory(ctx context.Context, chatID int64) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, chatID int64, messages []model.Message) error
	DeleteHistory(ctx context.Context, chatID int64) error
	MarkDirty(ctx context.Context, chatID int64) error
	IsDirty(ctx context.Context, chatID int64) (bool, error)
}

// MessageLister reads the open debate's durable messages.
type MessageLister interface {
	ListOpenMessages(ctx context.Context, chatID int64, limit int) ([]model.Message, error)
}

// HistoryService serves the open debate's message history, read-through
// cached. The cache is optional.
type HistoryService struct {
	lister MessageLister
	cache  HistoryCache
}

func NewHistoryService(lister MessageLister, cache HistoryCache) *HistoryService {
	return &HistoryService{lister: lister, cache: cache}
}

func (s *HistoryService) History(ctx context.Context, chatID int64, limit int) ([]model.Message, error) {
	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx, chatID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetHistory(ctx, chatID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.lister.ListOpenMessages(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx, chatID); dirtyErr == nil && !dirty {
			_ = s.cache.SetHistory(ctx, chatID, messages)
		}
	}
	return messages, nil
}

// Invalidate marks the chat's cached history stale ahead of an append.
func (s *HistoryService) Invalidate(ctx context.Context, chatID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.MarkDirty(ctx, chatID)
	_ = s.cache.DeleteHistory(ctx, chatID)
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
