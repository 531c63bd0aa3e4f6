package debate

import (
	"context"
	"errors"
	"sync"
	"time"

	"ventbot/internal/ai"
	"ventbot/internal/model"
)

var (
	ErrNoActiveDebate  = errors.New("no active debate")
	ErrEmptyTranscript = errors.New("empty transcript")
)

const (
	// contextWindow bounds how many recent turns feed the prompt. Older
	// turns stay in the durable log only.
	contextWindow = 2

	persistTimeout = 5 * time.Second
)

// TranscriptStore is the durable transcript collaborator. It is
// append-only from the store's point of view; in-memory debate state is
// owned here exclusively.
type TranscriptStore interface {
	Start(ctx context.Context, chatID int64, topic string, startedAt time.Time) error
	AppendMessage(ctx context.Context, chatID int64, role, content string, at time.Time) error
	End(ctx context.Context, chatID int64, endedAt time.Time) (*model.Transcript, error)
}

type activeDebate struct {
	topic     string
	startedAt time.Time
	recent    []ai.ChatMessage
}

// Store maps chat ids to their active debate. A chat has at most one
// active debate; all mutation goes through the store's lock, which also
// serializes the persistence calls for a given chat.
type Store struct {
	mu     sync.Mutex
	active map[int64]*activeDebate
	repo   TranscriptStore

	now func() time.Time
}

func NewStore(repo TranscriptStore) *Store {
	return &Store{
		active: make(map[int64]*activeDebate),
		repo:   repo,
		now:    time.Now,
	}
}

func (s *Store) IsActive(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[chatID]
	return ok
}

// Start opens a new debate for the chat. Any debate still open for the
// chat, in memory or as a dangling durable record from a previous run,
// is closed first so the durable log never holds two open sessions.
func (s *Store) Start(ctx context.Context, chatID int64, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	if _, err := s.repo.End(persistCtx, chatID, s.now()); err != nil {
		return err
	}
	if err := s.repo.Start(persistCtx, chatID, topic, s.now()); err != nil {
		return err
	}

	s.active[chatID] = &activeDebate{
		topic:     topic,
		startedAt: s.now(),
	}
	return nil
}

// RecordTurn appends a turn to the chat's active debate, persisting it
// and keeping only the trailing context window in memory.
func (s *Store) RecordTurn(ctx context.Context, chatID int64, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	debate, ok := s.active[chatID]
	if !ok {
		return ErrNoActiveDebate
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := s.repo.AppendMessage(persistCtx, chatID, role, text, s.now()); err != nil {
		return err
	}

	debate.recent = append(debate.recent, ai.ChatMessage{Role: role, Content: text})
	if len(debate.recent) > contextWindow {
		debate.recent = debate.recent[len(debate.recent)-contextWindow:]
	}
	return nil
}

// Snapshot returns the topic and a copy of the recent turns for prompt
// construction.
func (s *Store) Snapshot(chatID int64) (string, []ai.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debate, ok := s.active[chatID]
	if !ok {
		return "", nil, ErrNoActiveDebate
	}
	recent := make([]ai.ChatMessage, len(debate.recent))
	copy(recent, debate.recent)
	return debate.topic, recent, nil
}

// Close ends the chat's active debate and returns the full durable
// transcript. The in-memory entry survives a failed persistence call so
// the close can be retried.
func (s *Store) Close(ctx context.Context, chatID int64) (*model.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[chatID]; !ok {
		return nil, ErrNoActiveDebate
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	transcript, err := s.repo.End(persistCtx, chatID, s.now())
	if err != nil {
		return nil, err
	}

	delete(s.active, chatID)
	if transcript == nil || len(transcript.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}
	return transcript, nil
}
