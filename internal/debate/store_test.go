package debate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventbot/internal/model"
)

type fakeTranscriptStore struct {
	open      bool
	topic     string
	startedAt time.Time
	messages  []model.Message

	startCalls int
	endCalls   int

	startErr  error
	appendErr error
	endErr    error
}

func (f *fakeTranscriptStore) Start(_ context.Context, _ int64, topic string, startedAt time.Time) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.startCalls++
	f.open = true
	f.topic = topic
	f.startedAt = startedAt
	f.messages = nil
	return nil
}

func (f *fakeTranscriptStore) AppendMessage(_ context.Context, _ int64, role, content string, at time.Time) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.open {
		f.messages = append(f.messages, model.Message{Role: role, Content: content, CreatedAt: at})
	}
	return nil
}

func (f *fakeTranscriptStore) End(_ context.Context, _ int64, _ time.Time) (*model.Transcript, error) {
	if f.endErr != nil {
		return nil, f.endErr
	}
	f.endCalls++
	if !f.open {
		return nil, nil
	}
	f.open = false
	return &model.Transcript{
		Topic:     f.topic,
		StartedAt: f.startedAt,
		Messages:  f.messages,
	}, nil
}

func TestStore_RecordTurnWithoutStart(t *testing.T) {
	store := NewStore(&fakeTranscriptStore{})

	err := store.RecordTurn(context.Background(), 1, model.RoleUser, "hello")
	require.ErrorIs(t, err, ErrNoActiveDebate)
}

func TestStore_StartThenCloseWithoutTurns(t *testing.T) {
	repo := &fakeTranscriptStore{}
	store := NewStore(repo)

	require.NoError(t, store.Start(context.Background(), 1, "AI Ethics"))
	assert.True(t, store.IsActive(1))

	_, err := store.Close(context.Background(), 1)
	require.ErrorIs(t, err, ErrEmptyTranscript)
	assert.False(t, store.IsActive(1))
}

func TestStore_StartClosesDanglingRecord(t *testing.T) {
	repo := &fakeTranscriptStore{open: true, topic: "old"}
	store := NewStore(repo)

	require.NoError(t, store.Start(context.Background(), 1, "new topic"))

	assert.Equal(t, 1, repo.endCalls, "dangling open record must be closed first")
	assert.Equal(t, 1, repo.startCalls)
	assert.Equal(t, "new topic", repo.topic)
}

func TestStore_ContextWindowKeepsLastTwoTurns(t *testing.T) {
	repo := &fakeTranscriptStore{}
	store := NewStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, "AI Ethics"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleUser, "first"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleAssistant, "second"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleUser, "third"))

	_, recent, err := store.Snapshot(1)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Content)
	assert.Equal(t, "third", recent[1].Content)

	// The durable log still holds everything.
	assert.Len(t, repo.messages, 3)
}

func TestStore_CloseReturnsFullTranscript(t *testing.T) {
	repo := &fakeTranscriptStore{}
	store := NewStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, "AI Ethics"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleUser, "one"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleAssistant, "two"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleUser, "three"))

	transcript, err := store.Close(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "AI Ethics", transcript.Topic)
	assert.Len(t, transcript.Messages, 3, "transcript is not bounded by the context window")

	_, err = store.Close(ctx, 1)
	require.ErrorIs(t, err, ErrNoActiveDebate)
}

func TestStore_CloseKeepsEntryOnPersistenceError(t *testing.T) {
	repo := &fakeTranscriptStore{}
	store := NewStore(repo)
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, "AI Ethics"))
	require.NoError(t, store.RecordTurn(ctx, 1, model.RoleUser, "one"))

	repo.endErr = assert.AnError
	_, err := store.Close(ctx, 1)
	require.Error(t, err)
	assert.True(t, store.IsActive(1), "failed close must stay retryable")

	repo.endErr = nil
	transcript, err := store.Close(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, transcript.Messages, 1)
}

func TestStore_SeparateChatsAreIndependent(t *testing.T) {
	store := NewStore(&fakeTranscriptStore{})
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, "jobs"))
	assert.True(t, store.IsActive(1))
	assert.False(t, store.IsActive(2))

	err := store.RecordTurn(ctx, 2, model.RoleUser, "hello")
	require.ErrorIs(t, err, ErrNoActiveDebate)
}
