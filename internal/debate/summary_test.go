package debate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventbot/internal/model"
)

func transcriptWithTurns(n int) *model.Transcript {
	t := &model.Transcript{
		Topic:     "Social Media Impact",
		StartedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	for i := 1; i <= n; i++ {
		role := model.RoleUser
		if i%2 == 0 {
			role = model.RoleAssistant
		}
		t.Messages = append(t.Messages, model.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return t
}

func TestRenderSummary_LongTranscriptKeepsEdges(t *testing.T) {
	transcript := transcriptWithTurns(6)
	now := transcript.StartedAt.Add(10 * time.Minute)

	summary, err := RenderSummary(transcript, now)
	require.NoError(t, err)

	assert.Contains(t, summary, "turn 1")
	assert.Contains(t, summary, "turn 2")
	assert.NotContains(t, summary, "turn 3")
	assert.NotContains(t, summary, "turn 4")
	assert.Contains(t, summary, "turn 5")
	assert.Contains(t, summary, "turn 6")
}

func TestRenderSummary_ShortTranscriptKeepsAll(t *testing.T) {
	transcript := transcriptWithTurns(3)

	summary, err := RenderSummary(transcript, transcript.StartedAt.Add(time.Minute))
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		assert.Contains(t, summary, fmt.Sprintf("turn %d", i))
	}
}

func TestRenderSummary_Template(t *testing.T) {
	transcript := transcriptWithTurns(2)
	now := transcript.StartedAt.Add(5 * time.Minute)

	summary, err := RenderSummary(transcript, now)
	require.NoError(t, err)

	assert.Contains(t, summary, "🎭 Venting Session About: Social Media Impact")
	assert.Contains(t, summary, "⏱️ Time Spent: 5m0s")
	assert.Contains(t, summary, "😤 turn 1")
	assert.Contains(t, summary, "🤔 turn 2")
	assert.Contains(t, summary, "🌟 Hope you're feeling better now!")
}

func TestRenderSummary_EmptyTranscript(t *testing.T) {
	_, err := RenderSummary(&model.Transcript{Topic: "x"}, time.Now())
	require.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = RenderSummary(nil, time.Now())
	require.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestRenderSummary_Deterministic(t *testing.T) {
	transcript := transcriptWithTurns(5)
	now := transcript.StartedAt.Add(time.Hour)

	first, err := RenderSummary(transcript, now)
	require.NoError(t, err)
	second, err := RenderSummary(transcript, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
