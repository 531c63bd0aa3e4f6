package debate

import (
	"fmt"
	"strings"
	"time"

	"ventbot/internal/model"
)

// summaryKeepEdge is how many turns from each end survive in a long
// transcript's digest.
const summaryKeepEdge = 2

// RenderSummary renders a closed debate's transcript into the session
// digest. Transcripts longer than four turns keep only the opening and
// closing exchanges. Deterministic given its inputs.
func RenderSummary(transcript *model.Transcript, now time.Time) (string, error) {
	if transcript == nil || len(transcript.Messages) == 0 {
		return "", ErrEmptyTranscript
	}

	messages := transcript.Messages
	if len(messages) > 2*summaryKeepEdge {
		kept := make([]model.Message, 0, 2*summaryKeepEdge)
		kept = append(kept, messages[:summaryKeepEdge]...)
		kept = append(kept, messages[len(messages)-summaryKeepEdge:]...)
		messages = kept
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎭 Venting Session About: %s\n", transcript.Topic)
	fmt.Fprintf(&b, "⏱️ Time Spent: %s\n", now.Sub(transcript.StartedAt).Round(time.Second))
	b.WriteString("\n💭 Highlights:")
	for _, message := range messages {
		marker := "🤔"
		if message.Role == model.RoleUser {
			marker = "😤"
		}
		fmt.Fprintf(&b, "\n%s %s", marker, message.Content)
	}
	b.WriteString("\n\n🌟 Hope you're feeling better now!")
	return b.String(), nil
}
