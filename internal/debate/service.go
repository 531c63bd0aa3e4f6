package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ventbot/internal/ai"
	"ventbot/internal/logger"
	"ventbot/internal/model"
)

// ErrProviderExhausted is returned when the completion provider keeps
// failing for the whole retry budget. It wraps the last underlying
// error's text, never a raw provider response.
var ErrProviderExhausted = errors.New("completion provider exhausted")

const (
	maxAttempts   = 3
	retryBackoff  = time.Second
	maxReplyWords = 30
)

// Completer issues one chat completion request.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// Service drives the completion exchange for active debates: it records
// the user turn, builds the bounded prompt, calls the provider with
// retries, truncates the reply, and records it.
type Service struct {
	store     *Store
	completer Completer

	attempts int
	backoff  time.Duration
}

func NewService(store *Store, completer Completer) *Service {
	return &Service{
		store:     store,
		completer: completer,
		attempts:  maxAttempts,
		backoff:   retryBackoff,
	}
}

// Respond handles one user message in the chat's active debate and
// returns the assistant reply. Retries are sequential with a fixed
// backoff; context cancellation cuts them short.
func (s *Service) Respond(ctx context.Context, chatID int64, userText string) (string, error) {
	if err := s.store.RecordTurn(ctx, chatID, model.RoleUser, userText); err != nil {
		return "", err
	}

	topic, recent, err := s.store.Snapshot(chatID)
	if err != nil {
		return "", err
	}
	messages := buildPrompt(topic, recent)

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		reply, err := s.completer.Complete(ctx, messages)
		if err == nil {
			reply = truncateReply(reply)
			if err := s.store.RecordTurn(ctx, chatID, model.RoleAssistant, reply); err != nil {
				return "", err
			}
			return reply, nil
		}

		lastErr = err
		logger.Warn("completion attempt failed", "chat_id", chatID, "attempt", attempt, "err", err)
		if attempt == s.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.backoff):
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrProviderExhausted, s.attempts, lastErr)
}

// buildPrompt assembles the fixed venting-partner instruction, two
// illustrative exchanges, and the trailing context turns.
func buildPrompt(topic string, recent []ai.ChatMessage) []ai.ChatMessage {
	system := fmt.Sprintf(
		"You are a debate partner specifically designed to help people vent about %s. "+
			"Your role is to engage with emotional and frustrating topics only.\n\n"+
			"Core rules:\n"+
			"1. Only respond to messages expressing frustration, anger, or complaints\n"+
			"2. If the user asks general questions or non-emotional topics, remind them this is a venting space\n"+
			"3. Keep responses very short (1-2 sentences)\n"+
			"4. Always validate their feelings first\n"+
			"5. Then gently challenge their perspective\n"+
			"6. Use phrases like 'I hear you', 'That sucks', 'I get why you're mad'\n"+
			"7. Talk like an empathetic friend\n"+
			"8. If user isn't venting, say: 'Hey, I'm here to help you vent! Tell me what's really bothering you about this.'",
		topic,
	)

	messages := make([]ai.ChatMessage, 0, len(recent)+5)
	messages = append(messages,
		ai.ChatMessage{Role: "system", Content: system},
		ai.ChatMessage{Role: model.RoleUser, Content: "What's the capital of France?"},
		ai.ChatMessage{Role: model.RoleAssistant, Content: "Hey, I'm here to help you vent! Tell me what's really bothering you instead."},
		ai.ChatMessage{Role: model.RoleUser, Content: "I'm so sick of my job, nobody appreciates my work!"},
		ai.ChatMessage{Role: model.RoleAssistant, Content: "That really sucks! Being undervalued is awful. Have you thought about showing them what'd happen if you stopped doing so much?"},
	)
	return append(messages, recent...)
}

// truncateReply hard-caps long replies at their first sentence,
// regardless of content.
func truncateReply(reply string) string {
	if len(strings.Fields(reply)) <= maxReplyWords {
		return reply
	}
	first, _, _ := strings.Cut(reply, ".")
	return first + "."
}
