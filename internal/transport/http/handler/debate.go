package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ventbot/internal/debate"
	"ventbot/internal/logger"
	"ventbot/internal/model"
	"ventbot/internal/security"
	"ventbot/internal/transport/http/middleware"
	"ventbot/internal/transport/http/response"
)

const apologyMessage = "Sorry, I encountered an error. Please try again."

// EventPublisher enqueues moderation audit events. Publishing is best
// effort; failures are logged, never surfaced to the user.
type EventPublisher interface {
	Publish(ctx context.Context, event model.ModerationEvent) error
}

type DebateHandler struct {
	store     *debate.Store
	service   *debate.Service
	histories *debate.HistoryService
	limiter   *security.RateLimiter
	events    EventPublisher
	topics    []string
}

type StartDebateRequest struct {
	ChatID int64  `json:"chat_id" binding:"required"`
	Topic  string `json:"topic" binding:"max=255"`
}

type SendMessageRequest struct {
	ChatID  int64  `json:"chat_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type EndDebateRequest struct {
	ChatID int64 `json:"chat_id" binding:"required"`
}

func NewDebateHandler(
	store *debate.Store,
	service *debate.Service,
	histories *debate.HistoryService,
	limiter *security.RateLimiter,
	events EventPublisher,
	topics []string,
) *DebateHandler {
	return &DebateHandler{
		store:     store,
		service:   service,
		histories: histories,
		limiter:   limiter,
		events:    events,
		topics:    topics,
	}
}

func (h *DebateHandler) Topics(c *gin.Context) {
	response.OK(c, gin.H{
		"topics": h.topics,
		"usage":  "Start a debate with a topic, send your arguments, end it for a session digest.",
	})
}

func (h *DebateHandler) Start(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req StartDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		if len(h.topics) == 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "provide a topic to debate about")
			return
		}
		topic = h.topics[rand.Intn(len(h.topics))]
	}

	if err := h.store.Start(c.Request.Context(), req.ChatID, topic); err != nil {
		logger.Error("start debate failed", "chat_id", req.ChatID, "err", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, apologyMessage)
		return
	}

	h.publishEvent(c.Request.Context(), model.ModerationEvent{
		Kind:   model.EventDebateStarted,
		UserID: userID,
		ChatID: req.ChatID,
		Detail: topic,
	})

	response.OK(c, gin.H{
		"chat_id": req.ChatID,
		"topic":   topic,
		"message": fmt.Sprintf("Great! Let's talk about %s. Tell me what's bothering you.", topic),
	})
}

func (h *DebateHandler) SendMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if !h.limiter.CheckAndRecord(userID) {
		h.publishEvent(c.Request.Context(), model.ModerationEvent{
			Kind:   model.EventRateLimited,
			UserID: userID,
			ChatID: req.ChatID,
		})
		response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited,
			"You've been temporarily rate-limited. Please try again later.")
		return
	}

	if !h.limiter.CheckMessageLength(req.Content) {
		response.Error(c, http.StatusBadRequest, response.CodeMessageTooLong,
			fmt.Sprintf("Message too long. Please keep it under %d characters.", h.limiter.MaxMessageLength()))
		return
	}

	if !h.store.IsActive(req.ChatID) {
		response.Error(c, http.StatusNotFound, response.CodeNoActiveDebate,
			"No active debate. Start one with a topic first!")
		return
	}

	h.histories.Invalidate(c.Request.Context(), req.ChatID)

	reply, err := h.service.Respond(c.Request.Context(), req.ChatID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, debate.ErrNoActiveDebate):
			response.Error(c, http.StatusNotFound, response.CodeNoActiveDebate,
				"No active debate. Start one with a topic first!")
		default:
			logger.Error("respond failed", "chat_id", req.ChatID, "user_id", userID, "err", err)
			response.Error(c, http.StatusBadGateway, response.CodeInternalServer, apologyMessage)
		}
		return
	}

	response.OK(c, gin.H{
		"chat_id": req.ChatID,
		"reply":   reply,
	})
}

func (h *DebateHandler) End(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req EndDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	transcript, err := h.store.Close(c.Request.Context(), req.ChatID)
	if err != nil {
		switch {
		case errors.Is(err, debate.ErrNoActiveDebate):
			response.Error(c, http.StatusNotFound, response.CodeNoActiveDebate, "No active debate to end.")
		case errors.Is(err, debate.ErrEmptyTranscript):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "The debate had no messages to summarize.")
		default:
			logger.Error("end debate failed", "chat_id", req.ChatID, "err", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, apologyMessage)
		}
		return
	}

	h.histories.Invalidate(c.Request.Context(), req.ChatID)
	h.publishEvent(c.Request.Context(), model.ModerationEvent{
		Kind:   model.EventDebateEnded,
		UserID: userID,
		ChatID: req.ChatID,
		Detail: transcript.Topic,
	})

	summary, err := debate.RenderSummary(transcript, time.Now())
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "The debate had no messages to summarize.")
		return
	}

	response.OK(c, gin.H{
		"chat_id": req.ChatID,
		"summary": summary,
	})
}

func (h *DebateHandler) History(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Query("chat_id"), 10, 64)
	if err != nil || chatID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chat_id")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil {
			limit = parsed
		}
	}

	history, err := h.histories.History(c.Request.Context(), chatID, limit)
	if err != nil {
		logger.Error("get history failed", "chat_id", chatID, "err", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	response.OK(c, history)
}

func (h *DebateHandler) publishEvent(ctx context.Context, event model.ModerationEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, event); err != nil {
		logger.Warn("publish moderation event failed", "kind", event.Kind, "err", err)
	}
}

func getUserIDFromContext(c *gin.Context) (int64, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(int64)
	return userID, ok
}
