package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ventbot/internal/model"
	"ventbot/internal/security"
	"ventbot/internal/transport/http/response"
)

type AdminHandler struct {
	control *security.AdminControl
	events  EventPublisher
}

type BanRequest struct {
	TargetUserID    int64 `json:"target_user_id" binding:"required"`
	DurationMinutes int   `json:"duration_minutes"`
}

type UnbanRequest struct {
	TargetUserID int64 `json:"target_user_id" binding:"required"`
}

func NewAdminHandler(control *security.AdminControl, events EventPublisher) *AdminHandler {
	return &AdminHandler{control: control, events: events}
}

func (h *AdminHandler) Ban(c *gin.Context) {
	requesterID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			"Usage: ban takes target_user_id and a positive duration_minutes.")
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 60
	}

	if err := h.control.Ban(requesterID, req.TargetUserID, req.DurationMinutes); err != nil {
		switch {
		case errors.Is(err, security.ErrPermissionDenied):
			response.Error(c, http.StatusForbidden, response.CodePermissionDenied,
				"You don't have permission to use this command.")
		case errors.Is(err, security.ErrInvalidArgument):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				"Usage: ban takes target_user_id and a positive duration_minutes.")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ban failed")
		}
		return
	}

	h.publishEvent(c, requesterID, model.EventAdminBan, req.TargetUserID,
		fmt.Sprintf("%d minutes", req.DurationMinutes))
	response.OK(c, gin.H{
		"message": fmt.Sprintf("User %d has been banned for %d minutes.", req.TargetUserID, req.DurationMinutes),
	})
}

func (h *AdminHandler) Unban(c *gin.Context) {
	requesterID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req UnbanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			"Usage: unban takes target_user_id.")
		return
	}

	if err := h.control.Unban(requesterID, req.TargetUserID); err != nil {
		switch {
		case errors.Is(err, security.ErrPermissionDenied):
			response.Error(c, http.StatusForbidden, response.CodePermissionDenied,
				"You don't have permission to use this command.")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "unban failed")
		}
		return
	}

	h.publishEvent(c, requesterID, model.EventAdminUnban, req.TargetUserID, "")
	response.OK(c, gin.H{
		"message": fmt.Sprintf("User %d has been unbanned.", req.TargetUserID),
	})
}

func (h *AdminHandler) publishEvent(c *gin.Context, requesterID int64, kind string, targetID int64, detail string) {
	if h.events == nil {
		return
	}
	event := model.ModerationEvent{
		Kind:   kind,
		UserID: targetID,
		Detail: fmt.Sprintf("by admin %d", requesterID),
	}
	if detail != "" {
		event.Detail = fmt.Sprintf("%s, %s", event.Detail, detail)
	}
	_ = h.events.Publish(c.Request.Context(), event)
}
