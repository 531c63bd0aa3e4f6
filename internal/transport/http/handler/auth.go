package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ventbot/internal/pkg/jwtutil"
	"ventbot/internal/transport/http/response"
)

// AuthHandler issues guest identity tokens. There are no accounts or
// passwords; the token just pins the caller to one platform user id.
type AuthHandler struct {
	jwtSecret     string
	jwtExpiration time.Duration
}

type GuestTokenRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func NewAuthHandler(jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) GuestToken(c *gin.Context) {
	var req GuestTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	token, err := jwtutil.GenerateToken(h.jwtSecret, h.jwtExpiration, req.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue token failed")
		return
	}

	response.OK(c, gin.H{
		"token":   token,
		"user_id": req.UserID,
	})
}
