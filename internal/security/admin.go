package security

import (
	"errors"
	"time"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// AdminControl layers privileged ban/unban operations on the rate
// limiter, gated by an allow-list loaded once at startup.
type AdminControl struct {
	admins  map[int64]struct{}
	limiter *RateLimiter
}

func NewAdminControl(adminIDs []int64, limiter *RateLimiter) *AdminControl {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &AdminControl{admins: admins, limiter: limiter}
}

func (a *AdminControl) IsAdmin(userID int64) bool {
	_, ok := a.admins[userID]
	return ok
}

// Ban bans the target for the given number of minutes. Only admins may
// call it, and the duration must be positive.
func (a *AdminControl) Ban(requesterID, targetID int64, minutes int) error {
	if !a.IsAdmin(requesterID) {
		return ErrPermissionDenied
	}
	if minutes <= 0 {
		return ErrInvalidArgument
	}
	a.limiter.Ban(targetID, time.Duration(minutes)*time.Minute)
	return nil
}

// Unban lifts any ban on the target immediately.
func (a *AdminControl) Unban(requesterID, targetID int64) error {
	if !a.IsAdmin(requesterID) {
		return ErrPermissionDenied
	}
	a.limiter.Unban(targetID)
	return nil
}
