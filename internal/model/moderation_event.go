package model

import "time"

const (
	EventRateLimited   = "rate_limited"
	EventAdminBan      = "admin_ban"
	EventAdminUnban    = "admin_unban"
	EventDebateStarted = "debate_started"
	EventDebateEnded   = "debate_ended"
)

// ModerationEvent is an audit record produced by the rate limiter and
// admin commands. Events travel through the broker before landing in
// the database, so EventID carries a unique id for consumer-side dedupe.
type ModerationEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:36;not null;uniqueIndex" json:"event_id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	UserID    int64     `gorm:"index" json:"user_id"`
	ChatID    int64     `gorm:"index" json:"chat_id"`
	Detail    string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
