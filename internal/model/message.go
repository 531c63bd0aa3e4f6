package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DebateID  uint      `gorm:"not null;index" json:"debate_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
