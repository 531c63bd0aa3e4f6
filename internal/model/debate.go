package model

import "time"

type Debate struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ChatID    int64      `gorm:"not null;index" json:"chat_id"`
	Topic     string     `gorm:"size:255;not null" json:"topic"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"index" json:"ended_at,omitempty"`
}
