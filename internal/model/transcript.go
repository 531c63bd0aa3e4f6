package model

import "time"

// Transcript is the durable, ordered record of a closed debate.
type Transcript struct {
	Topic     string    `json:"topic"`
	StartedAt time.Time `json:"started_at"`
	Messages  []Message `json:"messages"`
}
