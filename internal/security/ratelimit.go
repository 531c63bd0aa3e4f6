package security

import (
	"sync"
	"time"
	"unicode/utf8"
)

const rateWindow = time.Minute

type userActivity struct {
	messageCount int
	windowStart  time.Time
	bannedUntil  time.Time
}

// RateLimiter tracks per-user message counts over a rolling minute and
// hands out temporary bans when the ceiling is exceeded. State lives in
// memory for the process lifetime only.
type RateLimiter struct {
	mu    sync.Mutex
	users map[int64]*userActivity

	maxPerMinute     int
	maxMessageLength int
	banDuration      time.Duration

	now func() time.Time
}

func NewRateLimiter(maxPerMinute, maxMessageLength, banMinutes int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	if maxMessageLength <= 0 {
		maxMessageLength = 500
	}
	if banMinutes <= 0 {
		banMinutes = 5
	}
	return &RateLimiter{
		users:            make(map[int64]*userActivity),
		maxPerMinute:     maxPerMinute,
		maxMessageLength: maxMessageLength,
		banDuration:      time.Duration(banMinutes) * time.Minute,
		now:              time.Now,
	}
}

// CheckAndRecord reports whether the user may send a message now and
// counts the attempt. Exceeding the per-minute ceiling sets a temporary
// ban; banned users are refused without touching their counter.
func (rl *RateLimiter) CheckAndRecord(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	activity, ok := rl.users[userID]
	if !ok {
		activity = &userActivity{windowStart: now}
		rl.users[userID] = activity
	}

	if !activity.bannedUntil.IsZero() {
		if now.Before(activity.bannedUntil) {
			return false
		}
		activity.bannedUntil = time.Time{}
	}

	if now.Sub(activity.windowStart) > rateWindow {
		activity.messageCount = 0
		activity.windowStart = now
	}

	activity.messageCount++
	if activity.messageCount > rl.maxPerMinute {
		activity.bannedUntil = now.Add(rl.banDuration)
		return false
	}
	return true
}

// Ban sets a ban unconditionally, replacing any existing one.
func (rl *RateLimiter) Ban(userID int64, duration time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	activity, ok := rl.users[userID]
	if !ok {
		activity = &userActivity{windowStart: rl.now()}
		rl.users[userID] = activity
	}
	activity.bannedUntil = rl.now().Add(duration)
}

// Unban lifts a ban immediately, regardless of remaining duration.
func (rl *RateLimiter) Unban(userID int64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if activity, ok := rl.users[userID]; ok {
		activity.bannedUntil = time.Time{}
	}
}

// CheckMessageLength reports whether the text is within the configured
// rune limit. Stateless.
func (rl *RateLimiter) CheckMessageLength(text string) bool {
	return utf8.RuneCountInString(text) <= rl.maxMessageLength
}

// MaxMessageLength returns the configured limit, for user guidance.
func (rl *RateLimiter) MaxMessageLength() int {
	return rl.maxMessageLength
}

// Cleanup drops entries idle for longer than maxAge and not banned.
// Call periodically to keep the table from growing without bound.
func (rl *RateLimiter) Cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxAge)
	for userID, activity := range rl.users {
		if activity.windowStart.Before(cutoff) && !rl.now().Before(activity.bannedUntil) {
			delete(rl.users, userID)
		}
	}
}
