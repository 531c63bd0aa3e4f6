package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminControl_IsAdmin(t *testing.T) {
	control := NewAdminControl([]int64{1, 2}, NewRateLimiter(30, 500, 5))

	assert.True(t, control.IsAdmin(1))
	assert.True(t, control.IsAdmin(2))
	assert.False(t, control.IsAdmin(3))
}

func TestAdminControl_BanRequiresAdmin(t *testing.T) {
	limiter := NewRateLimiter(30, 500, 5)
	control := NewAdminControl([]int64{1}, limiter)

	err := control.Ban(99, 5, 10)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Target must be untouched.
	assert.True(t, limiter.CheckAndRecord(5))
}

func TestAdminControl_BanRejectsNonPositiveDuration(t *testing.T) {
	limiter := NewRateLimiter(30, 500, 5)
	control := NewAdminControl([]int64{1}, limiter)

	require.ErrorIs(t, control.Ban(1, 5, 0), ErrInvalidArgument)
	require.ErrorIs(t, control.Ban(1, 5, -3), ErrInvalidArgument)
	assert.True(t, limiter.CheckAndRecord(5))
}

func TestAdminControl_BanAndUnbanDelegate(t *testing.T) {
	limiter := NewRateLimiter(30, 500, 5)
	control := NewAdminControl([]int64{1}, limiter)

	require.NoError(t, control.Ban(1, 5, 10))
	assert.False(t, limiter.CheckAndRecord(5))

	require.NoError(t, control.Unban(1, 5))
	assert.True(t, limiter.CheckAndRecord(5))
}

func TestAdminControl_UnbanRequiresAdmin(t *testing.T) {
	limiter := NewRateLimiter(30, 500, 5)
	control := NewAdminControl([]int64{1}, limiter)

	require.NoError(t, control.Ban(1, 5, 10))
	require.ErrorIs(t, control.Unban(99, 5), ErrPermissionDenied)
	assert.False(t, limiter.CheckAndRecord(5), "ban must remain in place")
}
