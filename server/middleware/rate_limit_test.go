package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	require.True(t, rl.AllowUser(1))
	require.True(t, rl.AllowUser(1))
	require.False(t, rl.AllowUser(1))
}

func TestRateLimiterKeysUsersSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	require.True(t, rl.AllowUser(1))
	require.False(t, rl.AllowUser(1))
	require.True(t, rl.AllowUser(2))
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	require.Equal(t, defaultBurst, rl.burst)

	for i := 0; i < defaultBurst; i++ {
		require.True(t, rl.AllowUser(7))
	}
	require.False(t, rl.AllowUser(7))
}
