package denylist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	// Arrange
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	// Act
	require.Nil(t, m.Revoke(ctx, "live", now.Add(time.Minute)))
	require.Nil(t, m.Revoke(ctx, "stale", now.Add(-time.Minute)))

	// Assert
	revoked, err := m.Revoked(ctx, "live")
	require.Nil(t, err)
	require.True(t, revoked)

	revoked, err = m.Revoked(ctx, "stale")
	require.Nil(t, err)
	require.False(t, revoked)

	revoked, err = m.Revoked(ctx, "never")
	require.Nil(t, err)
	require.False(t, revoked)

	// Act
	now = now.Add(2 * time.Minute)

	// Assert
	revoked, err = m.Revoked(ctx, "live")
	require.Nil(t, err)
	require.False(t, revoked)
	require.Equal(t, 0, m.Len())
}

func TestMemorySweeps(t *testing.T) {
	// Arrange
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()
	require.Nil(t, m.Revoke(ctx, "a", now.Add(time.Second)))
	require.Nil(t, m.Revoke(ctx, "b", now.Add(time.Second)))

	// Act
	now = now.Add(time.Minute)
	require.Nil(t, m.Revoke(ctx, "c", now.Add(time.Second)))

	// Assert
	require.Equal(t, 1, m.Len())
}

func TestKey(t *testing.T) {
	require.Len(t, Key("token"), 64)
	require.Equal(t, Key("token"), Key("token"))
	require.NotEqual(t, Key("token"), Key("other"))
	require.NotContains(t, Key("token"), "token")
}
