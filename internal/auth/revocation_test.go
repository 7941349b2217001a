package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRevoker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisRevoker(client, "")
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "session-1", time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	require.False(t, revoked, "entry should expire with the token")

	// Already-expired tokens are not stored.
	require.NoError(t, r.Revoke(ctx, "session-2", time.Now().Add(-time.Second)))
	require.False(t, mr.Exists("splitzytip:revoked:session-2"))
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	now := time.Now()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, r.Revoke(ctx, "b", now.Add(time.Hour)))

	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.False(t, revoked)

	// The next write sweeps expired entries.
	require.NoError(t, r.Revoke(ctx, "c", now.Add(time.Minute)))
	require.Len(t, r.revoked, 2)
}
