package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker tracks signed-out sessions until their tokens would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RedisRevoker keeps the denylist in Redis so it is shared across instances.
type RedisRevoker struct {
	client *redis.Client
	prefix string
}

// NewRedisRevoker creates a Redis-backed revoker. Keys are namespaced by prefix.
func NewRedisRevoker(client *redis.Client, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "splitzytip:revoked:"
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

// Revoke marks the session as signed out until the given time.
func (r *RedisRevoker) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session was signed out.
func (r *RedisRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, r.prefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return true, nil
}

// MemoryRevoker is a single-process denylist, used when no Redis is configured.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker creates an empty in-memory revoker.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks the session as signed out until the given time.
func (r *MemoryRevoker) Revoke(_ context.Context, sessionID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	// Sweep on write; the map only holds sessions that have not expired yet.
	for id, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, id)
		}
	}
	if now.Before(until) {
		r.revoked[sessionID] = until
	}
	return nil
}

// IsRevoked reports whether the session was signed out.
func (r *MemoryRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[sessionID]
	return ok && r.now().Before(exp), nil
}
