// Package lock implements TTL-bounded exclusive leases on top of redis.
// The TTL bounds how long a crashed holder can block others; the
// token-checked release prevents a holder whose lease expired from deleting
// a lock that has since been granted to someone else.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when the stored token still matches
// the caller's. Check and delete must be one atomic step.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Acquire attempts to take the lease once. It returns the holder token on
// success and an empty string when the lock is already held. No blocking or
// retries; the caller decides its own retry policy.
func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := fmt.Sprintf("%s:%d", uuid.NewString(), time.Now().UnixNano())
	ok, err := m.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release removes the lease if it is still held under the given token.
// It reports whether the lock was actually removed.
func (m *Manager) Release(ctx context.Context, key, token string) (bool, error) {
	deleted, err := releaseScript.Run(ctx, m.client, []string{lockKey(key)}, token).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
