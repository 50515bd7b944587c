package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

var extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("pexpire", KEYS[1], ARGV[2])
else
    return 0
end
`)

// Lock is a single-holder Redis lock. Only the holder that set the value
// can release it.
type Lock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewLock(rdb *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{rdb: rdb, key: key, ttl: ttl}
}

func (l *Lock) TTL() time.Duration { return l.ttl }

// Acquire returns a release token, or "" when the lock is held elsewhere.
func (l *Lock) Acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release reports false when the lock had expired or changed hands.
func (l *Lock) Release(ctx context.Context, token string) (bool, error) {
	deleted, err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Int64()
	if err != nil {
		return false, fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return deleted == 1, nil
}

// Extend resets the expiry of a held lock to the full TTL. It reports false
// when the lock expired or changed hands, in which case it is left alone.
func (l *Lock) Extend(ctx context.Context, token string) (bool, error) {
	extended, err := extendScript.Run(ctx, l.rdb, []string{l.key}, token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("extend lock %s: %w", l.key, err)
	}
	return extended == 1, nil
}
