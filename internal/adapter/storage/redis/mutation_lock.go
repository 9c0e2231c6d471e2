package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const lockRetryInterval = 50 * time.Millisecond

// unlockScript deletes the lock key only when it still holds our token, so a
// lock that expired and was re-acquired by another process is never released
// by the original holder.
var unlockScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// MutationLock implements ports.MutationLock with a single Redis SET NX key.
// Every mutating ledger operation runs under this lock, so batches never
// interleave even across multiple API instances.
type MutationLock struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
	log    zerolog.Logger
}

// NewMutationLock creates a new Redis-backed mutation lock. ttl bounds how
// long a crashed holder can block the ledger; wait bounds how long Acquire
// blocks before giving up.
func NewMutationLock(client *goredis.Client, key string, ttl, wait time.Duration, log zerolog.Logger) *MutationLock {
	return &MutationLock{
		client: client,
		key:    key,
		ttl:    ttl,
		wait:   wait,
		log:    log,
	}
}

// Acquire blocks until the lock is held or the wait budget is exhausted.
// The returned release function must be called on every exit path.
func (l *MutationLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock acquire: %w", err)
		}
		if ok {
			return func() { l.release(token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("mutation lock %s held past wait budget %s", l.key, l.wait)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *MutationLock) release(token string) {
	// Release is detached from the caller's context: the lock must be freed
	// even when the request that held it was cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
		l.log.Warn().Err(err).Str("key", l.key).Msg("mutation lock release failed")
	}
}
