// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runlock

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed run can hold the lock.
	DefaultTTL = 2 * time.Hour

	// keyPrefix namespaces lock keys in Redis.
	keyPrefix = "wealthbox:export-lock:"
)

// releaseScript deletes the key only while it still holds our token, so a
// run whose lock expired cannot release a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds the lock as a Redis key with a TTL.
type RedisLocker struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisLocker creates a locker backed by Redis. A ttl of zero uses
// DefaultTTL.
func NewRedisLocker(rdb redis.Cmdable, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

type redisLock struct {
	rdb   redis.Cmdable
	key   string
	token string
}

// Key returns the Redis key guarding dir.
func Key(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	return keyPrefix + abs
}

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, dir string) (Lock, error) {
	key := Key(dir)
	token := uuid.NewString()

	set, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock SETNX: %w", err)
	}
	if !set {
		return nil, ErrLocked
	}
	return &redisLock{rdb: l.rdb, key: key, token: token}, nil
}

// Release implements Lock.
func (l *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("lock release: %w", err)
	}
	return nil
}
