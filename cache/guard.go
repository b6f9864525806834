package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// DefaultGuardTTL bounds how long a processing key is held if its owner never releases it
const DefaultGuardTTL = 5 * time.Second

// DefaultGuardSize is how many keys the in-memory guard tracks
const DefaultGuardSize = 4096

const guardPrefix = "studio:processing:"

// Guard marks keys as in flight so concurrent duplicates of a mutation can be rejected
type Guard interface {
	// Acquire reports false when key is already held
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// NewGuard returns a redis backed guard when redisURL is set and an in-process guard otherwise
func NewGuard(redisURL string) (Guard, error) {
	if redisURL == "" {
		zap.S().Info("REDIS_URL not set, using in-memory processing guard")
		return NewMemoryGuard(DefaultGuardSize), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisGuard(redis.NewClient(opts)), nil
}

// RedisGuard shares processing keys between every api instance
type RedisGuard struct {
	rc *redis.Client
}

// NewRedisGuard wraps an existing redis client
func NewRedisGuard(rc *redis.Client) *RedisGuard {
	return &RedisGuard{rc: rc}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.rc.SetNX(ctx, guardPrefix+key, time.Now().UTC().Unix(), ttl).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.rc.Del(ctx, guardPrefix+key).Err()
}

// Ping checks the redis connection
func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.rc.Ping(ctx).Err()
}

// MemoryGuard keeps processing keys in a bounded lru, scoped to one process
type MemoryGuard struct {
	mu    sync.Mutex
	keys  *lru.Cache
	clock func() time.Time
}

// NewMemoryGuard holds at most size keys; the oldest are evicted first
func NewMemoryGuard(size int) *MemoryGuard {
	keys, err := lru.New(size)
	if err != nil {
		// only fails for a non-positive size
		keys, _ = lru.New(1)
	}
	return &MemoryGuard{keys: keys, clock: time.Now}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	if v, ok := g.keys.Get(key); ok && now.Before(v.(time.Time)) {
		return false, nil
	}
	g.keys.Add(key, now.Add(ttl))
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keys.Remove(key)
	return nil
}
