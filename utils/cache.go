package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yatube-go/yatube/config"
)

const (
	defaultCacheTTL = time.Hour
	redisOpTimeout  = 2 * time.Second
)

// Cache is a process-wide keyed byte store with TTL eviction and explicit invalidation.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetBytes(ctx context.Context, key string, b []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context)
}

// NewCache returns the backend selected by CacheBackend. Keys are namespaced by prefix.
func NewCache(cfg config.AppConfig, prefix string) Cache {
	if cfg.CacheBackend == "redis" {
		return NewRedisCache(GetRedis(cfg), prefix)
	}
	return NewMemoryCache()
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache keeps entries in a map guarded by a mutex. Single instance only.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memEntry{}, now: time.Now}
}

func (m *MemoryCache) GetBytes(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *MemoryCache) SetBytes(_ context.Context, key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	m.entries[key] = memEntry{value: cp, expiresAt: now.Add(ttl)}
}

func (m *MemoryCache) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *MemoryCache) Clear(_ context.Context) {
	m.mu.Lock()
	m.entries = map[string]memEntry{}
	m.mu.Unlock()
}

// RedisCache stores entries in Redis under a common key prefix.
type RedisCache struct {
	rc     *redis.Client
	prefix string
}

// NewRedisCache wraps an existing client.
func NewRedisCache(rc *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rc: rc, prefix: prefix}
}

func (r *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	b, err := r.rc.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Warnf("cache get failed key=%s err=%v", r.prefix+key, err)
		}
		return nil, false
	}
	return b, true
}

func (r *RedisCache) SetBytes(ctx context.Context, key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.rc.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", r.prefix+key, err)
	}
}

func (r *RedisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.rc.Del(ctx, r.prefix+key).Err(); err != nil {
		Sugar.Warnf("cache delete failed key=%s err=%v", r.prefix+key, err)
	}
}

func (r *RedisCache) Clear(ctx context.Context) {
	InvalidateByPrefix(ctx, r.rc, r.prefix)
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func InvalidateByPrefix(ctx context.Context, rc *redis.Client, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			Sugar.Warnf("cache scan failed prefix=%s err=%v", prefix, err)
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
