package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/fundgraph/internal/platform/envutil"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

// QueryCache remembers translations per (tenant, question).
type QueryCache interface {
	Get(ctx context.Context, tenantID, question string) (string, bool, error)
	Set(ctx context.Context, tenantID, question, cypher string) error
}

type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: "fundgraph:cypher:", ttl: ttl}
}

// NewRedisCacheFromEnv connects to REDIS_ADDR. It returns nil, nil when REDIS_ADDR is
// unset so the assistant runs uncached.
func NewRedisCacheFromEnv(log *logger.Logger) (*RedisCache, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Warn("REDIS_ADDR not set; query cache disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCache(rdb, envutil.Seconds("QUERY_CACHE_TTL_SECONDS", 24*time.Hour)), nil
}

func (c *RedisCache) key(tenantID, question string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(tenantID + "\x00" + norm))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, tenantID, question string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, c.key(tenantID, question)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, tenantID, question, cypher string) error {
	return c.rdb.Set(ctx, c.key(tenantID, question), cypher, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
