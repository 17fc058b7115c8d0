package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// ── Stock cache ───────────────────────────────────────────────────────────────

// StockCache memoises total stock per product in Redis. A nil *StockCache (or
// one without a client) is a valid, always-missing cache. Cache errors are
// never returned to callers: the ledger is always the source of truth.
type StockCache struct {
	rdb *redis.Client
	cb  *CircuitBreaker
	ttl time.Duration
}

func NewStockCache(rdb *redis.Client, ttl time.Duration) *StockCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StockCache{rdb: rdb, cb: NewCircuitBreaker(DefaultCBConfig()), ttl: ttl}
}

func stockKey(productoID uint) string {
	return fmt.Sprintf("stock:total:%d", productoID)
}

// Get returns the cached total and whether it was present.
func (c *StockCache) Get(ctx context.Context, productoID uint) (int, bool) {
	if c == nil {
		return 0, false
	}
	var (
		total int
		hit   bool
	)
	err := c.cb.Execute(func() error {
		v, err := c.rdb.Get(ctx, stockKey(productoID)).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil // corrupt entry, treat as miss
		}
		total, hit = n, true
		return nil
	})
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		log.Debug().Err(err).Uint("producto_id", productoID).Msg("stock cache: get failed")
	}
	return total, hit
}

func (c *StockCache) Set(ctx context.Context, productoID uint, total int) {
	if c == nil {
		return
	}
	err := c.cb.Execute(func() error {
		return c.rdb.Set(ctx, stockKey(productoID), total, c.ttl).Err()
	})
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		log.Debug().Err(err).Uint("producto_id", productoID).Msg("stock cache: set failed")
	}
}

// Invalidate drops the cached totals of the given products.
func (c *StockCache) Invalidate(ctx context.Context, productoIDs ...uint) {
	if c == nil || len(productoIDs) == 0 {
		return
	}
	keys := make([]string, len(productoIDs))
	for i, id := range productoIDs {
		keys[i] = stockKey(id)
	}
	err := c.cb.Execute(func() error {
		return c.rdb.Del(ctx, keys...).Err()
	})
	if err != nil {
		// a stale total would survive until the TTL expires
		log.Warn().Err(err).Uints("producto_ids", productoIDs).Msg("stock cache: invalidate failed")
	}
}
