package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"dispatch-route-solver/internal/domain"
)

// RedisTravelTimeCache shares travel durations across planner instances
// through Redis. Entries expire after TTL (zero keeps them forever; road
// durations drift slowly, so long TTLs are fine).
type RedisTravelTimeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTravelTimeCache(rdb *redis.Client, ttl time.Duration) *RedisTravelTimeCache {
	return &RedisTravelTimeCache{rdb: rdb, ttl: ttl}
}

// NewRedisTravelTimeCacheFromURL dials Redis from a redis:// URL.
func NewRedisTravelTimeCacheFromURL(url string, ttl time.Duration) (*RedisTravelTimeCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis travel cache: parse url: %w", err)
	}
	return NewRedisTravelTimeCache(redis.NewClient(opt), ttl), nil
}

func (r *RedisTravelTimeCache) key(from, to domain.Location, allowHighways bool) string {
	return fmt.Sprintf("traveltime:%s|%s|%d", locKey(from), locKey(to), modeFlag(allowHighways))
}

func (r *RedisTravelTimeCache) Get(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, bool, error) {
	if r.rdb == nil {
		return 0, false, errors.New("travel cache: redis client is nil")
	}

	val, err := r.rdb.Get(ctx, r.key(from, to, allowHighways)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: %w", err)
	}

	seconds, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: bad value %q: %w", val, err)
	}

	return seconds, true, nil
}

func (r *RedisTravelTimeCache) Put(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
	seconds int64,
) error {
	if r.rdb == nil {
		return errors.New("travel cache: redis client is nil")
	}
	if seconds < 0 {
		return fmt.Errorf("insert travel cache: negative duration %d", seconds)
	}

	key := r.key(from, to, allowHighways)
	if err := r.rdb.Set(ctx, key, strconv.FormatInt(seconds, 10), r.ttl).Err(); err != nil {
		return fmt.Errorf("insert travel cache: %w", err)
	}

	return nil
}
