package distance

import (
	"context"
	"fmt"
	"log"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/ports"
)

// CachingTravelTimeProvider consults a persistent cache before delegating
// to a live provider, and writes fresh results back. Cache write failures
// are logged, not propagated: a degraded cache must never fail a matrix
// build the live provider could serve.
type CachingTravelTimeProvider struct {
	Cache ports.TravelTimeCache
	Next  ports.TravelTimeProvider
}

func NewCachingTravelTimeProvider(cache ports.TravelTimeCache, next ports.TravelTimeProvider) *CachingTravelTimeProvider {
	return &CachingTravelTimeProvider{Cache: cache, Next: next}
}

func (c *CachingTravelTimeProvider) TravelTime(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, error) {
	if from == to {
		return 0, nil
	}

	if c.Cache != nil {
		seconds, ok, err := c.Cache.Get(ctx, from, to, allowHighways)
		if err != nil {
			log.Printf("travel cache read failed: %v", err)
		} else if ok {
			return seconds, nil
		}
	}

	seconds, err := c.Next.TravelTime(ctx, from, to, allowHighways)
	if err != nil {
		return 0, fmt.Errorf("travel time fetch: %w", err)
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, from, to, allowHighways, seconds); err != nil {
			log.Printf("travel cache write failed: %v", err)
		}
	}

	return seconds, nil
}
