package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// CatalogCache keeps the last catalog read for a TTL so repeated imports do not hit the
// backing store every time.
type CatalogCache struct {
	loader app.CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	loaded    bool
	specs     []domain.QuizSpec
	expiresAt time.Time
}

func NewCatalogCache(loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadCatalog(ctx context.Context) ([]domain.QuizSpec, error) {
	if specs, ok := c.cached(c.clock()); ok {
		return specs, nil
	}

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		now := c.clock()
		if specs, ok := c.cached(now); ok {
			return specs, nil
		}

		specs, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.loaded = true
		c.specs = specs
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return specs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizSpec), nil
}

func (c *CatalogCache) cached(now time.Time) ([]domain.QuizSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loaded && c.expiresAt.After(now) {
		return c.specs, true
	}
	return nil, false
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
