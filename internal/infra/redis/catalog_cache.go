package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

const (
	catalogNamesKey = "quiz:catalog:names"
	catalogSpecsKey = "quiz:catalog:specs"
)

// CatalogCache shares catalog reads between service instances through Redis and falls
// back to the loader on a miss.
// Names are stored in catalog order: RPUSH quiz:catalog:names {name}
// Specs are stored as JSON:          HSET  quiz:catalog:specs {name} {json}
// A name repeated in the source keeps its first spec, matching what an import keeps,
// so a hit and a miss return the same catalog.
type CatalogCache struct {
	client *redis.Client
	loader app.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadCatalog(ctx context.Context) ([]domain.QuizSpec, error) {
	if specs, ok := c.cached(ctx); ok {
		return specs, nil
	}

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if specs, ok := c.cached(ctx); ok {
			return specs, nil
		}

		specs, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		specs = firstByName(specs)
		c.store(ctx, specs)
		return specs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizSpec), nil
}

func (c *CatalogCache) cached(ctx context.Context) ([]domain.QuizSpec, bool) {
	names, err := c.client.LRange(ctx, catalogNamesKey, 0, -1).Result()
	if err != nil || len(names) == 0 {
		return nil, false
	}
	raw, err := c.client.HMGet(ctx, catalogSpecsKey, names...).Result()
	if err != nil {
		return nil, false
	}

	specs := make([]domain.QuizSpec, 0, len(names))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			// partially expired entry, treat as a miss
			return nil, false
		}
		var spec domain.QuizSpec
		if err := json.Unmarshal([]byte(s), &spec); err != nil {
			return nil, false
		}
		spec.Name = names[i]
		specs = append(specs, spec)
	}
	return specs, true
}

func (c *CatalogCache) store(ctx context.Context, specs []domain.QuizSpec) {
	if len(specs) == 0 {
		return
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, catalogNamesKey, catalogSpecsKey)
	for _, spec := range specs {
		data, err := json.Marshal(spec)
		if err != nil {
			log.Printf("cache quiz %q: %v", spec.Name, err)
			return
		}
		pipe.RPush(ctx, catalogNamesKey, spec.Name)
		pipe.HSet(ctx, catalogSpecsKey, spec.Name, data)
	}
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, catalogNamesKey, ttl)
		pipe.Expire(ctx, catalogSpecsKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("cache catalog: %v", err)
	}
}

func firstByName(specs []domain.QuizSpec) []domain.QuizSpec {
	seen := make(map[string]struct{}, len(specs))
	out := make([]domain.QuizSpec, 0, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.Name]; dup {
			continue
		}
		seen[spec.Name] = struct{}{}
		out = append(out, spec)
	}
	return out
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
