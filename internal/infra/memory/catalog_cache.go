package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mission-quiz-service/internal/domain"
)

// CatalogLoader fetches the mission catalog from a backing store (e.g. Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogCache keeps the indexed catalog for a TTL to avoid repeated DB hits.
// A non-positive TTL caches the first successful load forever.
type CatalogCache struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	current   *Catalog
	expiresAt time.Time
}

const catalogKey = "catalog"

func NewCatalogCache(loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) fresh(now time.Time) (*Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, false
	}
	if c.ttl > 0 && !c.expiresAt.After(now) {
		return nil, false
	}
	return c.current, true
}

func (c *CatalogCache) snapshot(ctx context.Context) (*Catalog, error) {
	if cat, ok := c.fresh(c.clock()); ok {
		return cat, nil
	}

	result, err, _ := c.sf.Do(catalogKey, func() (interface{}, error) {
		now := c.clock()
		if cat, ok := c.fresh(now); ok {
			return cat, nil
		}

		snapshot, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		cat := NewCatalog(snapshot)

		c.mu.Lock()
		c.current = cat
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Catalog), nil
}

func (c *CatalogCache) ListMissions(ctx context.Context) ([]domain.Mission, error) {
	cat, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return cat.ListMissions(ctx)
}

func (c *CatalogCache) GetMission(ctx context.Context, id string) (domain.Mission, error) {
	cat, err := c.snapshot(ctx)
	if err != nil {
		return domain.Mission{}, err
	}
	return cat.GetMission(ctx, id)
}

func (c *CatalogCache) ListQuestionsByMission(ctx context.Context, missionID string) ([]domain.Question, error) {
	cat, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return cat.ListQuestionsByMission(ctx, missionID)
}

func (c *CatalogCache) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	cat, err := c.snapshot(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	return cat.GetQuestion(ctx, id)
}

// StaticCatalogLoader serves a fixed snapshot (seed data, tests).
type StaticCatalogLoader struct {
	catalog domain.Catalog
}

func NewStaticCatalogLoader(catalog domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalog: catalog}
}

func (l *StaticCatalogLoader) LoadCatalog(context.Context) (domain.Catalog, error) {
	return l.catalog, nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
