package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"eduquiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches quiz content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuiz(ctx context.Context, topic string) (domain.Quiz, error)
	ListTopics(ctx context.Context) ([]string, error)
}

// CatalogCache caches per-topic question lists with TTL to avoid repeated DB
// hits. Admin question writes go directly to the backing store, so entries
// expire rather than invalidate.
type CatalogCache struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewCatalogCache(loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (c *CatalogCache) Questions(ctx context.Context, topic string) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[topic]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz.Questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(topic, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[topic]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.loader.LoadQuiz(ctx, topic)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[topic] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Quiz).Questions, nil
}

func (c *CatalogCache) Topics(ctx context.Context) ([]string, error) {
	return c.loader.ListTopics(ctx)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
