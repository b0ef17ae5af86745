package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
)

// DetailCache caches quiz details with TTL to avoid repeated storage hits on
// the hot taker read path. Scoring never reads through here: it always loads
// questions straight from the repository.
type DetailCache struct {
	source app.QuizDetailSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedDetail
}

type cachedDetail struct {
	detail    domain.QuizDetail
	expiresAt time.Time
}

func NewDetailCache(source app.QuizDetailSource, ttl time.Duration) *DetailCache {
	return &DetailCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedDetail),
	}
}

func (c *DetailCache) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.detail, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.FormatInt(quizID, 10), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.detail, nil
		}
		c.mu.RUnlock()

		detail, err := c.source.QuizDetail(ctx, quizID)
		if err != nil {
			return domain.QuizDetail{}, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedDetail{
			detail:    detail,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return detail, nil
	})
	if err != nil {
		return domain.QuizDetail{}, err
	}
	return result.(domain.QuizDetail), nil
}

func (c *DetailCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
