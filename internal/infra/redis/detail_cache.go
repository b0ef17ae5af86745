package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
)

// DetailCache caches quiz details in Redis as JSON and falls back to a
// loader on cache miss. Cached entries carry the full question set including
// correct answers, so the cache must never be exposed directly; handlers
// strip answers before responding to takers.
type DetailCache struct {
	client *redis.Client
	source app.QuizDetailSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDetailCache(client *redis.Client, source app.QuizDetailSource, ttl time.Duration) *DetailCache {
	return &DetailCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *DetailCache) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	key := c.key(quizID)

	if detail, ok := c.fromCache(ctx, key); ok {
		return detail, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if detail, ok := c.fromCache(ctx, key); ok {
			return detail, nil
		}

		detail, err := c.source.QuizDetail(ctx, quizID)
		if err != nil {
			return domain.QuizDetail{}, err
		}

		if payload, err := json.Marshal(detail); err == nil {
			// best-effort write; a failed cache fill only costs a reload
			_ = c.client.Set(ctx, key, payload, c.ttlWithJitter()).Err()
		}
		return detail, nil
	})
	if err != nil {
		return domain.QuizDetail{}, err
	}
	return result.(domain.QuizDetail), nil
}

func (c *DetailCache) fromCache(ctx context.Context, key string) (domain.QuizDetail, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuizDetail{}, false
	}
	var detail domain.QuizDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		return domain.QuizDetail{}, false
	}
	return detail, true
}

func (c *DetailCache) key(quizID int64) string {
	return "quiz:detail:" + strconv.FormatInt(quizID, 10)
}

func (c *DetailCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
