package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"sprint-quiz-service/internal/domain"
)

// BankLoader fetches question-bank content from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// QuestionCache keeps the parsed bank in Redis as a JSON blob with TTL, so
// restarts and replicas skip the backing store and the reparse.
// Stored as: SET quizbank:{bankID}:questions {json} EX {ttl}
type QuestionCache struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader BankLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	key := c.key(bankID)

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if questions, ok := decodeBank(cached); ok {
			return questions, nil
		}
	}

	result, err, _ := c.sf.Do(bankID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
			if questions, ok := decodeBank(cached); ok {
				return questions, nil
			}
		}

		questions, err := c.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) key(bankID string) string {
	return "quizbank:" + bankID + ":questions"
}

func decodeBank(data []byte) ([]domain.Question, bool) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
