package classifier

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/chatpulse/cae/internal/cache"
)

// RedisCachedClassifier is the host-scale analogue of CachedClassifier: a
// shared Redis cache instead of a per-process LRU, for deployments running
// more than one engine instance.
type RedisCachedClassifier struct {
	inner Classifier
	cache *cache.Cache
	model string
}

func NewRedisCachedClassifier(inner Classifier, c *cache.Cache, modelName string) *RedisCachedClassifier {
	return &RedisCachedClassifier{inner: inner, cache: c, model: modelName}
}

func (c *RedisCachedClassifier) cacheKey(text string) string {
	h := md5.Sum([]byte(text))
	return fmt.Sprintf("classifier:%s:%s", c.model, hex.EncodeToString(h[:]))
}

func (c *RedisCachedClassifier) Classify(ctx context.Context, text string) (Result, error) {
	key := c.cacheKey(text)

	var cached Result
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("classifier: redis cache read failed, calling through: %v", err)
	}

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if err := c.cache.SetJSON(ctx, key, result, cache.ClassifierResultTTL); err != nil {
		log.Printf("classifier: redis cache write failed: %v", err)
	}

	return result, nil
}
