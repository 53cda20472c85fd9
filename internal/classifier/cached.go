package classifier

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedClassifier wraps a Classifier with an in-process LRU cache keyed on
// a hash of the text, grounded on the same decorator pattern used for the
// reference bot's label classifier.
type CachedClassifier struct {
	inner Classifier
	cache *lru.Cache[string, Result]
	model string
}

// NewCachedClassifier builds a CachedClassifier with capacity cacheSize.
// A non-positive cacheSize falls back to 1000 entries.
func NewCachedClassifier(inner Classifier, cacheSize int, modelName string) *CachedClassifier {
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		log.Printf("classifier: invalid cache size %d, using 1000: %v", cacheSize, err)
		cache, _ = lru.New[string, Result](1000)
	}
	return &CachedClassifier{inner: inner, cache: cache, model: modelName}
}

func (c *CachedClassifier) cacheKey(text string) string {
	h := md5.Sum([]byte(text))
	return fmt.Sprintf("%s:%s", c.model, hex.EncodeToString(h[:]))
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (Result, error) {
	key := c.cacheKey(text)
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}

	c.cache.Add(key, result)
	return result, nil
}
