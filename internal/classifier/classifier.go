// Package classifier defines the neural-classifier adapter contract the
// engine optionally consults, plus caching decorators around it. The core
// operates fully without a Classifier; it is an injected collaborator.
package classifier

import (
	"context"
	"errors"

	"github.com/chatpulse/cae/internal/cae/model"
)

// ErrUnavailable signals that the classifier could not produce a result
// (timeout, transport failure, rate limit). Callers fall back to lexical
// scoring; this is never a fatal error.
var ErrUnavailable = errors.New("classifier unavailable")

// Result is one classifier verdict for a single text run.
type Result struct {
	Label      model.SentimentLabel
	Confidence float64
	Emotions   map[model.Emotion]float64
}

// Classifier is the optional neural-model collaborator. Implementations
// must respect ctx cancellation and return ErrUnavailable (wrapped or bare)
// rather than blocking indefinitely.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}
