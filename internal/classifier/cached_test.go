package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chatpulse/cae/internal/cae/model"
)

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (Result, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(Result), args.Error(1)
}

func TestCachedClassifier_CacheHitAvoidsSecondCall(t *testing.T) {
	inner := new(mockClassifier)
	cached := NewCachedClassifier(inner, 10, "test-model")

	want := Result{Label: model.SentimentPositive, Confidence: 0.9}
	inner.On("Classify", mock.Anything, "hello").Return(want, nil).Once()

	got, err := cached.Classify(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	got2, err2 := cached.Classify(context.Background(), "hello")
	assert.NoError(t, err2)
	assert.Equal(t, want, got2)

	inner.AssertExpectations(t)
}

func TestCachedClassifier_PropagatesInnerError(t *testing.T) {
	inner := new(mockClassifier)
	cached := NewCachedClassifier(inner, 10, "test-model")

	inner.On("Classify", mock.Anything, "boom").Return(Result{}, errors.New("transport failure"))

	_, err := cached.Classify(context.Background(), "boom")
	assert.Error(t, err)
}

func TestCachedClassifier_InvalidSizeFallsBackTo1000(t *testing.T) {
	inner := new(mockClassifier)
	cached := NewCachedClassifier(inner, -1, "test-model")
	assert.NotNil(t, cached)
}

func TestCachedClassifier_DifferentTextsDoNotShareCacheEntries(t *testing.T) {
	inner := new(mockClassifier)
	cached := NewCachedClassifier(inner, 10, "test-model")

	inner.On("Classify", mock.Anything, "a").Return(Result{Label: model.SentimentPositive}, nil).Once()
	inner.On("Classify", mock.Anything, "b").Return(Result{Label: model.SentimentNegative}, nil).Once()

	ra, _ := cached.Classify(context.Background(), "a")
	rb, _ := cached.Classify(context.Background(), "b")

	assert.Equal(t, model.SentimentPositive, ra.Label)
	assert.Equal(t, model.SentimentNegative, rb.Label)
	inner.AssertExpectations(t)
}
