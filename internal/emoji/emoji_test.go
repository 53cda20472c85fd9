package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatpulse/cae/internal/cae/model"
)

func TestAnalyze_NoEmojis(t *testing.T) {
	r := Analyze("just plain text")
	assert.False(t, r.HasEmojis)
	assert.Equal(t, 0, r.Count)
	assert.Equal(t, model.SentimentNeutral, r.Label)
}

func TestAnalyze_PositiveEmoji(t *testing.T) {
	r := Analyze("great job 😀")
	assert.True(t, r.HasEmojis)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, model.SentimentPositive, r.Label)
}

func TestAnalyze_NegativeEmoji(t *testing.T) {
	r := Analyze("that's awful 😭")
	assert.True(t, r.HasEmojis)
	assert.Equal(t, model.SentimentNegative, r.Label)
}

func TestAnalyze_MixedEmojiNetsOut(t *testing.T) {
	r := Analyze("😀😭")
	assert.True(t, r.HasEmojis)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, model.SentimentNeutral, r.Label)
}

func TestAnalyze_UnknownEmojiCountedButNeutral(t *testing.T) {
	r := Analyze("🪐")
	assert.True(t, r.HasEmojis)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, model.SentimentNeutral, r.Label)
}

func TestAnalyze_SkinToneModifierFoldedIntoSequence(t *testing.T) {
	r := Analyze("👍🏽")
	assert.Equal(t, 1, r.Count)
	assert.Contains(t, r.PerEmojiCount, "👍🏽")
}

func TestAnalyze_ZWJSequenceFoldedIntoOneEmoji(t *testing.T) {
	// family: man + ZWJ + woman + ZWJ + girl
	seq := "\U0001F468‍\U0001F469‍\U0001F467"
	r := Analyze(seq)
	assert.Equal(t, 1, r.Count)
}

func TestAnalyze_RepeatedEmojiCounted(t *testing.T) {
	r := Analyze("😀😀😀")
	assert.Equal(t, 3, r.Count)
	assert.Equal(t, 3, r.PerEmojiCount["😀"])
}
