package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatpulse/cae/internal/cae/model"
)

func TestScore_LexicalPositive(t *testing.T) {
	result := Score("This is amazing, I love it so much!", nil)
	assert.Equal(t, model.SentimentPositive, result.Label)
	assert.Greater(t, result.Confidence, 0.5)
}

func TestScore_LexicalNegative(t *testing.T) {
	result := Score("I hate this, it's terrible and awful.", nil)
	assert.Equal(t, model.SentimentNegative, result.Label)
}

func TestScore_Filler(t *testing.T) {
	result := Score("ok", nil)
	assert.Equal(t, model.SentimentNeutral, result.Label)
	assert.InDelta(t, 0.55, result.Confidence, 0.01)
}

func TestScore_FillerWithEmojiBias(t *testing.T) {
	result := Score("ok 😢", nil)
	assert.Equal(t, model.SentimentNegative, result.Label)
}

func TestScore_DoubleQuestionMarkPushesNegative(t *testing.T) {
	result := Score("what do you mean??", nil)
	assert.Equal(t, model.SentimentNegative, result.Label)
}

func TestScore_ClassifierHintOverridesNeutralLexical(t *testing.T) {
	hint := &ClassifierHint{Label: model.SentimentNegative, Confidence: 0.9}
	result := Score("the meeting is at 3pm", hint)
	assert.Equal(t, model.SentimentNegative, result.Label)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestScore_ClassifierEmotionsAttachOnlyWhenHintPresent(t *testing.T) {
	withoutHint := Score("I am so happy today", nil)
	assert.Nil(t, withoutHint.Emotions)

	hint := &ClassifierHint{
		Label:      model.SentimentPositive,
		Confidence: 0.8,
		Emotions:   map[model.Emotion]float64{model.EmotionJoy: 0.9},
	}
	withHint := Score("I am so happy today", hint)
	assert.NotNil(t, withHint.Emotions)
	assert.Equal(t, 0.9, withHint.Emotions[model.EmotionJoy])
}

func TestScore_AllCapsAmplifiesDominantSide(t *testing.T) {
	quiet := Score("this is great", nil)
	loud := Score("THIS IS GREAT", nil)
	assert.GreaterOrEqual(t, loud.Confidence, quiet.Confidence)
}

func TestScore_EmptyTextIsNeutral(t *testing.T) {
	result := Score("", nil)
	assert.Equal(t, model.SentimentNeutral, result.Label)
}

func TestScore_EmojiAloneFollowedAsLastResort(t *testing.T) {
	result := Score("Meeting 😊", nil)
	assert.Equal(t, model.SentimentPositive, result.Label)
	assert.GreaterOrEqual(t, result.Confidence, 0.60)
}

func TestScore_MultiWordPatternDrivesPositiveLabel(t *testing.T) {
	result := Score("Can't wait for tomorrow!", nil)
	assert.Equal(t, model.SentimentPositive, result.Label)
	assert.GreaterOrEqual(t, result.Confidence, 0.70)
}

func TestScore_NegativePatternDrivesNegativeLabel(t *testing.T) {
	result := Score("This trip went wrong from the start.", nil)
	assert.Equal(t, model.SentimentNegative, result.Label)
}
