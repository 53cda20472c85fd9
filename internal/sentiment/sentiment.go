// Package sentiment implements the nine-phase lexical sentiment scorer,
// the deterministic fallback used whenever a neural classifier is absent,
// unavailable, or has been cancelled.
package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/emoji"
)

// ClassifierHint carries an optional neural-classifier verdict into Score.
// It is defined here (rather than depending on the classifier package) to
// keep the lexical scorer free-standing and depend only downward.
type ClassifierHint struct {
	Label      model.SentimentLabel
	Confidence float64
	Emotions   map[model.Emotion]float64
}

var wordSplitRegex = regexp.MustCompile(`[\p{L}\p{N}']+`)
var allCapsRunRegex = regexp.MustCompile(`[A-Z]{4,}`)

func normalise(text string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(text)), " .!?,;:")
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// Score runs the nine-phase algorithm against text, optionally informed by
// a neural classifier's verdict. Score is pure and deterministic for a
// given (text, hint) pair.
func Score(text string, hint *ClassifierHint) model.SentimentResult {
	emo := emoji.Analyze(text)

	// Phase 1: filler detection.
	if _, isFiller := fillerWords[normalise(text)]; isFiller {
		if !emo.HasEmojis {
			ea := emo.ToModel()
			return attachEmotions(model.SentimentResult{
				Label:         model.SentimentNeutral,
				Confidence:    0.55,
				EmojiAnalysis: &ea,
			}, hint)
		}
		return attachEmotions(emojiBiasedResult(emo, model.SentimentNeutral, 0.55), hint)
	}

	// Phase 2: tokenisation & word-list scoring.
	lowerText := strings.ToLower(text)
	words := wordSplitRegex.FindAllString(lowerText, -1)
	wordCount := len(words)
	posCount, negCount := 0, 0
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			posCount++
		}
		if _, ok := negativeWords[w]; ok {
			negCount++
		}
	}
	// Phase 3: pattern recognition.
	for _, p := range positivePatterns {
		if strings.Contains(lowerText, p) {
			posCount += 2
		}
	}
	for _, p := range negativePatterns {
		if strings.Contains(lowerText, p) {
			negCount += 2
		}
	}
	wordHits := posCount + negCount

	// Phase 4: punctuation amplifiers.
	posScore, negScore := float64(posCount), float64(negCount)
	if strings.HasSuffix(strings.TrimRight(text, " \t"), "!") {
		posScore += 1
	}
	if strings.Count(text, "?") >= 2 {
		negScore += 1
	}
	if allCapsRunRegex.MatchString(text) {
		if posScore >= negScore {
			posScore *= 1.25
		} else {
			negScore *= 1.25
		}
	}

	// Phase 5: threshold.
	ratio := float64(wordHits) / math.Max(1, float64(wordCount))
	label := model.SentimentNeutral
	if ratio >= 0.08 {
		switch {
		case posScore > negScore:
			label = model.SentimentPositive
		case negScore > posScore:
			label = model.SentimentNegative
		}
	}

	confidence := clamp01(0.5 + 0.1*math.Abs(posScore-negScore))

	// Phase 6: emoji integration.
	if emo.HasEmojis && label != model.SentimentNeutral && emo.Label == label {
		confidence += 0.35 * emo.Confidence
	}

	// Phase 7: classifier override.
	if hint != nil {
		if hint.Label == model.SentimentNeutral && emo.Confidence > 0.6 && emo.Label != model.SentimentNeutral {
			label = emo.Label
			confidence = emo.Confidence
		} else if hint.Label != model.SentimentNeutral {
			label = hint.Label
			confidence = math.Max(hint.Confidence, confidence*0.9)
		}
	}

	// Phase 8: last-resort detection — nothing else fired.
	if label == model.SentimentNeutral && posCount == 0 && negCount == 0 {
		switch {
		case strings.Contains(text, "!"):
			label, confidence = model.SentimentPositive, 0.52
		case strings.Count(text, "?") >= 2:
			label, confidence = model.SentimentNegative, 0.52
		case emo.HasEmojis && emo.Label != model.SentimentNeutral:
			label, confidence = emo.Label, math.Max(0.5+0.35*emo.Confidence, emo.Confidence)
		}
	}

	// Phase 9: confidence clamp.
	if label == model.SentimentNeutral {
		confidence = math.Max(0.5, 1-float64(wordHits)/float64(wordCount+1))
	}
	confidence = clamp01(confidence)

	ea := emo.ToModel()
	result := model.SentimentResult{
		Label:         label,
		Confidence:    confidence,
		EmojiAnalysis: &ea,
	}
	return attachEmotions(result, hint)
}

func emojiBiasedResult(emo emoji.Result, bias model.SentimentLabel, biasConfidence float64) model.SentimentResult {
	label := bias
	confidence := biasConfidence
	if emo.HasEmojis && emo.Label != model.SentimentNeutral {
		label = emo.Label
		confidence = math.Max(biasConfidence, emo.Confidence)
	}
	ea := emo.ToModel()
	return model.SentimentResult{
		Label:         label,
		Confidence:    clamp01(confidence),
		EmojiAnalysis: &ea,
	}
}

func attachEmotions(result model.SentimentResult, hint *ClassifierHint) model.SentimentResult {
	if hint != nil && hint.Emotions != nil {
		result.Emotions = hint.Emotions
	}
	return result
}
