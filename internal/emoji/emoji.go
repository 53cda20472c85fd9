// Package emoji extracts emoji code points from a text run and scores their
// aggregate polarity against a compact built-in table.
package emoji

import (
	"math"

	"github.com/chatpulse/cae/internal/cae/model"
)

// Result is the full emoji-analysis read for one text run.
type Result struct {
	HasEmojis     bool
	Count         int
	PerEmojiCount map[string]int
	Label         model.SentimentLabel
	Confidence    float64
}

// ToModel narrows a Result to the trimmed shape embedded in SentimentResult.
func (r Result) ToModel() model.EmojiAnalysis {
	return model.EmojiAnalysis{
		Label:      r.Label,
		Confidence: r.Confidence,
		HasEmojis:  r.HasEmojis,
	}
}

type polarity struct {
	sign   int
	weight float64
}

// polarityTable maps a leading emoji rune (as a one-rune string) to its
// hand-curated polarity. Unknown emoji score 0 (neutral, still counted).
// This is the single frozen table the engine ships with; see DESIGN.md for
// the "open question" this resolves.
var polarityTable = map[string]polarity{
	"😀": {1, 1.0}, "😁": {1, 1.0}, "😂": {1, 0.8}, "🤣": {1, 0.8},
	"😊": {1, 1.0}, "😍": {1, 1.0}, "🥰": {1, 1.0}, "😘": {1, 0.9},
	"😎": {1, 0.7}, "🤗": {1, 0.8}, "👍": {1, 0.8}, "🙌": {1, 0.9},
	"🎉": {1, 1.0}, "❤": {1, 1.0}, "💕": {1, 0.9}, "💖": {1, 0.9},
	"✨": {1, 0.5}, "🔥": {1, 0.6}, "😄": {1, 0.9}, "😃": {1, 0.9},
	"🙂": {1, 0.5}, "😇": {1, 0.8}, "👏": {1, 0.7}, "💪": {1, 0.6},
	"🥳": {1, 1.0}, "😆": {1, 0.8},

	"😢": {-1, 0.8}, "😭": {-1, 1.0}, "😞": {-1, 0.8}, "😔": {-1, 0.8},
	"😡": {-1, 1.0}, "😠": {-1, 0.9}, "😤": {-1, 0.7}, "👎": {-1, 0.8},
	"💔": {-1, 1.0}, "😰": {-1, 0.8}, "😨": {-1, 0.8}, "😱": {-1, 0.8},
	"🙁": {-1, 0.5}, "☹": {-1, 0.6}, "😓": {-1, 0.6}, "😒": {-1, 0.6},
	"😩": {-1, 0.7}, "😫": {-1, 0.7}, "🤬": {-1, 1.0}, "😪": {-1, 0.5},
	"😷": {-1, 0.4}, "🤢": {-1, 0.7}, "🤮": {-1, 0.8},
}

// Analyze extracts emoji sequences from text and returns their aggregate
// polarity. Unknown emojis are counted but contribute zero to the score.
func Analyze(text string) Result {
	runes := []rune(text)
	perEmoji := make(map[string]int)
	var sum float64
	count := 0

	for i := 0; i < len(runes); {
		r := runes[i]
		if !isEmojiBase(r) {
			i++
			continue
		}
		start := i
		leading := r
		i++
		for i < len(runes) {
			rr := runes[i]
			if isVariationSelector(rr) || isSkinToneModifier(rr) {
				i++
				continue
			}
			if isZWJ(rr) && i+1 < len(runes) && isEmojiBase(runes[i+1]) {
				i += 2
				continue
			}
			break
		}
		seq := string(runes[start:i])
		perEmoji[seq]++
		count++
		if p, ok := polarityTable[string(leading)]; ok {
			sum += float64(p.sign) * p.weight
		}
	}

	if count == 0 {
		return Result{HasEmojis: false, Count: 0, PerEmojiCount: perEmoji, Label: model.SentimentNeutral, Confidence: 0}
	}

	label := model.SentimentNeutral
	switch {
	case sum > 0:
		label = model.SentimentPositive
	case sum < 0:
		label = model.SentimentNegative
	}

	denom := math.Max(3, float64(count))
	confidence := math.Min(1, math.Abs(sum)/denom)

	return Result{
		HasEmojis:     true,
		Count:         count,
		PerEmojiCount: perEmoji,
		Label:         label,
		Confidence:    confidence,
	}
}

func isVariationSelector(r rune) bool {
	return r >= 0xFE00 && r <= 0xFE0F
}

func isZWJ(r rune) bool {
	return r == 0x200D
}

func isSkinToneModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// isEmojiBase reports whether r can start an emoji sequence. This covers the
// Unicode blocks that carry the overwhelming majority of emoji in the wild;
// it is not a full Emoji= property table, but it is total on any input
// (never panics, never matches outside these ranges).
func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols & pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport & map symbols
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols & pictographs
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols & pictographs extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x26FF: // miscellaneous symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // miscellaneous symbols and arrows
		return true
	case r == 0x2764: // heavy black heart, commonly rendered without FE0F
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	default:
		return false
	}
}
