package parser

import "github.com/chatpulse/cae/internal/cae/model"

// precedence breaks ties among formats with equal match counts, per spec §4.1.
var precedence = []model.Platform{
	model.PlatformWhatsApp,
	model.PlatformTelegram,
	model.PlatformDiscord,
	model.PlatformIMessage,
	model.PlatformGeneric,
}

const detectionSampleSize = 200
const detectionMinRatio = 0.10

// detectFormat scans the first 200 non-empty lines and scores each format's
// header regex, returning the winner per spec §4.1's detection rule.
func detectFormat(raw string, nonEmptyLines []string) model.Platform {
	if looksLikeTelegramJSON(raw) {
		return model.PlatformTelegram
	}

	sample := nonEmptyLines
	if len(sample) > detectionSampleSize {
		sample = sample[:detectionSampleSize]
	}
	if len(sample) == 0 {
		return model.PlatformGeneric
	}

	counts := map[model.Platform]int{}
	for _, line := range sample {
		if whatsAppHeaderRegex.MatchString(line) {
			counts[model.PlatformWhatsApp]++
		}
		if telegramLineRegex.MatchString(line) {
			counts[model.PlatformTelegram]++
		}
		if discordHeaderRegex.MatchString(line) {
			counts[model.PlatformDiscord]++
		}
		if iMessageDateRegex.MatchString(line) {
			counts[model.PlatformIMessage]++
		}
		if genericLineRegex.MatchString(line) {
			counts[model.PlatformGeneric]++
		}
	}

	total := len(sample)

	// Find the highest-scoring format, breaking ties by precedence order.
	best := precedence[0]
	bestCount := counts[best]
	for _, fmtName := range precedence[1:] {
		if counts[fmtName] > bestCount {
			best = fmtName
			bestCount = counts[fmtName]
		}
	}
	if bestCount == 0 {
		return model.PlatformGeneric
	}

	if float64(bestCount)/float64(total) >= detectionMinRatio {
		return best
	}

	// Below threshold: the winner still stands unconditionally if every
	// other format scored zero.
	othersAllZero := true
	for fmtName, c := range counts {
		if fmtName != best && c > 0 {
			othersAllZero = false
			break
		}
	}
	if othersAllZero {
		return best
	}

	return model.PlatformGeneric
}
