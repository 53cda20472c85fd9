// Package redflag applies a fixed rule set over an aggregated ChatAnalysis
// to produce typed findings and the derived three-valued health label.
package redflag

import (
	"fmt"
	"math"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
)

// Fixed floors that gate each rule but aren't among the tunable thresholds
// spec §6 names; these stay constants regardless of config.
const (
	minResponseEvents       = 10
	minPeriodDaysForDrop    = 14
	minInitiations          = 10
	lowEngagementQuestion   = 0.05
	minMessagesForImbalance = 50
	highNegativeRatio       = 0.45
	nightActivityRatio      = 0.25
)

// Detect evaluates the fixed rule set against analysis and returns the
// findings, without mutating analysis.RedFlags. cfg supplies the five
// red-flag thresholds from spec §6; a nil cfg falls back to the frozen
// defaults.
func Detect(analysis model.ChatAnalysis, cfg *config.Config) model.RedFlags {
	cfg = cfgOrDefault(cfg)
	var redFlags, warnings []model.Finding

	if f, ok := checkMessageImbalance(analysis, cfg); ok {
		redFlags = append(redFlags, f)
	}
	if f, ok := checkSlowResponses(analysis, cfg); ok {
		redFlags = append(redFlags, f)
	}
	if f, ok := checkFrequencyDrop(analysis, cfg); ok {
		redFlags = append(redFlags, f)
	}
	if f, ok := checkOneSidedInitiation(analysis, cfg); ok {
		redFlags = append(redFlags, f)
	}
	if f, ok := checkLowEngagement(analysis, cfg); ok {
		redFlags = append(redFlags, f)
	}

	if f, ok := checkHighNegativeSentiment(analysis); ok {
		warnings = append(warnings, f)
	}
	if f, ok := checkNightActivitySkew(analysis); ok {
		warnings = append(warnings, f)
	}
	if f, ok := checkBurstSilence(analysis); ok {
		warnings = append(warnings, f)
	}

	result := model.RedFlags{
		RedFlags:      redFlags,
		Warnings:      warnings,
		TotalRedFlags: len(redFlags),
		TotalWarnings: len(warnings),
	}
	result.OverallHealth = deriveHealth(result)
	return result
}

// cfgOrDefault returns cfg unchanged, or the frozen defaults when cfg is nil.
func cfgOrDefault(cfg *config.Config) *config.Config {
	if cfg != nil {
		return cfg
	}
	defaults, _ := config.Load("")
	return defaults
}

// deriveHealth matches §3's invariant exactly: concerning iff totalRedFlags
// >= 2 or any red flag is high severity; moderate iff any red flag or
// totalWarnings >= 2; otherwise healthy.
func deriveHealth(r model.RedFlags) model.HealthLabel {
	anyHigh := false
	for _, f := range r.RedFlags {
		if f.Severity == model.SeverityHigh {
			anyHigh = true
			break
		}
	}
	if r.TotalRedFlags >= 2 || anyHigh {
		return model.HealthConcerning
	}
	if r.TotalRedFlags >= 1 || r.TotalWarnings >= 2 {
		return model.HealthModerate
	}
	return model.HealthHealthy
}

func checkMessageImbalance(a model.ChatAnalysis, cfg *config.Config) (model.Finding, bool) {
	if a.TotalMessages < minMessagesForImbalance || len(a.BasicStats.MessagesPerParticipant) < 2 {
		return model.Finding{}, false
	}
	maxCount, minCount := 0, math.MaxInt32
	for _, c := range a.BasicStats.MessagesPerParticipant {
		if c > maxCount {
			maxCount = c
		}
		if c < minCount {
			minCount = c
		}
	}
	if float64(maxCount)/float64(minCount) > cfg.RedFlags.MessageImbalanceRatio {
		return model.Finding{Type: "message_imbalance", Severity: model.SeverityHigh,
			Description: fmt.Sprintf("message volume is skewed %d:%d between participants", maxCount, minCount),
			Suggestion:  "encourage a more balanced back-and-forth"}, true
	}
	return model.Finding{}, false
}

func checkSlowResponses(a model.ChatAnalysis, cfg *config.Config) (model.Finding, bool) {
	for name, stat := range a.EngagementMetrics.ResponseTimeAnalysis {
		if stat.Count >= minResponseEvents && stat.AverageMinutes > cfg.RedFlags.SlowResponseMinutes {
			return model.Finding{Type: "slow_responses", Severity: model.SeverityMedium,
				Description: fmt.Sprintf("%s averages over %.0f minutes to reply", name, stat.AverageMinutes),
				Suggestion:  "consider setting expectations around response times"}, true
		}
	}
	return model.Finding{}, false
}

func checkFrequencyDrop(a model.ChatAnalysis, cfg *config.Config) (model.Finding, bool) {
	if a.Period == nil || a.Period.DurationDays < minPeriodDaysForDrop {
		return model.Finding{}, false
	}
	daily := a.MessagingPatterns.DailyMessageCounts
	if len(daily) < minPeriodDaysForDrop {
		return model.Finding{}, false
	}
	firstWeek := sumRange(daily, 0, 7)
	lastWeek := sumRange(daily, len(daily)-7, len(daily))
	firstRate := float64(firstWeek) / 7.0
	lastRate := float64(lastWeek) / 7.0
	if firstRate == 0 {
		return model.Finding{}, false
	}
	if lastRate < cfg.RedFlags.FrequencyDropRatio*firstRate {
		return model.Finding{Type: "frequency_drop", Severity: model.SeverityHigh,
			Description: "messaging frequency dropped by more than half between the first and last week",
			Suggestion:  "reach out proactively if the drop-off is unexpected"}, true
	}
	return model.Finding{}, false
}

func sumRange(daily []int, start, end int) int {
	sum := 0
	for i := start; i < end && i < len(daily); i++ {
		if i < 0 {
			continue
		}
		sum += daily[i]
	}
	return sum
}

func checkOneSidedInitiation(a model.ChatAnalysis, cfg *config.Config) (model.Finding, bool) {
	total := 0
	maxName, maxCount := "", 0
	for name, c := range a.EngagementMetrics.ConversationInitiations {
		total += c
		if c > maxCount {
			maxCount, maxName = c, name
		}
	}
	if total < minInitiations {
		return model.Finding{}, false
	}
	other := total - maxCount
	if other == 0 {
		return model.Finding{Type: "one_sided_initiation", Severity: model.SeverityMedium,
			Description: fmt.Sprintf("%s starts every conversation", maxName),
			Suggestion:  "invite the other participant to initiate sometimes"}, true
	}
	if float64(maxCount)/float64(other) >= cfg.RedFlags.OneSidedInitiationRatio {
		return model.Finding{Type: "one_sided_initiation", Severity: model.SeverityMedium,
			Description: fmt.Sprintf("%s initiates conversations far more often than the other participant", maxName),
			Suggestion:  "invite the other participant to initiate sometimes"}, true
	}
	return model.Finding{}, false
}

func checkLowEngagement(a model.ChatAnalysis, cfg *config.Config) (model.Finding, bool) {
	if a.BasicStats.AverageMessageLength >= cfg.RedFlags.LowEngagementAvgChars {
		return model.Finding{}, false
	}
	if a.BasicStats.QuestionRatio >= lowEngagementQuestion {
		return model.Finding{}, false
	}
	return model.Finding{Type: "low_engagement", Severity: model.SeverityMedium,
		Description: "messages are short and rarely ask questions",
		Suggestion:  "try asking more open-ended questions to deepen the conversation"}, true
}

func checkHighNegativeSentiment(a model.ChatAnalysis) (model.Finding, bool) {
	if a.SentimentAnalysis.Overall.NegativeRatio > highNegativeRatio {
		return model.Finding{Type: "high_negative_sentiment", Severity: model.SeverityMedium,
			Description: "overall sentiment skews negative",
			Suggestion:  "be mindful of tone; consider checking in about how things are going"}, true
	}
	return model.Finding{}, false
}

func checkNightActivitySkew(a model.ChatAnalysis) (model.Finding, bool) {
	if a.TotalMessages == 0 {
		return model.Finding{}, false
	}
	nightCount := 0
	for h := 0; h <= 4; h++ {
		nightCount += a.MessagingPatterns.HourlyDistribution[h]
	}
	if float64(nightCount)/float64(a.TotalMessages) > nightActivityRatio {
		return model.Finding{Type: "night_activity_skew", Severity: model.SeverityLow,
			Description: "a large share of messages happen between midnight and 4am",
			Suggestion:  "irregular sleep patterns can affect mood; worth noting"}, true
	}
	return model.Finding{}, false
}

func checkBurstSilence(a model.ChatAnalysis) (model.Finding, bool) {
	counts := a.MessagingPatterns.DailyMessageCounts
	if len(counts) < 2 {
		return model.Finding{}, false
	}
	n := float64(len(counts))
	sum := 0.0
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / n
	if mean == 0 {
		return model.Finding{}, false
	}
	variance := 0.0
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= n
	stdDev := math.Sqrt(variance)
	if stdDev > 2*mean {
		return model.Finding{Type: "burst_silence", Severity: model.SeverityLow,
			Description: "activity alternates between bursts and long silences",
			Suggestion:  "a more consistent rhythm may ease anticipation anxiety"}, true
	}
	return model.Finding{}, false
}
