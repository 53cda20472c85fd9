// Package aggregate turns a canonical message stream into the fixed
// ChatAnalysis schema: basic stats, participants, temporal patterns,
// engagement metrics, sentiment rollups, and emoji stats. Red-flag
// findings are deliberately left zero-valued here; the detector consumes
// this result in a second pass, per the engine facade's pipeline.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
	"github.com/chatpulse/cae/internal/emoji"
)

// Scorer scores one message's text. The engine supplies either the pure
// lexical scorer or one wrapped around a neural classifier hint; the
// aggregator itself has no opinion on which.
type Scorer func(text string) model.SentimentResult

// Aggregate computes the full ChatAnalysis for messages, scoring every
// non-media message through score. selfName, when non-nil, marks the
// matching participant's role as "self" (case-insensitive, trimmed). cfg
// supplies the conversation-gap and response-time-cap tunables from
// spec §6; a nil cfg falls back to the frozen defaults.
func Aggregate(messages []model.Message, selfName *string, score Scorer, cfg *config.Config) (model.ChatAnalysis, []model.Diagnostic) {
	cfg = cfgOrDefault(cfg)
	conversationGap := time.Duration(cfg.Conversation.GapHours * float64(time.Hour))
	responseTimeCap := time.Duration(cfg.Conversation.ResponseCapHours * float64(time.Hour))

	var diags []model.Diagnostic

	analysis := model.ChatAnalysis{
		TotalMessages: len(messages),
		Participants:  map[string]model.Participant{},
	}

	if len(messages) == 0 {
		analysis.BasicStats = model.BasicStats{MessagesPerParticipant: map[string]int{}}
		analysis.MessagingPatterns = model.MessagingPatterns{DayOfWeekDistribution: map[string]int{}, FrequencyPerParticipant: map[string]float64{}}
		analysis.EngagementMetrics = model.EngagementMetrics{ResponseTimeAnalysis: map[string]model.ResponseTimeStat{}, ConversationInitiations: map[string]int{}}
		analysis.SentimentAnalysis = model.SentimentAnalysis{PerParticipant: map[string]model.SentimentRatios{}}
		analysis.EmojiStats = model.EmojiStats{}
		return analysis, diags
	}

	period, periodDays := computePeriod(messages)
	analysis.Period = period

	perSenderCount := map[string]int{}
	perSenderCharTotal := map[string]int{}
	longestSender, longestLen := "", -1
	var longestTS *time.Time

	hourly := [24]int{}
	weekday := map[string]int{}
	questionCount := 0

	responseDeltas := map[string][]float64{}
	initiations := map[string]int{}

	sentimentCounts := map[string]map[model.SentimentLabel]int{}
	overallSentiment := map[model.SentimentLabel]int{}
	scoredTotal := 0

	emojiTotals := map[string]int{}
	emojiCounters := map[string]map[string]int{}
	emojiFirstSeen := map[string]map[string]int{}
	seq := 0

	var prev *model.Message

	for i := range messages {
		msg := &messages[i]
		sender := msg.Sender

		perSenderCount[sender]++
		perSenderCharTotal[sender] += len([]rune(msg.Text))
		if strings.Contains(msg.Text, "?") {
			questionCount++
		}

		if len([]rune(msg.Text)) > longestLen {
			longestLen = len([]rune(msg.Text))
			longestSender = sender
			longestTS = msg.Timestamp
		} else if len([]rune(msg.Text)) == longestLen && isEarlierOrSmaller(msg.Timestamp, sender, longestTS, longestSender) {
			longestSender = sender
			longestTS = msg.Timestamp
		}

		if msg.Timestamp != nil {
			hourly[msg.Timestamp.Hour()]++
			weekday[model.WeekdayName(msg.Timestamp.Weekday())]++
		}

		isInitiation := i == 0
		if !isInitiation && prev != nil && prev.Timestamp != nil && msg.Timestamp != nil {
			gap := msg.Timestamp.Sub(*prev.Timestamp)
			if gap >= conversationGap {
				isInitiation = true
			}
		}
		if isInitiation {
			initiations[sender]++
		}

		if prev != nil && prev.Sender != sender && prev.Timestamp != nil && msg.Timestamp != nil {
			delta := msg.Timestamp.Sub(*prev.Timestamp)
			if delta >= 0 && delta <= responseTimeCap {
				responseDeltas[sender] = append(responseDeltas[sender], delta.Minutes())
			}
		}

		if !msg.IsMedia {
			result := score(msg.Text)
			if sentimentCounts[sender] == nil {
				sentimentCounts[sender] = map[model.SentimentLabel]int{}
			}
			sentimentCounts[sender][result.Label]++
			overallSentiment[result.Label]++
			scoredTotal++

			er := emoji.Analyze(msg.Text)
			if er.HasEmojis {
				emojiTotals[sender] += er.Count
				if emojiCounters[sender] == nil {
					emojiCounters[sender] = map[string]int{}
					emojiFirstSeen[sender] = map[string]int{}
				}
				for e, c := range er.PerEmojiCount {
					if _, seen := emojiFirstSeen[sender][e]; !seen {
						emojiFirstSeen[sender][e] = seq
						seq++
					}
					emojiCounters[sender][e] += c
				}
			}
		}

		prev = msg
	}

	// BasicStats.
	totalChars := 0
	for _, c := range perSenderCharTotal {
		totalChars += c
	}
	avgLen := 0.0
	questionRatio := 0.0
	if analysis.TotalMessages > 0 {
		avgLen = float64(totalChars) / float64(analysis.TotalMessages)
		questionRatio = float64(questionCount) / float64(analysis.TotalMessages)
	}
	analysis.BasicStats = model.BasicStats{
		TotalMessages:          analysis.TotalMessages,
		AverageMessageLength:   avgLen,
		LongestMessage:         model.LongestMessage{Sender: longestSender, Length: longestLen},
		MessagesPerParticipant: cloneIntMap(perSenderCount),
		QuestionRatio:          questionRatio,
	}

	// Participants.
	var normalizedSelf string
	hasSelf := false
	if selfName != nil {
		normalizedSelf = strings.ToLower(strings.TrimSpace(*selfName))
		hasSelf = true
	}
	for name, count := range perSenderCount {
		role := model.RoleOther
		if hasSelf && strings.ToLower(strings.TrimSpace(name)) == normalizedSelf {
			role = model.RoleSelf
		}
		avg := 0.0
		if count > 0 {
			avg = float64(perSenderCharTotal[name]) / float64(count)
		}
		analysis.Participants[name] = model.Participant{
			Name:          name,
			Role:          role,
			MessageCount:  count,
			AverageLength: avg,
		}
	}

	// MessagingPatterns.
	mostActive := topHours(hourly, 5)
	freqPerParticipant := map[string]float64{}
	for name, count := range perSenderCount {
		freqPerParticipant[name] = float64(count) / math.Max(1, float64(periodDays))
	}
	analysis.MessagingPatterns = model.MessagingPatterns{
		HourlyDistribution:      hourly,
		DayOfWeekDistribution:   weekday,
		MostActiveHours:         mostActive,
		FrequencyPerParticipant: freqPerParticipant,
		WeekdayVsWeekendAverage: weekdayWeekendAverage(messages),
		DailyMessageCounts:      dailyMessageCounts(messages, period),
	}

	// EngagementMetrics.
	responseStats := map[string]model.ResponseTimeStat{}
	for name, deltas := range responseDeltas {
		sort.Float64s(deltas)
		responseStats[name] = model.ResponseTimeStat{
			AverageMinutes: mean(deltas),
			MedianMinutes:  percentile(deltas, 50),
			FastestMinutes: deltas[0],
			SlowestMinutes: deltas[len(deltas)-1],
			Count:          len(deltas),
		}
	}
	backAndForth := computeExchanges(messages)

	analysis.EngagementMetrics = model.EngagementMetrics{
		ResponseTimeAnalysis:    responseStats,
		ConversationInitiations: initiations,
		BackAndForthMetrics:     backAndForth,
		MostIgnoredParticipant:  mostIgnoredParticipant(messages),
	}

	// SentimentAnalysis.
	perParticipantRatios := map[string]model.SentimentRatios{}
	for name, counts := range sentimentCounts {
		total := counts[model.SentimentPositive] + counts[model.SentimentNeutral] + counts[model.SentimentNegative]
		perParticipantRatios[name] = ratiosOf(counts, total)
	}
	overallRatios := ratiosOf(overallSentiment, scoredTotal)
	if scoredTotal == 0 {
		diags = append(diags, model.Diagnostic{Kind: "no_scored_messages", Message: "no non-media messages were available for sentiment scoring"})
	}
	analysis.SentimentAnalysis = model.SentimentAnalysis{
		PerParticipant: perParticipantRatios,
		Overall:        overallRatios,
	}

	// EmojiStats.
	emojiStats := model.EmojiStats{}
	for name, count := range perSenderCount {
		total := emojiTotals[name]
		perMsg := 0.0
		if count > 0 {
			perMsg = float64(total) / float64(count)
		}
		emojiStats[name] = model.ParticipantEmojiStats{
			TotalEmojis:      total,
			EmojisPerMessage: perMsg,
			MostUsedEmojis:   topEmojis(emojiCounters[name], emojiFirstSeen[name], 10),
		}
	}
	analysis.EmojiStats = emojiStats

	return analysis, diags
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func isEarlierOrSmaller(candTS *time.Time, candSender string, curTS *time.Time, curSender string) bool {
	switch {
	case candTS != nil && curTS != nil:
		if candTS.Before(*curTS) {
			return true
		}
		if candTS.After(*curTS) {
			return false
		}
	case candTS != nil && curTS == nil:
		return true
	case candTS == nil && curTS != nil:
		return false
	}
	return candSender < curSender
}

func computePeriod(messages []model.Message) (*model.Period, int) {
	var start, end *time.Time
	for i := range messages {
		ts := messages[i].Timestamp
		if ts == nil {
			continue
		}
		if start == nil || ts.Before(*start) {
			start = ts
		}
		if end == nil || ts.After(*end) {
			end = ts
		}
	}
	if start == nil {
		return nil, 1
	}
	days := int(end.Sub(*start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return &model.Period{Start: *start, End: *end, DurationDays: days}, days
}

func topHours(hourly [24]int, n int) []model.HourCount {
	var all []model.HourCount
	for h, c := range hourly {
		if c > 0 {
			all = append(all, model.HourCount{Hour: h, Count: c})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Hour < all[j].Hour
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func dailyMessageCounts(messages []model.Message, period *model.Period) []int {
	if period == nil {
		return nil
	}
	counts := make([]int, period.DurationDays)
	for i := range messages {
		ts := messages[i].Timestamp
		if ts == nil {
			continue
		}
		offset := int(ts.Sub(period.Start).Hours() / 24)
		if offset < 0 {
			offset = 0
		}
		if offset >= len(counts) {
			offset = len(counts) - 1
		}
		counts[offset]++
	}
	return counts
}

func weekdayWeekendAverage(messages []model.Message) model.WeekdayWeekendAverage {
	var weekdayTotal, weekendTotal int
	var weekdayDays, weekendDays map[string]struct{} = map[string]struct{}{}, map[string]struct{}{}
	for i := range messages {
		ts := messages[i].Timestamp
		if ts == nil {
			continue
		}
		dateKey := ts.Format("2006-01-02")
		if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
			weekendTotal++
			weekendDays[dateKey] = struct{}{}
		} else {
			weekdayTotal++
			weekdayDays[dateKey] = struct{}{}
		}
	}
	avgWeekday := 0.0
	if len(weekdayDays) > 0 {
		avgWeekday = float64(weekdayTotal) / float64(len(weekdayDays))
	}
	avgWeekend := 0.0
	if len(weekendDays) > 0 {
		avgWeekend = float64(weekendTotal) / float64(len(weekendDays))
	}
	return model.WeekdayWeekendAverage{
		AverageWeekdayMessages: avgWeekday,
		AverageWeekendMessages: avgWeekend,
		Difference:             avgWeekday - avgWeekend,
	}
}

func computeExchanges(messages []model.Message) model.BackAndForthMetrics {
	if len(messages) == 0 {
		return model.BackAndForthMetrics{}
	}
	var runs []int
	runLen := 1
	for i := 1; i < len(messages); i++ {
		if messages[i].Sender != messages[i-1].Sender {
			runLen++
		} else {
			runs = append(runs, runLen)
			runLen = 1
		}
	}
	runs = append(runs, runLen)

	total, sum, longest := 0, 0, 0
	for _, r := range runs {
		if r >= 2 {
			total++
			sum += r
			if r > longest {
				longest = r
			}
		}
	}
	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}
	return model.BackAndForthMetrics{
		TotalExchanges:        total,
		AverageExchangeLength: avg,
		LongestExchange:       longest,
	}
}

// mostIgnoredParticipant returns the sender whose messages most often go
// unanswered by a different sender — i.e. are immediately followed by
// another message from that same sender.
func mostIgnoredParticipant(messages []model.Message) string {
	ignored := map[string]int{}
	for i := 0; i+1 < len(messages); i++ {
		if messages[i+1].Sender == messages[i].Sender {
			ignored[messages[i].Sender]++
		}
	}
	best, bestCount := "", 0
	names := make([]string, 0, len(ignored))
	for name := range ignored {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ignored[name] > bestCount {
			best, bestCount = name, ignored[name]
		}
	}
	return best
}

func ratiosOf(counts map[model.SentimentLabel]int, total int) model.SentimentRatios {
	if total == 0 {
		return model.SentimentRatios{}
	}
	return model.SentimentRatios{
		PositiveRatio: float64(counts[model.SentimentPositive]) / float64(total),
		NeutralRatio:  float64(counts[model.SentimentNeutral]) / float64(total),
		NegativeRatio: float64(counts[model.SentimentNegative]) / float64(total),
	}
}

func topEmojis(counts map[string]int, firstSeen map[string]int, n int) []model.EmojiCount {
	type kv struct {
		emoji string
		count int
		seen  int
	}
	var all []kv
	for e, c := range counts {
		all = append(all, kv{e, c, firstSeen[e]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].seen < all[j].seen
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]model.EmojiCount, len(all))
	for i, kv := range all {
		out[i] = model.EmojiCount{Emoji: kv.emoji, Count: kv.count}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// percentile returns the p-th percentile of sorted (ascending) using
// linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := (p / 100.0) * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// cfgOrDefault returns cfg unchanged, or the frozen defaults when cfg is nil.
func cfgOrDefault(cfg *config.Config) *config.Config {
	if cfg != nil {
		return cfg
	}
	defaults, _ := config.Load("")
	return defaults
}
