package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
)

func ts(h, m int) *time.Time {
	t := time.Date(2026, 1, 1, h, m, 0, 0, time.UTC)
	return &t
}

func neutralScorer(string) model.SentimentResult {
	return model.SentimentResult{Label: model.SentimentNeutral, Confidence: 0.5}
}

func TestAggregate_EmptyInput(t *testing.T) {
	analysis, diags := Aggregate(nil, nil, neutralScorer, nil)
	assert.Equal(t, 0, analysis.TotalMessages)
	assert.NotNil(t, analysis.BasicStats.MessagesPerParticipant)
	assert.NotNil(t, analysis.EmojiStats)
	assert.Empty(t, diags)
}

func TestAggregate_BasicStatsAndParticipants(t *testing.T) {
	self := "Alice"
	messages := []model.Message{
		{Sender: "Alice", Text: "hello there", Timestamp: ts(9, 0)},
		{Sender: "Bob", Text: "hi!", Timestamp: ts(9, 5)},
		{Sender: "Alice", Text: "how are you?", Timestamp: ts(9, 10)},
	}

	analysis, _ := Aggregate(messages, &self, neutralScorer, nil)

	assert.Equal(t, 3, analysis.TotalMessages)
	assert.Equal(t, 2, analysis.BasicStats.MessagesPerParticipant["Alice"])
	assert.Equal(t, 1, analysis.BasicStats.MessagesPerParticipant["Bob"])
	assert.InDelta(t, 1.0/3.0, analysis.BasicStats.QuestionRatio, 0.001)

	require.Contains(t, analysis.Participants, "Alice")
	assert.Equal(t, model.RoleSelf, analysis.Participants["Alice"].Role)
	assert.Equal(t, model.RoleOther, analysis.Participants["Bob"].Role)
}

func TestAggregate_LongestMessageTieBreaksByEarlierTimestamp(t *testing.T) {
	messages := []model.Message{
		{Sender: "Alice", Text: "12345", Timestamp: ts(9, 0)},
		{Sender: "Bob", Text: "67890", Timestamp: ts(9, 1)},
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	assert.Equal(t, "Alice", analysis.BasicStats.LongestMessage.Sender)
	assert.Equal(t, 5, analysis.BasicStats.LongestMessage.Length)
}

func TestAggregate_ConversationInitiationAfterGap(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	later := base.Add(7 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &base},
		{Sender: "Bob", Text: "hi back", Timestamp: &later},
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	assert.Equal(t, 1, analysis.EngagementMetrics.ConversationInitiations["Alice"])
	assert.Equal(t, 1, analysis.EngagementMetrics.ConversationInitiations["Bob"])
}

func TestAggregate_NoInitiationWithinGapWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	soon := base.Add(1 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &base},
		{Sender: "Bob", Text: "hi back", Timestamp: &soon},
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	assert.Equal(t, 1, analysis.EngagementMetrics.ConversationInitiations["Alice"])
	assert.Equal(t, 0, analysis.EngagementMetrics.ConversationInitiations["Bob"])
}

func TestAggregate_ConfigGapHoursIsConsulted(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	soon := base.Add(1 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &base},
		{Sender: "Bob", Text: "hi back", Timestamp: &soon},
	}
	cfg, _ := config.Load("")
	cfg.Conversation.GapHours = 0.5 // tighter than the 1-hour gap above

	analysis, _ := Aggregate(messages, nil, neutralScorer, cfg)
	assert.Equal(t, 1, analysis.EngagementMetrics.ConversationInitiations["Bob"])
}

func TestAggregate_ConfigResponseCapHoursIsConsulted(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	later := base.Add(2 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &base},
		{Sender: "Bob", Text: "hi back", Timestamp: &later},
	}
	cfg, _ := config.Load("")
	cfg.Conversation.ResponseCapHours = 1 // tighter than the 2-hour delta above

	analysis, _ := Aggregate(messages, nil, neutralScorer, cfg)
	assert.Empty(t, analysis.EngagementMetrics.ResponseTimeAnalysis)
}

func TestAggregate_ResponseTimeCappedAt24Hours(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tooLate := base.Add(25 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &base},
		{Sender: "Bob", Text: "hi back", Timestamp: &tooLate},
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	assert.Empty(t, analysis.EngagementMetrics.ResponseTimeAnalysis)
}

func TestAggregate_BackAndForthExchange(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	messages := make([]model.Message, 0, 4)
	for i := 0; i < 4; i++ {
		tt := base.Add(time.Duration(i) * time.Minute)
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		messages = append(messages, model.Message{Sender: sender, Text: "msg", Timestamp: &tt})
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	assert.GreaterOrEqual(t, analysis.EngagementMetrics.BackAndForthMetrics.TotalExchanges, 1)
}

func TestAggregate_MediaMessagesExcludedFromSentiment(t *testing.T) {
	calls := 0
	counting := func(string) model.SentimentResult {
		calls++
		return model.SentimentResult{Label: model.SentimentNeutral, Confidence: 0.5}
	}
	messages := []model.Message{
		{Sender: "Alice", Text: "hello", Timestamp: ts(9, 0)},
		{Sender: "Bob", Text: "<media>", Timestamp: ts(9, 1), IsMedia: true},
	}
	Aggregate(messages, nil, counting, nil)
	assert.Equal(t, 1, calls)
}

func TestAggregate_DailyMessageCountsIndexedFromPeriodStart(t *testing.T) {
	day0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	day1 := day0.Add(24 * time.Hour)
	messages := []model.Message{
		{Sender: "Alice", Text: "hi", Timestamp: &day0},
		{Sender: "Bob", Text: "hi", Timestamp: &day1},
		{Sender: "Bob", Text: "hi again", Timestamp: &day1},
	}
	analysis, _ := Aggregate(messages, nil, neutralScorer, nil)
	counts := analysis.MessagingPatterns.DailyMessageCounts
	require.Len(t, counts, 2)
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, 2, counts[1])
}
