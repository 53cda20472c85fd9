package redflag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
)

func testConfig() *config.Config {
	cfg, _ := config.Load("")
	return cfg
}

func baseAnalysis() model.ChatAnalysis {
	return model.ChatAnalysis{
		BasicStats: model.BasicStats{
			MessagesPerParticipant: map[string]int{"Alice": 10, "Bob": 10},
			AverageMessageLength:   50,
			QuestionRatio:          0.2,
		},
		EngagementMetrics: model.EngagementMetrics{
			ResponseTimeAnalysis:    map[string]model.ResponseTimeStat{},
			ConversationInitiations: map[string]int{},
		},
		MessagingPatterns: model.MessagingPatterns{
			DayOfWeekDistribution: map[string]int{},
		},
		SentimentAnalysis: model.SentimentAnalysis{},
	}
}

func TestDetect_HealthyByDefault(t *testing.T) {
	flags := Detect(baseAnalysis(), testConfig())
	assert.Equal(t, model.HealthHealthy, flags.OverallHealth)
	assert.Empty(t, flags.RedFlags)
}

func TestDetect_MessageImbalance(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 60
	a.BasicStats.MessagesPerParticipant = map[string]int{"Alice": 50, "Bob": 10}
	flags := Detect(a, testConfig())
	require.Len(t, flags.RedFlags, 1)
	assert.Equal(t, "message_imbalance", flags.RedFlags[0].Type)
	assert.Equal(t, model.SeverityHigh, flags.RedFlags[0].Severity)
	assert.Equal(t, model.HealthConcerning, flags.OverallHealth)
}

func TestDetect_MessageImbalanceNotTriggeredBelowVolumeFloor(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 10
	a.BasicStats.MessagesPerParticipant = map[string]int{"Alice": 9, "Bob": 1}
	_, ok := checkMessageImbalance(a, testConfig())
	assert.False(t, ok)
}

func TestDetect_SlowResponses(t *testing.T) {
	a := baseAnalysis()
	a.EngagementMetrics.ResponseTimeAnalysis["Bob"] = model.ResponseTimeStat{Count: 12, AverageMinutes: 200}
	f, ok := checkSlowResponses(a, testConfig())
	require.True(t, ok)
	assert.Equal(t, "slow_responses", f.Type)
}

func TestDetect_FrequencyDrop(t *testing.T) {
	// 14-day period: 10/day for the first week, 2/day for the last week.
	daily := make([]int, 14)
	for i := 0; i < 7; i++ {
		daily[i] = 10
	}
	for i := 7; i < 14; i++ {
		daily[i] = 2
	}
	a := baseAnalysis()
	a.Period = &model.Period{
		Start:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		DurationDays: 14,
	}
	a.MessagingPatterns.DailyMessageCounts = daily

	f, ok := checkFrequencyDrop(a, testConfig())
	require.True(t, ok)
	assert.Equal(t, "frequency_drop", f.Type)
	assert.Equal(t, model.SeverityHigh, f.Severity)
}

func TestDetect_FrequencyDropRequiresMinimumPeriod(t *testing.T) {
	a := baseAnalysis()
	a.Period = &model.Period{DurationDays: 7}
	a.MessagingPatterns.DailyMessageCounts = []int{10, 10, 10, 10, 10, 10, 10}
	_, ok := checkFrequencyDrop(a, testConfig())
	assert.False(t, ok)
}

func TestDetect_OneSidedInitiation(t *testing.T) {
	a := baseAnalysis()
	a.EngagementMetrics.ConversationInitiations = map[string]int{"Alice": 18, "Bob": 2}
	f, ok := checkOneSidedInitiation(a, testConfig())
	require.True(t, ok)
	assert.Equal(t, "one_sided_initiation", f.Type)
}

func TestDetect_OneSidedInitiationBelowFloorIgnored(t *testing.T) {
	a := baseAnalysis()
	a.EngagementMetrics.ConversationInitiations = map[string]int{"Alice": 5, "Bob": 1}
	_, ok := checkOneSidedInitiation(a, testConfig())
	assert.False(t, ok)
}

func TestDetect_LowEngagement(t *testing.T) {
	a := baseAnalysis()
	a.BasicStats.AverageMessageLength = 10
	a.BasicStats.QuestionRatio = 0.01
	f, ok := checkLowEngagement(a, testConfig())
	require.True(t, ok)
	assert.Equal(t, "low_engagement", f.Type)
}

func TestDetect_LowEngagementSkippedWhenQuestionsAreFrequent(t *testing.T) {
	a := baseAnalysis()
	a.BasicStats.AverageMessageLength = 10
	a.BasicStats.QuestionRatio = 0.5
	_, ok := checkLowEngagement(a, testConfig())
	assert.False(t, ok)
}

func TestDetect_HighNegativeSentimentWarning(t *testing.T) {
	a := baseAnalysis()
	a.SentimentAnalysis.Overall = model.SentimentRatios{NegativeRatio: 0.6}
	flags := Detect(a, testConfig())
	require.Len(t, flags.Warnings, 1)
	assert.Equal(t, "high_negative_sentiment", flags.Warnings[0].Type)
}

func TestDetect_NightActivitySkew(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 100
	a.MessagingPatterns.HourlyDistribution[1] = 40
	f, ok := checkNightActivitySkew(a)
	require.True(t, ok)
	assert.Equal(t, "night_activity_skew", f.Type)
}

func TestDetect_ConcerningWhenTwoRedFlagsPresent(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 60
	a.BasicStats.MessagesPerParticipant = map[string]int{"Alice": 50, "Bob": 10}
	a.BasicStats.AverageMessageLength = 10
	a.BasicStats.QuestionRatio = 0.01
	flags := Detect(a, testConfig())
	assert.GreaterOrEqual(t, flags.TotalRedFlags, 2)
	assert.Equal(t, model.HealthConcerning, flags.OverallHealth)
}

func TestDetect_ModerateWithOneRedFlag(t *testing.T) {
	a := baseAnalysis()
	a.BasicStats.AverageMessageLength = 10
	a.BasicStats.QuestionRatio = 0.01
	flags := Detect(a, testConfig())
	assert.Equal(t, 1, flags.TotalRedFlags)
	assert.Equal(t, model.HealthModerate, flags.OverallHealth)
}

func TestDetect_ModerateWithTwoWarningsAndNoRedFlags(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 100
	a.SentimentAnalysis.Overall = model.SentimentRatios{NegativeRatio: 0.6}
	a.MessagingPatterns.HourlyDistribution[1] = 40
	flags := Detect(a, testConfig())
	assert.Equal(t, 0, flags.TotalRedFlags)
	assert.Equal(t, 2, flags.TotalWarnings)
	assert.Equal(t, model.HealthModerate, flags.OverallHealth)
}

func TestDetect_ConfigMessageImbalanceRatioIsConsulted(t *testing.T) {
	a := baseAnalysis()
	a.TotalMessages = 60
	a.BasicStats.MessagesPerParticipant = map[string]int{"Alice": 50, "Bob": 10}

	cfg := testConfig()
	cfg.RedFlags.MessageImbalanceRatio = 10.0 // looser than the 5:1 split above

	_, ok := checkMessageImbalance(a, cfg)
	assert.False(t, ok)
}

func TestDetect_ConfigLowEngagementAvgCharsIsConsulted(t *testing.T) {
	a := baseAnalysis()
	a.BasicStats.AverageMessageLength = 10
	a.BasicStats.QuestionRatio = 0.01

	cfg := testConfig()
	cfg.RedFlags.LowEngagementAvgChars = 5 // below the 10-char average above

	_, ok := checkLowEngagement(a, cfg)
	assert.False(t, ok)
}
