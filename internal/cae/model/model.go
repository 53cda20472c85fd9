// Package model defines the canonical records produced and consumed by the
// chat analysis engine. Every type here is immutable once constructed.
package model

import "time"

// Platform identifies the chat export format a message was parsed from.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformTelegram Platform = "telegram"
	PlatformDiscord  Platform = "discord"
	PlatformIMessage Platform = "imessage"
	PlatformGeneric  Platform = "generic"
)

// SentimentLabel is the closed set of sentiment polarities.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Role is a participant's relationship to the caller-supplied self name.
type Role string

const (
	RoleSelf  Role = "self"
	RoleOther Role = "other"
)

// Emotion is the small closed set of emotion labels the classifier may return.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "disgust"
	EmotionNeutral  Emotion = "neutral"
	EmotionOptimism Emotion = "optimism"
)

// Severity is the three-valued finding severity.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthLabel is the derived three-valued conversation health indicator.
type HealthLabel string

const (
	HealthHealthy    HealthLabel = "healthy"
	HealthModerate   HealthLabel = "moderate"
	HealthConcerning HealthLabel = "concerning"
)

// Message is a single canonical chat line, immutable after parsing.
type Message struct {
	Timestamp *time.Time
	Sender    string
	Text      string
	Platform  Platform
	IsMedia   bool
}

// Participant describes one distinct sender observed in a conversation.
type Participant struct {
	Name          string  `json:"name"`
	Role          Role    `json:"role"`
	MessageCount  int     `json:"message_count"`
	AverageLength float64 `json:"average_length"`
}

// EmojiAnalysis is the emoji-only polarity read for a single text run.
type EmojiAnalysis struct {
	Label      SentimentLabel `json:"sentiment"`
	Confidence float64        `json:"confidence"`
	HasEmojis  bool           `json:"has_emojis"`
}

// SentimentResult is the outcome of scoring a single message or ad-hoc text.
type SentimentResult struct {
	Label         SentimentLabel       `json:"label"`
	Confidence    float64              `json:"confidence"`
	Emotions      map[Emotion]float64  `json:"emotions,omitempty"`
	EmojiAnalysis *EmojiAnalysis       `json:"emoji_analysis,omitempty"`
}

// Finding is a single red-flag or warning entry.
type Finding struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

// RedFlags is the full output of the red-flag detector.
type RedFlags struct {
	RedFlags      []Finding   `json:"red_flags"`
	Warnings      []Finding   `json:"warnings"`
	TotalRedFlags int         `json:"total_red_flags"`
	TotalWarnings int         `json:"total_warnings"`
	OverallHealth HealthLabel `json:"overall_health"`
}

// Period is the inclusive calendar span a conversation covers.
type Period struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
}

// LongestMessage names the sender and length of the single longest message.
type LongestMessage struct {
	Sender string `json:"sender"`
	Length int    `json:"length"`
}

// BasicStats holds the single-pass whole-conversation counters.
type BasicStats struct {
	TotalMessages          int            `json:"total_messages"`
	AverageMessageLength   float64        `json:"average_message_length"`
	LongestMessage         LongestMessage `json:"longest_message"`
	MessagesPerParticipant map[string]int `json:"messages_per_participant"`
	QuestionRatio          float64        `json:"question_ratio,omitempty"`
}

// HourCount pairs an hour-of-day with its message count.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayWeekendAverage is a supplemental split of daily volume.
type WeekdayWeekendAverage struct {
	AverageWeekdayMessages float64 `json:"average_weekday_messages"`
	AverageWeekendMessages float64 `json:"average_weekend_messages"`
	Difference             float64 `json:"difference"`
}

// MessagingPatterns holds the temporal distribution of messages.
type MessagingPatterns struct {
	HourlyDistribution      [24]int               `json:"hourly_distribution"`
	DayOfWeekDistribution   map[string]int        `json:"day_of_week_distribution"`
	MostActiveHours         []HourCount           `json:"most_active_hours"`
	FrequencyPerParticipant map[string]float64    `json:"frequency_per_participant"`
	WeekdayVsWeekendAverage WeekdayWeekendAverage `json:"weekday_vs_weekend_average"`
	// DailyMessageCounts holds one entry per calendar day of the period,
	// indexed by day offset from period.start. It is what the red-flag
	// detector's frequency_drop rule walks; empty when period is nil.
	DailyMessageCounts []int `json:"daily_message_counts,omitempty"`
}

// ResponseTimeStat summarises one participant's reply latency.
type ResponseTimeStat struct {
	AverageMinutes float64 `json:"average_minutes"`
	MedianMinutes  float64 `json:"median_minutes"`
	FastestMinutes float64 `json:"fastest_minutes"`
	SlowestMinutes float64 `json:"slowest_minutes"`
	Count          int     `json:"count"`
}

// BackAndForthMetrics summarises exchange runs across the whole conversation.
type BackAndForthMetrics struct {
	TotalExchanges        int     `json:"total_exchanges"`
	AverageExchangeLength float64 `json:"average_exchange_length"`
	LongestExchange       int     `json:"longest_exchange"`
}

// EngagementMetrics holds response-time, initiation, and exchange metrics.
type EngagementMetrics struct {
	ResponseTimeAnalysis    map[string]ResponseTimeStat `json:"response_time_analysis"`
	ConversationInitiations map[string]int              `json:"conversation_initiations"`
	BackAndForthMetrics     BackAndForthMetrics         `json:"back_and_forth_metrics"`
	MostIgnoredParticipant  string                      `json:"most_ignored_participant,omitempty"`
}

// SentimentRatios is a closed distribution over the three sentiment labels.
type SentimentRatios struct {
	PositiveRatio float64 `json:"positive_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
}

// SentimentAnalysis rolls up per-participant and overall sentiment ratios.
type SentimentAnalysis struct {
	PerParticipant map[string]SentimentRatios `json:"per_participant"`
	Overall        SentimentRatios            `json:"overall"`
}

// EmojiCount pairs an emoji sequence with its occurrence count.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ParticipantEmojiStats holds one participant's emoji usage.
type ParticipantEmojiStats struct {
	TotalEmojis      int          `json:"total_emojis"`
	EmojisPerMessage float64      `json:"emojis_per_message"`
	MostUsedEmojis   []EmojiCount `json:"most_used_emojis"`
}

// EmojiStats maps participant name to their emoji usage.
type EmojiStats map[string]ParticipantEmojiStats

// PersistedMessage is one parsed message plus its position in the
// conversation, the unit the engine hands to an injected sink.
type PersistedMessage struct {
	Message
	Index int
}

// Diagnostic is a non-fatal anomaly surfaced alongside a result.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ChatAnalysis is the root result of aggregating a parsed conversation.
type ChatAnalysis struct {
	FormatDetected    Platform               `json:"format_detected"`
	TotalMessages     int                    `json:"total_messages"`
	Period            *Period                `json:"period"`
	Participants      map[string]Participant `json:"participants"`
	BasicStats        BasicStats             `json:"basic_stats"`
	MessagingPatterns MessagingPatterns      `json:"messaging_patterns"`
	EngagementMetrics EngagementMetrics      `json:"engagement_metrics"`
	SentimentAnalysis SentimentAnalysis      `json:"sentiment_analysis"`
	EmojiStats        EmojiStats             `json:"emoji_stats"`
	RedFlags          RedFlags               `json:"red_flags"`
}

// WeekdayName returns the spec's canonical Monday..Sunday key for a weekday.
func WeekdayName(d time.Weekday) string {
	return d.String()
}
