package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatpulse/cae/internal/cae/model"
)

// recentListTTL bounds how long a source's recent-message list survives
// without activity, so an abandoned analysis doesn't leak memory in Redis.
const recentListTTL = 72 * time.Hour

// maxRecentMessages caps the list length; only the tail is kept for
// "what just happened in this conversation" style dashboards.
const maxRecentMessages = 500

// RedisRecentSink keeps a capped, TTL'd list of recent messages and the
// latest analysis per source in Redis, for deployments that want a live
// view into an in-progress conversation without standing up SurrealDB.
type RedisRecentSink struct {
	client *redis.Client
	prefix string
	source string
}

func NewRedisRecentSink(client *redis.Client, prefix, source string) *RedisRecentSink {
	return &RedisRecentSink{client: client, prefix: prefix, source: source}
}

func (s *RedisRecentSink) messagesKey() string {
	return fmt.Sprintf("%s:recent:%s", s.prefix, s.source)
}

func (s *RedisRecentSink) analysisKey() string {
	return fmt.Sprintf("%s:analysis:%s", s.prefix, s.source)
}

func (s *RedisRecentSink) Save(msg model.PersistedMessage) error {
	ctx := context.Background()
	key := s.messagesKey()

	var ts int64
	if msg.Timestamp != nil {
		ts = msg.Timestamp.Unix()
	}
	entry := fmt.Sprintf("%d|%s|%s|%d", msg.Index, msg.Sender, msg.Text, ts)

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, entry)
	pipe.LTrim(ctx, key, -maxRecentMessages, -1)
	pipe.Expire(ctx, key, recentListTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sink save: %w", err)
	}
	return nil
}

func (s *RedisRecentSink) SaveAnalysis(analysis model.ChatAnalysis) error {
	ctx := context.Background()
	key := s.analysisKey()

	fields := map[string]interface{}{
		"total_messages": analysis.TotalMessages,
		"overall_health": string(analysis.RedFlags.OverallHealth),
		"format":         string(analysis.FormatDetected),
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, recentListTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sink save analysis: %w", err)
	}
	return nil
}
