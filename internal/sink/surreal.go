package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/chatpulse/cae/internal/cae/model"
)

// SurrealSink persists messages and the final analysis to SurrealDB,
// grounded on the reference bot's memory store: a thin query wrapper
// around two SCHEMAFULL tables. Every Save and SaveAnalysis call creates a
// new record; existing records are never updated.
type SurrealSink struct {
	db         *surrealdb.DB
	namespace  string
	database   string
	sourceName string
}

// NewSurrealSink connects to host, signs in, selects namespace/database,
// and ensures the two tables this sink writes to exist.
func NewSurrealSink(host, user, pass, namespace, database, sourceName string) (*SurrealSink, error) {
	db, err := surrealdb.New(host)
	if err != nil {
		return nil, fmt.Errorf("connect surrealdb: %w", err)
	}
	if _, err := db.SignIn(context.Background(), map[string]interface{}{"user": user, "pass": pass}); err != nil {
		return nil, fmt.Errorf("surrealdb signin: %w", err)
	}
	if err := db.Use(context.Background(), namespace, database); err != nil {
		return nil, fmt.Errorf("surrealdb use: %w", err)
	}

	s := &SurrealSink{db: db, namespace: namespace, database: database, sourceName: sourceName}
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("surrealdb schema init: %w", err)
	}
	return s, nil
}

func (s *SurrealSink) init() error {
	queries := []string{
		"DEFINE TABLE IF NOT EXISTS cae_messages SCHEMAFULL",
		"DEFINE FIELD IF NOT EXISTS source ON cae_messages TYPE string",
		"DEFINE FIELD IF NOT EXISTS idx ON cae_messages TYPE int",
		"DEFINE FIELD IF NOT EXISTS sender ON cae_messages TYPE string",
		"DEFINE FIELD IF NOT EXISTS text ON cae_messages TYPE string",
		"DEFINE FIELD IF NOT EXISTS platform ON cae_messages TYPE string",
		"DEFINE FIELD IF NOT EXISTS is_media ON cae_messages TYPE bool",
		"DEFINE FIELD IF NOT EXISTS timestamp ON cae_messages TYPE option<int>",
		"DEFINE TABLE IF NOT EXISTS cae_analyses SCHEMAFULL",
		"DEFINE FIELD IF NOT EXISTS source ON cae_analyses TYPE string",
		"DEFINE FIELD IF NOT EXISTS total_messages ON cae_analyses TYPE int",
		"DEFINE FIELD IF NOT EXISTS overall_health ON cae_analyses TYPE string",
		"DEFINE FIELD IF NOT EXISTS created_at ON cae_analyses TYPE int",
	}
	for _, q := range queries {
		if _, err := surrealdb.Query[interface{}](context.Background(), s.db, q, map[string]interface{}{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SurrealSink) Save(msg model.PersistedMessage) error {
	var ts interface{}
	if msg.Timestamp != nil {
		ts = msg.Timestamp.Unix()
	}

	record := map[string]interface{}{
		"source":    s.sourceName,
		"idx":       msg.Index,
		"sender":    msg.Sender,
		"text":      msg.Text,
		"platform":  string(msg.Platform),
		"is_media":  msg.IsMedia,
		"timestamp": ts,
	}

	_, err := surrealdb.Create[interface{}](context.Background(), s.db, "cae_messages", record)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (s *SurrealSink) SaveAnalysis(analysis model.ChatAnalysis) error {
	record := map[string]interface{}{
		"source":          s.sourceName,
		"total_messages":  analysis.TotalMessages,
		"overall_health":  string(analysis.RedFlags.OverallHealth),
		"created_at":      time.Now().Unix(),
		"format_detected": string(analysis.FormatDetected),
	}

	_, err := surrealdb.Create[interface{}](context.Background(), s.db, "cae_analyses", record)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SurrealSink) Close() {
	s.db.Close(context.Background())
}
