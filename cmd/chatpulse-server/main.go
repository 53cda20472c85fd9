// Command chatpulse-server exposes the chat analysis engine over a thin
// two-route JSON API: POST /analyze-message and POST /analyze-conversation.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/chatpulse/cae/internal/cache"
	"github.com/chatpulse/cae/internal/cae/engine"
	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/classifier"
	"github.com/chatpulse/cae/internal/classifier/openaiclassifier"
	"github.com/chatpulse/cae/internal/config"
	"github.com/chatpulse/cae/internal/parser"
	"github.com/chatpulse/cae/internal/sink"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load(envOr("CAE_CONFIG_PATH", "config.yml"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	eng := engine.New(cfg, buildClassifier(cfg))
	s := buildSink(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-message", handleAnalyzeMessage(eng))
	mux.HandleFunc("/analyze-conversation", handleAnalyzeConversation(eng, s))

	addr := envOr("CAE_LISTEN_ADDR", ":8080")
	startAndWait(addr, mux)
}

func startAndWait(addr string, mux *http.ServeMux) {
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("chatpulse-server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func buildClassifier(cfg *config.Config) classifier.Classifier {
	baseURL := os.Getenv("CLASSIFIER_BASE_URL")
	apiKeys := os.Getenv("CLASSIFIER_API_KEYS")
	modelName := os.Getenv("CLASSIFIER_MODEL")
	if baseURL == "" || apiKeys == "" || modelName == "" {
		log.Println("classifier not configured, falling back to lexical-only scoring")
		return nil
	}

	base := openaiclassifier.NewClient(baseURL, apiKeys, modelName)
	cached := classifier.NewCachedClassifier(base, cfg.Cache.ClassifierLRUSize, modelName)

	if cfg.Cache.RedisURL == "" {
		return cached
	}
	redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.RedisPrefix)
	if err != nil {
		log.Printf("redis cache unavailable, using in-process LRU only: %v", err)
		return cached
	}
	return classifier.NewRedisCachedClassifier(cached, redisCache, modelName)
}

func buildSink(cfg *config.Config) sink.Sink {
	if cfg.Sink.SurrealHost != "" {
		s, err := sink.NewSurrealSink(cfg.Sink.SurrealHost, cfg.Sink.SurrealUser, cfg.Sink.SurrealPass, cfg.Sink.SurrealNS, cfg.Sink.SurrealDatabase, "chatpulse-server")
		if err != nil {
			log.Printf("surreal sink unavailable, persistence disabled: %v", err)
		} else {
			return s
		}
	}
	if cfg.Cache.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err == nil {
			return sink.NewRedisRecentSink(redis.NewClient(opts), cfg.Cache.RedisPrefix, "chatpulse-server")
		}
	}
	return sink.NullSink{}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type analyzeMessageRequest struct {
	Message string `json:"message"`
}

type analyzeMessageResponse struct {
	Sentiment     model.SentimentLabel      `json:"sentiment"`
	Confidence    float64                   `json:"confidence"`
	Emotions      map[model.Emotion]float64 `json:"emotions"`
	EmojiAnalysis *model.EmojiAnalysis      `json:"emoji_analysis"`
	Timestamp     string                    `json:"timestamp"`
	AnalysisID    string                    `json:"analysis_id"`
}

func handleAnalyzeMessage(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if n := utf8.RuneCountInString(req.Message); n == 0 || n > 5000 {
			writeError(w, http.StatusUnprocessableEntity, "message must be 1..5000 chars")
			return
		}

		result := eng.AnalyzeMessage(r.Context(), req.Message)
		resp := analyzeMessageResponse{
			Sentiment:     result.Label,
			Confidence:    result.Confidence,
			Emotions:      result.Emotions,
			EmojiAnalysis: result.EmojiAnalysis,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			AnalysisID:    requestID(r),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type analyzeConversationRequest struct {
	Content         string  `json:"content"`
	FormatType      *string `json:"format_type"`
	CurrentUserName *string `json:"current_user_name"`
}

func handleAnalyzeConversation(eng *engine.Engine, s sink.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		var hint *model.Platform
		if req.FormatType != nil {
			p := model.Platform(*req.FormatType)
			hint = &p
		}

		analysis, diagnostics, err := eng.AnalyzeConversation(r.Context(), req.Content, hint, req.CurrentUserName, s)
		if err != nil {
			status := classifyError(err)
			writeError(w, status, err.Error())
			return
		}

		resp := struct {
			model.ChatAnalysis
			FormatDetected        model.Platform     `json:"format_detected"`
			TotalMessagesAnalyzed int                `json:"total_messages_analyzed"`
			Diagnostics           []model.Diagnostic `json:"diagnostics"`
		}{
			ChatAnalysis:          analysis,
			FormatDetected:        analysis.FormatDetected,
			TotalMessagesAnalyzed: analysis.TotalMessages,
			Diagnostics:           diagnostics,
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func classifyError(err error) int {
	switch {
	case errors.Is(err, engine.ErrInputTooSmall):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, parser.ErrBadEncoding):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
