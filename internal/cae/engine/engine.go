// Package engine exposes the two entry points the rest of the module is
// built around: AnalyzeMessage for a single ad-hoc text, and
// AnalyzeConversation for a full chat export. It owns no storage and no
// network client of its own — it only orchestrates the parser, scorer,
// aggregator, and red-flag detector, and calls out to an injected
// Classifier and Sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatpulse/cae/internal/aggregate"
	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/classifier"
	"github.com/chatpulse/cae/internal/config"
	"github.com/chatpulse/cae/internal/emoji"
	"github.com/chatpulse/cae/internal/parser"
	"github.com/chatpulse/cae/internal/redflag"
	"github.com/chatpulse/cae/internal/sentiment"
	"github.com/chatpulse/cae/internal/sink"
)

// ErrInputTooSmall and ErrInputTooLarge are fatal input-shape errors,
// returned before any processing happens. ErrCanceled accompanies the
// partial analysis returned when ctx is cancelled mid-conversation.
var (
	ErrInputTooSmall = errors.New("input too small")
	ErrInputTooLarge = errors.New("input too large")
	ErrCanceled      = errors.New("analysis canceled")
)

// Engine is reentrant and holds no per-call state; a single instance may
// be shared across goroutines. Classifier is optional — a nil Classifier
// means every message falls back to lexical scoring.
type Engine struct {
	cfg        *config.Config
	classifier classifier.Classifier
}

// New builds an Engine from cfg (nil selects frozen defaults) and an
// optional Classifier (nil disables neural scoring entirely).
func New(cfg *config.Config, c classifier.Classifier) *Engine {
	if cfg == nil {
		cfg, _ = config.Load("")
	}
	return &Engine{cfg: cfg, classifier: c}
}

// AnalyzeMessage scores a single message in isolation: emoji analysis
// plus the lexical/classifier sentiment scorer. Safe to call concurrently.
func (e *Engine) AnalyzeMessage(ctx context.Context, text string) model.SentimentResult {
	hint := e.classify(ctx, text)
	result := sentiment.Score(text, hint)
	emo := emoji.Analyze(text)
	emoModel := emo.ToModel()
	result.EmojiAnalysis = &emoModel
	return result
}

// classify calls the injected Classifier under the configured timeout and
// converts its result into a sentiment.ClassifierHint. Any failure —
// absent classifier, timeout, cancellation, adapter error — yields a nil
// hint so the caller falls back to lexical scoring. This is the engine's
// only fail-open path.
func (e *Engine) classify(ctx context.Context, text string) *sentiment.ClassifierHint {
	if e.classifier == nil {
		return nil
	}

	timeoutMs := e.cfg.Classifier.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 2000
	}
	cctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	res, err := e.classifier.Classify(cctx, text)
	if err != nil {
		return nil
	}
	return &sentiment.ClassifierHint{
		Label:      res.Label,
		Confidence: res.Confidence,
		Emotions:   res.Emotions,
	}
}

// AnalyzeConversation parses raw into a canonical message stream, scores
// each message, aggregates the conversation, and runs the red-flag
// detector. hint, selfName, and s are all optional. Sink emissions and
// per-message scoring happen in message order; ctx cancellation returns
// a partial analysis over whatever was scored before the signal arrived,
// alongside ErrCanceled.
func (e *Engine) AnalyzeConversation(
	ctx context.Context,
	raw string,
	hint *model.Platform,
	selfName *string,
	s sink.Sink,
) (model.ChatAnalysis, []model.Diagnostic, error) {
	trimmed := trimForSizeCheck(raw)
	if len(trimmed) < e.cfg.Limits.MinCharsForImport {
		return model.ChatAnalysis{}, nil, fmt.Errorf("%w: need at least %d characters", ErrInputTooSmall, e.cfg.Limits.MinCharsForImport)
	}
	if len(raw) > e.cfg.Limits.MaxBulkBytes {
		return model.ChatAnalysis{}, nil, fmt.Errorf("%w: exceeds %d bytes", ErrInputTooLarge, e.cfg.Limits.MaxBulkBytes)
	}

	format, messages, diagnostics, err := parser.Parse(raw, hint)
	if err != nil {
		return model.ChatAnalysis{}, diagnostics, err
	}

	if s == nil {
		s = sink.NullSink{}
	}

	// Pre-score every non-media message once, in order, folding in the
	// classifier hint where one is available. Aggregate's Scorer callback
	// then just replays these precomputed results in the same order it
	// walks messages, so no message is ever classified twice.
	precomputed := make([]model.SentimentResult, 0, len(messages))

	var canceled bool
	end := len(messages)
	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			canceled = true
			end = i
			break
		}

		if !msg.IsMedia {
			chatHint := e.classify(ctx, msg.Text)
			precomputed = append(precomputed, sentiment.Score(msg.Text, chatHint))
		}

		if sinkErr := s.Save(model.PersistedMessage{Message: msg, Index: i}); sinkErr != nil {
			if errors.Is(sinkErr, sink.ErrAbort) {
				end = i + 1
				diagnostics = append(diagnostics, model.Diagnostic{Kind: "sink_abort", Message: sinkErr.Error()})
				return e.finish(messages[:end], precomputed, selfName, s, format, diagnostics, wrapAbort(sinkErr))
			}
			diagnostics = append(diagnostics, model.Diagnostic{Kind: "sink_error", Message: sinkErr.Error()})
		}
	}

	analysis, aggDiags, finishErr := e.finish(messages[:end], precomputed, selfName, s, format, diagnostics, nil)
	if canceled {
		return analysis, aggDiags, ErrCanceled
	}
	return analysis, aggDiags, finishErr
}

// finish runs the aggregator and red-flag detector over whatever message
// prefix is available, then reports the completed analysis to the sink.
func (e *Engine) finish(
	messages []model.Message,
	precomputed []model.SentimentResult,
	selfName *string,
	s sink.Sink,
	format model.Platform,
	diagnostics []model.Diagnostic,
	carryErr error,
) (model.ChatAnalysis, []model.Diagnostic, error) {
	next := 0
	scorer := func(text string) model.SentimentResult {
		if next >= len(precomputed) {
			return sentiment.Score(text, nil)
		}
		r := precomputed[next]
		next++
		return r
	}

	analysis, aggDiags := aggregate.Aggregate(messages, selfName, scorer, e.cfg)
	analysis.FormatDetected = format
	analysis.RedFlags = redflag.Detect(analysis, e.cfg)

	diagnostics = append(diagnostics, aggDiags...)

	if saveErr := s.SaveAnalysis(analysis); saveErr != nil {
		if errors.Is(saveErr, sink.ErrAbort) {
			diagnostics = append(diagnostics, model.Diagnostic{Kind: "sink_abort", Message: saveErr.Error()})
			if carryErr == nil {
				carryErr = wrapAbort(saveErr)
			}
		} else {
			diagnostics = append(diagnostics, model.Diagnostic{Kind: "sink_error", Message: saveErr.Error()})
		}
	}

	return analysis, diagnostics, carryErr
}

// wrapAbort normalises a sink's ErrAbort into an error that still
// satisfies errors.Is(err, sink.ErrAbort) for callers.
func wrapAbort(err error) error {
	return fmt.Errorf("conversation analysis stopped early: %w", err)
}

func trimForSizeCheck(raw string) string {
	start, end := 0, len(raw)
	for start < end && isTrimmableByte(raw[start]) {
		start++
	}
	for end > start && isTrimmableByte(raw[end-1]) {
		end--
	}
	return raw[start:end]
}

func isTrimmableByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
