package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
	"github.com/chatpulse/cae/internal/parser"
	"github.com/chatpulse/cae/internal/sink"
)

func testConfig() *config.Config {
	cfg, _ := config.Load("")
	return cfg
}

func TestAnalyzeMessage_ReturnsSentimentAndEmoji(t *testing.T) {
	eng := New(testConfig(), nil)
	result := eng.AnalyzeMessage(context.Background(), "this is amazing! 😀")
	assert.Equal(t, model.SentimentPositive, result.Label)
	require.NotNil(t, result.EmojiAnalysis)
	assert.True(t, result.EmojiAnalysis.HasEmojis)
}

func TestAnalyzeConversation_RejectsTooSmallInput(t *testing.T) {
	eng := New(testConfig(), nil)
	_, _, err := eng.AnalyzeConversation(context.Background(), "hi", nil, nil, nil)
	assert.ErrorIs(t, err, ErrInputTooSmall)
}

func TestAnalyzeConversation_RejectsTooLargeInput(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxBulkBytes = 10
	eng := New(cfg, nil)
	_, _, err := eng.AnalyzeConversation(context.Background(), strings.Repeat("a", 100), nil, nil, nil)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestAnalyzeConversation_RejectsBadEncoding(t *testing.T) {
	eng := New(testConfig(), nil)
	bad := string([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8, 0xf7, 0xf6, 0xf5})
	_, _, err := eng.AnalyzeConversation(context.Background(), bad, nil, nil, nil)
	assert.ErrorIs(t, err, parser.ErrBadEncoding)
}

func TestAnalyzeConversation_HappyPath(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: hello there, I love this!\nBob: hi back, this is great\n"
	analysis, diagnostics, err := eng.AnalyzeConversation(context.Background(), raw, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.TotalMessages)
	assert.Equal(t, model.PlatformGeneric, analysis.FormatDetected)
	assert.NotNil(t, diagnostics)
}

func TestAnalyzeConversation_SelfNameAssignsRole(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: hello there\nBob: hi back\n"
	self := "alice"
	analysis, _, err := eng.AnalyzeConversation(context.Background(), raw, nil, &self, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSelf, analysis.Participants["Alice"].Role)
}

type recordingSink struct {
	saved    []model.PersistedMessage
	saveErr  error
	abortAt  int
	finished bool
}

func (s *recordingSink) Save(msg model.PersistedMessage) error {
	s.saved = append(s.saved, msg)
	if s.abortAt > 0 && len(s.saved) == s.abortAt {
		return sink.ErrAbort
	}
	return s.saveErr
}

func (s *recordingSink) SaveAnalysis(model.ChatAnalysis) error {
	s.finished = true
	return nil
}

func TestAnalyzeConversation_SinkReceivesMessagesInOrder(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: first\nBob: second\nAlice: third\n"
	s := &recordingSink{}

	_, _, err := eng.AnalyzeConversation(context.Background(), raw, nil, nil, s)
	require.NoError(t, err)
	require.Len(t, s.saved, 3)
	assert.Equal(t, "first", s.saved[0].Text)
	assert.Equal(t, "third", s.saved[2].Text)
	assert.True(t, s.finished)
}

func TestAnalyzeConversation_SinkAbortShortCircuits(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: first\nBob: second\nAlice: third\n"
	s := &recordingSink{abortAt: 2}

	_, diagnostics, err := eng.AnalyzeConversation(context.Background(), raw, nil, nil, s)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, sink.ErrAbort))
	assert.Len(t, s.saved, 2)

	found := false
	for _, d := range diagnostics {
		if d.Kind == "sink_abort" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeConversation_SinkErrorBecomesDiagnosticNotFatal(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: first\nBob: second\n"
	s := &recordingSink{saveErr: errors.New("disk full")}

	_, diagnostics, err := eng.AnalyzeConversation(context.Background(), raw, nil, nil, s)
	require.NoError(t, err)

	found := false
	for _, d := range diagnostics {
		if d.Kind == "sink_error" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeConversation_CancellationReturnsPartialResult(t *testing.T) {
	eng := New(testConfig(), nil)
	raw := "Alice: first\nBob: second\nAlice: third\n"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analysis, _, err := eng.AnalyzeConversation(ctx, raw, nil, nil, nil)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, 0, analysis.TotalMessages)
}
