// Package openaiclassifier adapts an OpenAI-compatible chat completion
// endpoint to the engine's Classifier contract, grounded on the
// multi-key failover client the reference bot uses for its own LLM calls.
package openaiclassifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/classifier"
)

const systemPrompt = `You classify the sentiment of a single chat message. ` +
	`Respond with only a compact JSON object: ` +
	`{"label":"positive|negative|neutral","confidence":0.0-1.0,"emotions":{"joy":0.0,"sadness":0.0,"anger":0.0,"fear":0.0,"surprise":0.0,"disgust":0.0,"neutral":0.0,"optimism":0.0}}`

// KeyState tracks one API key's recent failure count so getBestKey can
// prefer healthier keys, mirroring the reference client's failover.
type KeyState struct {
	Key          string
	FailureCount int
}

// Client is an OpenAI-compatible classifier with key rotation on failure.
type Client struct {
	baseURL string
	model   string
	keys    []*KeyState
	keyMu   sync.RWMutex
	clients map[string]openai.Client
	cliMu   sync.RWMutex
}

// NewClient builds a Client against baseURL using a comma-separated list
// of API keys. modelName is the chat-completion model identifier.
func NewClient(baseURL, apiKeys, modelName string) *Client {
	var keys []*KeyState
	for _, k := range strings.Split(apiKeys, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, &KeyState{Key: k})
		}
	}
	return &Client{
		baseURL: baseURL,
		model:   modelName,
		keys:    keys,
		clients: make(map[string]openai.Client),
	}
}

func (c *Client) getBestKey() *KeyState {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()
	if len(c.keys) == 0 {
		return nil
	}
	best := c.keys[0]
	for _, k := range c.keys[1:] {
		if k.FailureCount < best.FailureCount {
			best = k
		}
	}
	return best
}

func (c *Client) recordFailure(k *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	k.FailureCount++
}

func (c *Client) recordSuccess(k *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if k.FailureCount > 0 {
		k.FailureCount--
	}
}

func (c *Client) getClient(key string) openai.Client {
	c.cliMu.RLock()
	if cl, ok := c.clients[key]; ok {
		c.cliMu.RUnlock()
		return cl
	}
	c.cliMu.RUnlock()

	c.cliMu.Lock()
	defer c.cliMu.Unlock()
	cl := openai.NewClient(option.WithBaseURL(c.baseURL), option.WithAPIKey(key))
	c.clients[key] = cl
	return cl
}

type classifyResponse struct {
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
	Emotions   map[string]float64 `json:"emotions"`
}

// Classify satisfies classifier.Classifier. It respects ctx's deadline —
// the engine caps this at ClassifierTimeoutMs and falls back to lexical
// scoring on ErrUnavailable or ctx cancellation.
func (c *Client) Classify(ctx context.Context, text string) (classifier.Result, error) {
	keyState := c.getBestKey()
	if keyState == nil {
		return classifier.Result{}, fmt.Errorf("%w: no API keys configured", classifier.ErrUnavailable)
	}

	cl := c.getClient(keyState.Key)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(200),
	}

	resp, err := cl.Chat.Completions.New(ctx, params)
	if err != nil {
		c.recordFailure(keyState)
		return classifier.Result{}, fmt.Errorf("%w: %v", classifier.ErrUnavailable, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		c.recordFailure(keyState)
		return classifier.Result{}, fmt.Errorf("%w: empty response", classifier.ErrUnavailable)
	}

	c.recordSuccess(keyState)

	var parsed classifyResponse
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return classifier.Result{}, fmt.Errorf("%w: malformed classifier response: %v", classifier.ErrUnavailable, err)
	}

	emotions := make(map[model.Emotion]float64, len(parsed.Emotions))
	for name, score := range parsed.Emotions {
		emotions[model.Emotion(name)] = score
	}

	return classifier.Result{
		Label:      model.SentimentLabel(parsed.Label),
		Confidence: parsed.Confidence,
		Emotions:   emotions,
	}, nil
}

// WithTimeout wraps ctx with the classifier's fail-open deadline.
func WithTimeout(parent context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(timeoutMs)*time.Millisecond)
}
