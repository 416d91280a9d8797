package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"glowfeed-api/config"
)

// GroqMessage is one {role, content} turn in a completion request.
type GroqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GroqOptions carries the tunable request parameters. Zero values fall back
// to the defaults the mobile clients always used.
type GroqOptions struct {
	Temperature float64
	MaxTokens   int
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []GroqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type groqResponse struct {
	Choices []struct {
		Message      GroqMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// GroqService talks to the hosted completion endpoint (OpenAI-compatible).
type GroqService struct {
	config *config.Config
	client *http.Client
}

func NewGroqService(cfg *config.Config) *GroqService {
	return &GroqService{
		config: cfg,
		client: &http.Client{Timeout: cfg.GroqTimeout},
	}
}

// Chat performs a single-response completion and returns the full text.
func (gs *GroqService) Chat(ctx context.Context, messages []GroqMessage, opts GroqOptions) (string, error) {
	resp, err := gs.post(ctx, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// ChatStream performs an incremental completion. onDelta is called once per
// text delta, in arrival order, and the full concatenated text is returned
// once the stream finishes. The request is bound to ctx and to the
// configured timeout, so a hung provider cannot stall the caller forever.
func (gs *GroqService) ChatStream(ctx context.Context, messages []GroqMessage, opts GroqOptions, onDelta func(delta string)) (string, error) {
	resp, err := gs.post(ctx, messages, opts, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	parser := NewStreamParser()
	buf := make([]byte, 4096)

	for !parser.Done() {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			parser.Feed(buf[:n], onDelta)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("completion stream read failed: %w", readErr)
		}
	}

	parser.Flush(onDelta)
	return parser.FullText(), nil
}

func (gs *GroqService) post(ctx context.Context, messages []GroqMessage, opts GroqOptions, stream bool) (*http.Response, error) {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}

	payload, err := json.Marshal(groqRequest{
		Model:       gs.config.GroqModel,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gs.config.GroqBaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+gs.config.GroqAPIKey)

	resp, err := gs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("completion API error: %d - %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
