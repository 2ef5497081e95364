package judge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mcoot/rushmax/internal/metrics"
)

const (
	// UnavailableMessage is relayed when the upstream model cannot be reached
	UnavailableMessage = "The AI server is unreachable. Check that it is running."
	// InternalErrorMessage is relayed when the upstream reply cannot be read
	InternalErrorMessage = "An unknown error occurred while asking the AI server."

	chatCompletionsPath = "/v1/chat/completions"
	modelsPath          = "/v1/models"
	upstreamModel       = "local-model"
	temperature         = 0.2
)

const systemInstruction = `You are a quiz answerer whose answers are checked. Reply with JSON only, in this form:
{"answer": "...", "reasoning": "...", "valid": true, "invalid_reason": "..."}
- answer: the direct answer, kept short
- reasoning: a brief account of how you reached it
- valid: false when the question leaks the answer, steers by wording instead of meaning, or asks for disallowed content`

// Config holds upstream settings
type Config struct {
	// URL is the chat completions endpoint used when a request names none
	URL          string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// DefaultConfig returns the default upstream configuration
func DefaultConfig() Config {
	return Config{
		URL:          "http://localhost:1234/v1/chat/completions",
		Timeout:      30 * time.Second,
		ProbeTimeout: 5 * time.Second,
	}
}

// AskRequest is one question forwarded to the model
type AskRequest struct {
	Question     string
	TargetAnswer string
	LMServer     string
}

// Verdict is the model's answer. Available is false when the fallback message was used.
// Valid is nil when the model's output was not parseable JSON.
type Verdict struct {
	AIResponse    string
	Reasoning     *string
	Valid         *bool
	InvalidReason *string
	Available     bool
}

// ProbeResult reports whether an upstream server answered
type ProbeResult struct {
	OK      bool
	Checked string
	Error   string
}

// Service proxies quiz questions to an OpenAI-compatible chat endpoint.
// It never returns an error; upstream failures become flagged fallback verdicts.
type Service struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a judge proxy
func New(client *http.Client, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = defaults.URL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Service{client: client, cfg: cfg, logger: logger}
}

// NormalizeURL appends the chat completions path to bare base URLs
func NormalizeURL(url string) string {
	if strings.Contains(url, "v1") {
		return url
	}
	return strings.TrimRight(url, "/") + chatCompletionsPath
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type modelOutput struct {
	Answer        string  `json:"answer"`
	Reasoning     *string `json:"reasoning"`
	Valid         *bool   `json:"valid"`
	InvalidReason *string `json:"invalid_reason"`
}

var errNoChoices = errors.New("upstream reply has no choices")

// Ask forwards the question to the model and relays its answer
func (s *Service) Ask(ctx context.Context, req AskRequest) Verdict {
	target := req.LMServer
	if target == "" {
		target = s.cfg.URL
	}
	target = NormalizeURL(target)

	raw, err := s.complete(ctx, target, req.Question)
	if err != nil {
		metrics.JudgeUpstreamErrorsTotal.Inc()
		s.logger.Warn("judge upstream failed",
			slog.String("url", target),
			slog.String("error", err.Error()),
		)
		var upstreamErr *upstreamError
		if errors.As(err, &upstreamErr) {
			return Verdict{AIResponse: UnavailableMessage}
		}
		return Verdict{AIResponse: InternalErrorMessage}
	}

	out, ok := parseModelOutput(raw)
	if !ok {
		s.logger.Info("judge output was not a JSON object, relaying raw", slog.String("url", target))
		return Verdict{AIResponse: raw, Available: true}
	}

	valid := true
	if out.Valid != nil {
		valid = *out.Valid
	}
	return Verdict{
		AIResponse:    out.Answer,
		Reasoning:     out.Reasoning,
		Valid:         &valid,
		InvalidReason: out.InvalidReason,
		Available:     true,
	}
}

// parseModelOutput accepts only a JSON object; null, arrays and scalars are relayed raw
func parseModelOutput(raw string) (modelOutput, bool) {
	var out modelOutput
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return out, false
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return out, false
	}
	return out, true
}

// upstreamError marks transport and HTTP status failures
type upstreamError struct {
	err error
}

func (e *upstreamError) Error() string { return e.err.Error() }
func (e *upstreamError) Unwrap() error { return e.err }

func (s *Service) complete(ctx context.Context, target, question string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: upstreamModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: question},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", &upstreamError{err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	metrics.JudgeUpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &upstreamError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &upstreamError{err: fmt.Errorf("upstream returned status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &upstreamError{err: err}
	}

	var chat chatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return "", fmt.Errorf("decoding upstream reply: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errNoChoices
	}
	return chat.Choices[0].Message.Content, nil
}

// Probe checks whether anything answers at the given server, trying the
// models endpoint, the chat endpoint, and the base URL in turn
func (s *Service) Probe(ctx context.Context, server string) ProbeResult {
	base := strings.TrimRight(server, "/")
	if base == "" {
		return ProbeResult{Error: "no server given"}
	}

	var lastErr string
	for _, target := range []string{base + modelsPath, base + chatCompletionsPath, base} {
		status, err := s.get(ctx, target)
		if err != nil {
			lastErr = err.Error()
			continue
		}
		if status >= 200 && status < 500 {
			return ProbeResult{OK: true, Checked: target}
		}
		lastErr = fmt.Sprintf("%s returned status %d", target, status)
	}

	s.logger.Warn("judge probe failed",
		slog.String("server", base),
		slog.String("error", lastErr),
	)
	return ProbeResult{Error: lastErr}
}

func (s *Service) get(ctx context.Context, target string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Ask(ctx context.Context, req AskRequest) Verdict
	Probe(ctx context.Context, server string) ProbeResult
}

var _ ServiceInterface = (*Service)(nil)
