// Package llmclient is the review-classification inference gateway: it
// sends a fake-review-detection prompt to a chat-completion endpoint
// and parses the semi-structured reply into a typed verdict.
//
// Failure handling is asymmetric on purpose. A transport failure
// (unreachable service, non-2xx, undecodable payload) is returned to
// the caller so it can be distinguished from a verdict. A parse
// failure of an otherwise well-formed completion fails closed: an
// unparseable model answer is treated as suspicious, not trusted.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/veritrust/classifier/internal/circuitbreaker"
	"github.com/veritrust/classifier/internal/config"
	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/logging"
	"github.com/veritrust/classifier/internal/retry"
)

// ErrUnavailable indicates the completion service could not produce a
// usable response: unreachable, non-2xx, or a payload with no content.
var ErrUnavailable = errors.New("completion service unavailable")

const fallbackExplanation = "AI analysis failed."

const promptTemplate = `
You are a multilingual fake review detector.
You MUST classify the review as Fake if it contains:
- Exaggeration in ANY language (Kannada, Tamil, Telugu, Hindi, etc.)
- Emojis used for hype
- Marketing pressure ("buy now", "don't miss", etc.)
- Unnatural hype, too positive tone
- No product-specific details
- Emotional storytelling with no real usage

Real reviews contain actual usage experience.

Respond ONLY in this format:
Classification: Fake or Real
Explanation: <one-line>

Review: """%s"""
`

var (
	classificationPattern = regexp.MustCompile(`(?i)Classification:\s*(Fake|Real)`)
	explanationPattern    = regexp.MustCompile(`(?i)Explanation:\s*(.*)`)
)

// Client is an HTTP client for the chat-completion service.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.Breaker
	logger     logging.Logger
}

// New creates a completion client with outbound rate limiting, one
// retry on transient transport errors, and a circuit breaker.
func New(cfg config.LLMConfig, logger logging.Logger) *Client {
	// An unset rate means no outbound limiting; a zero-burst limiter
	// would reject every request.
	limit, burst := rate.Inf, 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = cfg.RequestsPerSecond
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.BreakerFailures,
			Timeout:          cfg.BreakerReset,
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("completion circuit state changed",
					logging.String("from", from.String()),
					logging.String("to", to.String()),
				)
			},
		}),
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ClassifyReview asks the completion service for a verdict on comment.
func (c *Client) ClassifyReview(ctx context.Context, comment string) (*domain.ReviewVerdict, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var content string
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 2

	err := c.breaker.Execute(func() error {
		return retry.Do(ctx, retryCfg, func() error {
			var reqErr error
			content, reqErr = c.complete(ctx, comment)
			return reqErr
		})
	})
	if err != nil {
		return nil, err
	}

	return parseCompletion(content), nil
}

// complete performs one POST /v1/chat/completions round trip and
// returns the completion text.
func (c *Client) complete(ctx context.Context, comment string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, comment)}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: completion service returned %d", ErrUnavailable, resp.StatusCode)
	}

	var chatResp chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&chatResp); decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrUnavailable, decodeErr)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: response carried no choices", ErrUnavailable)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// parseCompletion extracts the classification token and explanation
// line independently. A missing or unknown classification defaults to
// Fake; a missing explanation gets a fixed placeholder.
func parseCompletion(content string) *domain.ReviewVerdict {
	classification := domain.ClassificationFake
	if m := classificationPattern.FindStringSubmatch(content); m != nil {
		if strings.EqualFold(m[1], string(domain.ClassificationReal)) {
			classification = domain.ClassificationReal
		}
	}

	explanation := fallbackExplanation
	if m := explanationPattern.FindStringSubmatch(content); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			explanation = trimmed
		}
	}

	return &domain.ReviewVerdict{
		Classification: classification,
		Explanation:    explanation,
	}
}
