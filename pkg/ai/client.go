// pkg/ai/client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited marks an upstream 429.
	ErrRateLimited = errors.New("llm rate limited")
	// ErrNotConfigured is returned when no provider credentials are set.
	ErrNotConfigured = errors.New("llm not configured")
	// ErrMalformed marks a response that does not satisfy the expected contract.
	ErrMalformed = errors.New("malformed llm response")
)

// Image is a base64-encoded inline image.
type Image struct {
	MediaType string
	Base64    string
}

type Prompt struct {
	System    string
	User      string
	Images    []Image
	MaxTokens int
}

// Client sends one prompt and returns the model's text reply.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// StatusError is a non-2xx reply from the provider.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimited && e.Status == 429
}

func maxTokens(p Prompt) int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return 1024
}

type Config struct {
	Provider          string // anthropic | openai | "" (auto)
	AnthropicEndpoint string
	AnthropicKey      string
	AnthropicModel    string
	Endpoint          string
	Key               string
	Model             string
	Timeout           time.Duration
}

// New picks a provider: an explicit one wins, otherwise whichever credentials
// are present, otherwise the mock.
func New(c Config) Client {
	anthropicOK := c.AnthropicKey != ""
	openaiOK := c.Endpoint != "" && c.Key != ""
	switch {
	case c.Provider == "anthropic" && anthropicOK,
		c.Provider == "" && anthropicOK:
		return NewAnthropic(c.AnthropicEndpoint, c.AnthropicKey, c.AnthropicModel, c.Timeout)
	case c.Provider == "openai" && openaiOK,
		c.Provider == "" && openaiOK:
		return NewOpenAI(c.Endpoint, c.Key, c.Model, c.Timeout)
	default:
		return NewMock()
	}
}
