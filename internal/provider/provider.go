// Package provider adapts hosted language models to the single-shot
// completion call the runner needs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Model turns a system prompt and one user message into reply text.
type Model interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// ErrEmptyResponse reports a successful call that produced no text.
var ErrEmptyResponse = errors.New("provider: empty response")

const (
	KindAnthropic = "anthropic"
	KindOpenAI    = "openai"

	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 1000
	DefaultTemperature    = 0.7
)

type options struct {
	model       string
	maxTokens   int64
	temperature float64
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
}

func defaultOptions(model string) options {
	return options{
		model:       model,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		maxRetries:  -1,
	}
}

// Option configures a Model.
type Option func(*options)

func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

func WithMaxTokens(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

func WithTemperature(t float64) Option {
	return func(o *options) { o.temperature = t }
}

// WithBaseURL points the client at a compatible endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithMaxRetries overrides the SDK retry count. Negative keeps the default.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// Settings selects and configures a model by name.
type Settings struct {
	Kind        string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
}

// New builds the Model named by s.Kind.
func New(s Settings, extra ...Option) (Model, error) {
	opts := append([]Option{
		WithModel(s.Model),
		WithMaxTokens(s.MaxTokens),
		WithTemperature(s.Temperature),
		WithBaseURL(s.BaseURL),
	}, extra...)

	switch strings.ToLower(s.Kind) {
	case "", KindAnthropic:
		return NewAnthropic(s.APIKey, opts...), nil
	case KindOpenAI:
		return NewOpenAI(s.APIKey, opts...), nil
	default:
		return nil, fmt.Errorf("provider: unknown kind %q", s.Kind)
	}
}
