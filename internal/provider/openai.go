package provider

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls the Chat Completions API of OpenAI or a compatible server.
type OpenAI struct {
	client openai.Client
	opts   options
}

// NewOpenAI returns a chat completions model. An empty apiKey leaves the
// SDK to read OPENAI_API_KEY.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	o := defaultOptions(DefaultOpenAIModel)
	for _, opt := range opts {
		opt(&o)
	}

	var reqOpts []option.RequestOption
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	if o.maxRetries >= 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(o.maxRetries))
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), opts: o}
}

func (m *OpenAI) Name() string { return m.opts.model }

func (m *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(user))

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(m.opts.model),
		Messages:    msgs,
		MaxTokens:   openai.Int(m.opts.maxTokens),
		Temperature: openai.Float(m.opts.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
