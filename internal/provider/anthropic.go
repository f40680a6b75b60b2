package provider

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
)

const defaultMaxTokens = 8192

// AnthropicClient adapts github.com/anthropics/anthropic-sdk-go to the
// provider.Client contract. A fresh client is constructed per request
// since credentials (APIKey) are request-scoped, not process-wide.
type AnthropicClient struct {
	client       anthropic.Client
	defaultModel string
}

// NewAnthropicClient builds an adapter bound to one API key. defaultModel
// is used when a Request does not specify its own model.
func NewAnthropicClient(apiKey, defaultModel string) *AnthropicClient {
	return &AnthropicClient{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		defaultModel: defaultModel,
	}
}

// Translate sends the prompt as a single user message and returns the
// model's raw text response plus usage, if reported.
func (c *AnthropicClient) Translate(ctx context.Context, req Request) (Result, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("anthropic: %w", err)
	}
	if len(msg.Content) == 0 {
		return Result{}, backoff.Permanent(fmt.Errorf("anthropic: empty response content"))
	}

	return Result{
		Text:         msg.Content[0].Text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}

// Ping issues a minimal, cheap request to confirm the API key and
// network path are usable, for the readiness/health endpoints.
func (c *AnthropicClient) Ping(ctx context.Context) error {
	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.defaultModel),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("anthropic: ping: %w", err)
	}
	return nil
}
