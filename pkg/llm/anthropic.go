package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the alternate chat-completion provider, used when no
// Azure OpenAI chat deployment is configured. It does not serve embeddings.
type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, system string, turns []Turn, maxTokens int, temperature float64) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		if turn.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: messages,
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}

func (c *AnthropicClient) ModelName() string {
	return c.modelName
}
