package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

const azureAPIVersion = "2024-06-01"

// OpenAIClient talks to an Azure OpenAI resource. The chat and embedding
// deployments are separate names on the same endpoint.
type OpenAIClient struct {
	client          *openai.Client
	chatDeployment  string
	embedDeployment string
}

func NewOpenAIClient(endpoint, apiKey, chatDeployment, embedDeployment string) *OpenAIClient {
	client := openai.NewClient(
		azure.WithEndpoint(endpoint, azureAPIVersion),
		option.WithAPIKey(apiKey),
	)
	return &OpenAIClient{
		client:          &client,
		chatDeployment:  chatDeployment,
		embedDeployment: embedDeployment,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, turns []Turn, maxTokens int, temperature float64) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	messages = append(messages, openai.SystemMessage(system))

	for _, turn := range turns {
		if turn.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.chatDeployment),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embedDeployment),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai embedding error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding from openai")
	}

	return resp.Data[0].Embedding, nil
}

func (c *OpenAIClient) ModelName() string {
	return c.chatDeployment
}
