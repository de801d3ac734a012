package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DeepSeekBaseURL is DeepSeek's OpenAI-compatible endpoint.
const DeepSeekBaseURL = "https://api.deepseek.com/v1"

// OpenAIProvider talks to any OpenAI-compatible chat completion API
// (DeepSeek, OpenAI, vLLM, LM Studio).
type OpenAIProvider struct {
	name           string
	client         *openai.Client
	model          string
	embeddingModel string
}

// Compile-time check: *OpenAIProvider satisfies the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider. An empty baseURL uses the official
// OpenAI endpoint; an empty embeddingModel disables Embed.
func NewOpenAIProvider(name, apiKey, baseURL, model, embeddingModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, upstream(name, "configure", 0, ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIProvider{
		name:           name,
		client:         openai.NewClientWithConfig(config),
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

// Complete sends a system + user message pair and returns the first
// choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, c *Completion) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: c.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       withDefault(c.Model, p.model),
		Messages:    messages,
		Temperature: c.Temperature,
		TopP:        c.TopP,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", upstream(p.name, "complete", openAIStatus(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", upstream(p.name, "complete", 0, ErrEmptyReply)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", upstream(p.name, "complete", 0, ErrEmptyReply)
	}
	return content, nil
}

// Embed returns the embedding of input using the configured model.
func (p *OpenAIProvider) Embed(ctx context.Context, input string) ([]float32, error) {
	if p.embeddingModel == "" {
		return nil, upstream(p.name, "embed", 0, ErrUnsupported)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{input},
		Model: openai.EmbeddingModel(p.embeddingModel),
	})
	if err != nil {
		return nil, upstream(p.name, "embed", openAIStatus(err), err)
	}

	if len(resp.Data) == 0 {
		return nil, upstream(p.name, "embed", 0, ErrEmptyReply)
	}
	return resp.Data[0].Embedding, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
