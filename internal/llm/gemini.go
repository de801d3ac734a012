package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini Developer API.
type GeminiProvider struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model, embeddingModel string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, upstream(ProviderGemini, "configure", 0, ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, upstream(ProviderGemini, "configure", 0, err)
	}

	return &GeminiProvider{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Complete(ctx context.Context, c *Completion) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.Temperature),
		TopP:            genai.Ptr(c.TopP),
		MaxOutputTokens: int32(c.MaxTokens),
	}
	if c.System != "" {
		config.SystemInstruction = genai.NewContentFromText(c.System, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, withDefault(c.Model, p.model), genai.Text(c.Prompt), config)
	if err != nil {
		return "", upstream(ProviderGemini, "complete", geminiStatus(err), err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", upstream(ProviderGemini, "complete", 0, ErrEmptyReply)
	}
	return text, nil
}

func (p *GeminiProvider) Embed(ctx context.Context, input string) ([]float32, error) {
	if p.embeddingModel == "" {
		return nil, upstream(ProviderGemini, "embed", 0, ErrUnsupported)
	}

	resp, err := p.client.Models.EmbedContent(ctx, p.embeddingModel, genai.Text(input), nil)
	if err != nil {
		return nil, upstream(ProviderGemini, "embed", geminiStatus(err), err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, upstream(ProviderGemini, "embed", 0, ErrEmptyReply)
	}
	return resp.Embeddings[0].Values, nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
