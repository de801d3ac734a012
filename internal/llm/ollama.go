package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider calls a local Ollama server. No API key is needed.
type OllamaProvider struct {
	client         *api.Client
	model          string
	embeddingModel string
}

var _ Provider = (*OllamaProvider)(nil)

// NewOllamaProvider creates a provider. An empty host falls back to
// OLLAMA_HOST or http://localhost:11434.
func NewOllamaProvider(host, model, embeddingModel string) (*OllamaProvider, error) {
	var client *api.Client

	if host != "" {
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		base, err := url.Parse(host)
		if err != nil {
			return nil, upstream(ProviderOllama, "configure", 0, fmt.Errorf("invalid host: %w", err))
		}
		client = api.NewClient(base, &http.Client{})
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, upstream(ProviderOllama, "configure", 0, err)
		}
	}

	return &OllamaProvider{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (p *OllamaProvider) Name() string { return ProviderOllama }

func (p *OllamaProvider) Complete(ctx context.Context, c *Completion) (string, error) {
	messages := make([]api.Message, 0, 2)
	if c.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: c.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: c.Prompt})

	req := &api.ChatRequest{
		Model:    withDefault(c.Model, p.model),
		Messages: messages,
		Stream:   new(bool),
		Options: map[string]interface{}{
			"temperature": c.Temperature,
			"top_p":       c.TopP,
			"num_predict": c.MaxTokens,
		},
	}

	var content strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", upstream(ProviderOllama, "complete", ollamaStatus(err), err)
	}

	if strings.TrimSpace(content.String()) == "" {
		return "", upstream(ProviderOllama, "complete", 0, ErrEmptyReply)
	}
	return content.String(), nil
}

func (p *OllamaProvider) Embed(ctx context.Context, input string) ([]float32, error) {
	resp, err := p.client.Embed(ctx, &api.EmbedRequest{
		Model: p.embeddingModel,
		Input: input,
	})
	if err != nil {
		return nil, upstream(ProviderOllama, "embed", ollamaStatus(err), err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, upstream(ProviderOllama, "embed", 0, ErrEmptyReply)
	}
	return resp.Embeddings[0], nil
}

func ollamaStatus(err error) int {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
