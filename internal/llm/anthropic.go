package llm

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider calls the Anthropic Messages API. It has no
// embeddings endpoint.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a provider for the given model.
func NewAnthropicProvider(apiKey, baseURL, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, upstream(ProviderAnthropic, "configure", 0, ErrMissingAPIKey)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

func (p *AnthropicProvider) Complete(ctx context.Context, c *Completion) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(withDefault(c.Model, p.model)),
		MaxTokens: int64(c.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.Prompt)),
		},
	}
	// Claude models reject temperature and top_p together; temperature wins.
	switch {
	case c.Temperature > 0:
		params.Temperature = anthropic.Float(float64(c.Temperature))
	case c.TopP > 0:
		params.TopP = anthropic.Float(float64(c.TopP))
	}
	if c.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", upstream(ProviderAnthropic, "complete", status, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", upstream(ProviderAnthropic, "complete", 0, ErrEmptyReply)
	}
	return sb.String(), nil
}

func (p *AnthropicProvider) Embed(ctx context.Context, input string) ([]float32, error) {
	return nil, upstream(ProviderAnthropic, "embed", 0, ErrUnsupported)
}
