// Package llm adapts remote completion and embedding APIs to a single
// provider-neutral interface. Every provider returns the model's raw text
// reply; parsing it is the caller's job.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider sends one prompt to a remote model and returns its raw reply.
// Implementations must honour ctx cancellation and deadlines.
type Provider interface {
	// Name identifies the provider in logs and errors, e.g. "deepseek".
	Name() string

	// Complete returns the text of the first choice. An empty reply is an
	// error.
	Complete(ctx context.Context, c *Completion) (string, error)

	// Embed returns an embedding vector for input, or ErrUnsupported.
	Embed(ctx context.Context, input string) ([]float32, error)
}

// Completion carries the prompt and the sampling settings passed through
// to the provider unchanged.
type Completion struct {
	System      string
	Prompt      string
	Model       string // empty = provider default
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Config selects and configures a provider.
type Config struct {
	Provider       string // deepseek, openai, gemini, anthropic, ollama
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

const (
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderDeepSeek, "":
		return NewOpenAIProvider(ProviderDeepSeek, cfg.APIKey, withDefault(cfg.BaseURL, DeepSeekBaseURL),
			withDefault(cfg.Model, "deepseek-chat"), cfg.EmbeddingModel)
	case ProviderOpenAI:
		return NewOpenAIProvider(ProviderOpenAI, cfg.APIKey, cfg.BaseURL,
			withDefault(cfg.Model, "gpt-4o-mini"), withDefault(cfg.EmbeddingModel, "text-embedding-3-small"))
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.APIKey,
			withDefault(cfg.Model, "gemini-2.0-flash"), withDefault(cfg.EmbeddingModel, "text-embedding-004"))
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, withDefault(cfg.Model, "claude-3-5-haiku-latest"))
	case ProviderOllama:
		return NewOllamaProvider(cfg.BaseURL,
			withDefault(cfg.Model, "qwen3:8b"), withDefault(cfg.EmbeddingModel, "mxbai-embed-large"))
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func withDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
