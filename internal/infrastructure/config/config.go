package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// LLM provider
	LLMProvider    string // deepseek, openai, gemini, anthropic, ollama
	LLMModel       string // empty = provider default
	LLMBaseURL     string
	LLMTimeout     time.Duration
	Temperature    float32
	TopP           float32
	MaxTokens      int
	EmbeddingModel string

	DeepSeekAPIKey  string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Request handling
	DailyLimit  int
	QueueSize   int
	CORSOrigins []string
	Location    *time.Location

	QuestionsDB string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LLMProvider:    getenvDefault("LLM_PROVIDER", "deepseek"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		LLMTimeout:     getDuration("LLM_TIMEOUT", 20*time.Second),
		Temperature:    getFloat32("LLM_TEMPERATURE", 0.7),
		TopP:           getFloat32("LLM_TOP_P", 0.9),
		MaxTokens:      getInt("LLM_MAX_TOKENS", 1024),
		EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),

		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      os.Getenv("OLLAMA_HOST"),

		DailyLimit:  getInt("DAILY_LIMIT", 500),
		QueueSize:   getInt("QUEUE_SIZE", 32),
		CORSOrigins: getList("CORS_ORIGINS", []string{"https://stanleyhi.com", "http://localhost:3000"}),
		Location:    getLocation("TIMEZONE"),

		QuestionsDB: getenvDefault("QUESTIONS_DB", "questions.db"),
	}
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch strings.ToLower(c.LLMProvider) {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "ollama":
		return ""
	default:
		return c.DeepSeekAPIKey
	}
}

// BaseURL returns LLM_BASE_URL, or OLLAMA_HOST for the ollama provider.
func (c *Config) BaseURL() string {
	if strings.EqualFold(c.LLMProvider, "ollama") && c.LLMBaseURL == "" {
		return c.OllamaHost
	}
	return c.LLMBaseURL
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getFloat32(k string, fallback float32) float32 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid number: %v", k, v, err)
	}
	return float32(f)
}

func getList(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getLocation(k string) *time.Location {
	v := os.Getenv(k)
	if v == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid time zone: %v", k, v, err)
	}
	return loc
}
