package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type ProviderConfig struct {
	// gemini, openrouter, openai or custom
	Provider string `env:"LLM_PROVIDER" envDefault:"gemini"`
	Model    string `env:"LLM_MODEL"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	ImageModel   string `env:"GEMINI_IMAGE_MODEL" envDefault:"imagen-4.0-ultra-generate-preview-06-06"`

	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	Temperature     float32 `env:"LLM_TEMPERATURE" envDefault:"0.9"`
	TopP            float32 `env:"LLM_TOP_P" envDefault:"1"`
	TopK            float32 `env:"LLM_TOP_K" envDefault:"1"`
	MaxOutputTokens int32   `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"2048"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	if c.Model == "" {
		c.Model = defaultModel(c.Provider)
	}
	return c
}

func defaultModel(provider string) string {
	switch provider {
	case "openrouter":
		return "google/gemini-2.0-flash-001"
	case "openai":
		return "gpt-4o-mini"
	default:
		return "gemini-2.0-flash"
	}
}
