package llm

import (
	"context"
	"fmt"

	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/log"
)

func paramsFrom(cfg *config.ProviderConfig) Params {
	return Params{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// NewProvider creates the chat provider selected by configuration.
func NewProvider(ctx context.Context, cfg *config.ProviderConfig) (core.ChatProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	params := paramsFrom(cfg)
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.ImageModel, params)
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, params), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, params), nil
	case "custom":
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model, params), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// NewImageGenerator returns nil when no Gemini key is configured.
func NewImageGenerator(ctx context.Context, cfg *config.ProviderConfig) (core.ImageGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		log.FromCtx(ctx).Warn().Msg("GEMINI_API_KEY is not set, image generation disabled")
		return nil, nil
	}
	return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.ImageModel, paramsFrom(cfg))
}
