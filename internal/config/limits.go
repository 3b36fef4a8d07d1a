package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type LimitsConfig struct {
	MaxGenerations   int `env:"MAX_GENERATIONS" envDefault:"3"`
	TimeLimitMinutes int `env:"TIME_LIMIT_MINUTES" envDefault:"60"`

	MaxReplyRunes    int   `env:"MAX_REPLY_RUNES" envDefault:"8000"`
	MaxPhotoBytes    int64 `env:"MAX_PHOTO_BYTES" envDefault:"10485760"`
	MaxDownloadBytes int64 `env:"MAX_DOWNLOAD_BYTES" envDefault:"52428800"`

	// Inline keyboards are dropped when not answered in time.
	ChoiceTTL time.Duration `env:"CHOICE_TTL" envDefault:"15s"`
}

func NewLimitsConfig(ctx context.Context) *LimitsConfig {
	c := &LimitsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Limits config")
	}
	return c
}

func (c LimitsConfig) Window() time.Duration {
	return time.Duration(c.TimeLimitMinutes) * time.Minute
}
