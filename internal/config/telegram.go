package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type TelegramConfig struct {
	Token   string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64  `env:"TELEGRAM_OWNER_ID,required"`

	PollTimeout time.Duration `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
	// Ceiling for a single MarkdownV2 message, below the API limit of 4096.
	ChunkCeiling int           `env:"TELEGRAM_CHUNK_CEILING" envDefault:"2048"`
	SendInterval time.Duration `env:"TELEGRAM_SEND_INTERVAL" envDefault:"400ms"`
	// How long help and error replies stay visible.
	TransientTTL time.Duration `env:"TELEGRAM_TRANSIENT_TTL" envDefault:"5s"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) GetTelegramToken() string {
	return c.Token
}

func (c TelegramConfig) GetTelegramOwnerID() int64 {
	return c.OwnerID
}
