package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"YUKI_RUNTIME_PATH" envDefault:".yuki"`
	// Default locale for replies when the sender's language is unknown.
	Lang string `env:"YUKI_LANG" envDefault:"uk"`

	EnableTelegram bool `env:"YUKI_ENABLE_TELEGRAM" envDefault:"true"`
	EnableHealth   bool `env:"YUKI_ENABLE_HEALTH" envDefault:"false"`

	// Transcript budget in tokens, oldest turns are dropped first.
	HistoryTokenBudget int `env:"YUKI_HISTORY_TOKENS" envDefault:"24000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolve(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetOwnerPromptPath() string {
	return filepath.Join(c.RuntimePath, "OWNER.md")
}

func (c AppConfig) GetUserPromptPath() string {
	return filepath.Join(c.RuntimePath, "USER.md")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "yuki.db")
}

func (c AppConfig) GetDownloadsPath() string {
	return filepath.Join(c.RuntimePath, "downloads")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}
