package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type WaifuConfig struct {
	Password string        `env:"WAIFU_PASSWORD"`
	Timeout  time.Duration `env:"WAIFU_TIMEOUT" envDefault:"1h"`
	// Relative paths are resolved against the runtime directory.
	Folder string `env:"WAIFU_FOLDER" envDefault:"waifu"`
	APIURL string `env:"WAIFU_API_URL" envDefault:"https://api.waifu.pics/sfw/waifu"`
}

func NewWaifuConfig(ctx context.Context, runtimePath string) *WaifuConfig {
	c := &WaifuConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Waifu config")
	}
	if !filepath.IsAbs(c.Folder) {
		c.Folder = filepath.Join(runtimePath, c.Folder)
	}
	return c
}
