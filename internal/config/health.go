package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/yukibot/yuki/pkg/log"
)

type HealthConfig struct {
	Addr string `env:"HEALTH_ADDR" envDefault:":8080"`
}

func NewHealthConfig(ctx context.Context) *HealthConfig {
	c := &HealthConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Health config")
	}
	return c
}
