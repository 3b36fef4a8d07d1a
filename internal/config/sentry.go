package config

import (
	"github.com/caarlos0/env/v11"
)

type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// NewSentryConfig is parsed before the logger exists, so errors are returned.
func NewSentryConfig() (*SentryConfig, error) {
	c := &SentryConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}
