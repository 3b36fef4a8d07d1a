package log

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// SentryHook forwards error-level events to Sentry.
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook initialises the Sentry client. An empty dsn yields a nil hook
// and a no-op flush.
func NewSentryHook(dsn, environment, release string, debug bool) (*SentryHook, func(), error) {
	if dsn == "" {
		return nil, func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
		Debug:       debug,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("sentry init: %w", err)
	}

	return &SentryHook{hub: sentry.CurrentHub()}, func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

func (h *SentryHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h == nil || level < zerolog.ErrorLevel || msg == "" {
		return
	}

	sentryLevel := sentry.LevelError
	if level >= zerolog.FatalLevel {
		sentryLevel = sentry.LevelFatal
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel)
		h.hub.CaptureMessage(msg)
	})
}
