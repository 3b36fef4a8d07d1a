package main

import (
	"context"
	"database/sql"

	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/catalog"
	"github.com/yukibot/yuki/internal/providers/llm"
	"github.com/yukibot/yuki/internal/providers/media"
	"github.com/yukibot/yuki/internal/service/assistant"
	"github.com/yukibot/yuki/internal/service/command"
	"github.com/yukibot/yuki/internal/service/limiter"
	"github.com/yukibot/yuki/internal/service/session"
	"github.com/yukibot/yuki/internal/service/waifu"
	"github.com/yukibot/yuki/internal/storage/sqlite"
	"github.com/yukibot/yuki/internal/transport/health"
	"github.com/yukibot/yuki/internal/transport/telegram"
	"github.com/yukibot/yuki/pkg/log"
	"github.com/yukibot/yuki/pkg/srv"
)

// app holds the wiring shared by every transport.
type app struct {
	cfg       *config.AppConfig
	limits    *config.LimitsConfig
	tg        *config.TelegramConfig
	ownerID   int64
	db        *sql.DB
	locales   *locales.Bundle
	active    *session.ActiveSet
	assistant *assistant.Service
	router    *command.Router
	waifu     *command.WaifuCommand
	services  []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// 1. Configuration
	a := &app{
		cfg:    config.NewAppConfig(ctx),
		limits: config.NewLimitsConfig(ctx),
		active: session.NewActiveSet(),
	}
	providerCfg := config.NewProviderConfig(ctx)
	waifuCfg := config.NewWaifuConfig(ctx, a.cfg.GetRuntimePath())
	if a.cfg.EnableTelegram {
		a.tg = config.NewTelegramConfig(ctx)
		a.ownerID = a.tg.OwnerID
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.db = db
	a.services = append(a.services, srv.NewCleanup(db.Close))

	// 3. LLM providers
	chat, err := llm.NewDynamicProvider(ctx, providerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	images, err := llm.NewImageGenerator(ctx, providerCfg)
	if err != nil {
		logger.Error().Err(err).Msg("image generation disabled")
		images = nil
	}

	// 4. Services
	a.assistant = assistant.NewService(
		chat,
		sqlite.NewTranscriptRepo(db),
		assistant.NewPrompter(a.cfg),
		a.ownerID,
		a.cfg.HistoryTokenBudget,
	)
	remote := catalog.NewClient(catalog.Options{WaifuURL: waifuCfg.APIURL})
	picker := waifu.NewPicker(waifuCfg.Folder, sqlite.NewWaifuRepo(db), remote, a.limits.MaxPhotoBytes)

	a.locales, err = locales.New(a.cfg.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load locales")
	}

	// 5. Commands
	commands, waifuCmd := command.NewCommands(command.Deps{
		Locales:    a.locales,
		Active:     a.active,
		WaifuAuth:  session.NewAuthCache(waifuCfg.Password, waifuCfg.Timeout),
		Downloads:  session.NewPending[string](a.limits.ChoiceTTL),
		Generation: limiter.NewWindow(a.limits.MaxGenerations, a.limits.Window()),
		Assistant:  a.assistant,
		Images:     images,
		Waifus:     picker,
		Releases:   remote,
		Modules:    remote,
		Downloader: media.NewDownloader(a.cfg.GetDownloadsPath(), a.limits.MaxDownloadBytes),
		Models:     chat,
		OwnerID:    a.ownerID,
		MaxBytes:   a.limits.MaxDownloadBytes,
	})
	a.router = command.New(commands, a.locales)
	a.waifu = waifuCmd

	return a
}

func (a *app) telegram(ctx context.Context) []srv.Service {
	if a.tg == nil {
		log.FromCtx(ctx).Warn().Msg("telegram transport disabled")
		return nil
	}

	bot, err := telegram.NewBot(ctx, a.tg, a.limits, a.router, a.assistant, a.active, a.waifu, a.locales, a.cfg.Lang)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	return []srv.Service{bot}
}

func (a *app) health(ctx context.Context) []srv.Service {
	if !a.cfg.EnableHealth {
		return nil
	}
	return []srv.Service{health.NewServer(config.NewHealthConfig(ctx), a.db)}
}
