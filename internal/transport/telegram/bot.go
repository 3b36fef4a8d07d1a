package telegram

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/media"
	"github.com/yukibot/yuki/internal/service/assistant"
	"github.com/yukibot/yuki/internal/service/session"
	"github.com/yukibot/yuki/pkg/log"
	"github.com/yukibot/yuki/pkg/markup"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Assistant interface {
	Reply(ctx context.Context, userID int64, prompt core.Prompt) (assistant.Answer, error)
	Unsupported(ctx context.Context, kind string) (string, error)
}

// WaifuSender delivers a picture without the password check.
type WaifuSender interface {
	Deliver(ctx context.Context, req core.Request) []core.Reply
}

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	limits    *config.LimitsConfig
	router    core.CmdRouter
	assistant Assistant
	active    *session.ActiveSet
	waifu     WaifuSender
	loc       *locales.Bundle
	lang      string
	sender    *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	limits *config.LimitsConfig,
	router core.CmdRouter,
	assistant Assistant,
	active *session.ActiveSet,
	waifu WaifuSender,
	loc *locales.Bundle,
	lang string,
) (*Bot, error) {
	logger := log.FromCtx(ctx)

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error().Err(err).Msg("telegram handler error")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	chunker, err := markup.NewChunker(markup.MarkdownV2(), cfg.ChunkCeiling)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		limits:    limits,
		router:    router,
		assistant: assistant,
		active:    active,
		waifu:     waifu,
		loc:       loc,
		lang:      lang,
		sender:    newSender(b, chunker, limits.MaxReplyRunes, cfg.SendInterval),
	}

	// Use context from Signal with logger, tagged per update
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			fields := map[string]any{}
			if u := c.Sender(); u != nil {
				fields["user_id"] = u.ID
			}
			if ch := c.Chat(); ch != nil {
				fields["chat_id"] = ch.ID
			}
			c.Set(baseContextKey, log.WithFields(ctx, fields))
			return next(c)
		}
	})

	b.Handle("/ping", bot.handlePing)
	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnPhoto, bot.handlePhoto)
	b.Handle(tele.OnDocument, bot.handleDocument)
	b.Handle(tele.OnCallback, bot.handleCallback)
	for endpoint, kind := range map[string]string{
		tele.OnVoice:     "voice",
		tele.OnAudio:     "audio",
		tele.OnVideo:     "video",
		tele.OnVideoNote: "video_note",
		tele.OnSticker:   "sticker",
		tele.OnAnimation: "animation",
		tele.OnLocation:  "location",
		tele.OnContact:   "contact",
		tele.OnPoll:      "poll",
	} {
		b.Handle(endpoint, bot.handleUnsupported(kind))
	}

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	if err := b.registerCommands(); err != nil {
		logger.Warn().Err(err).Msg("failed to register bot commands")
	}
	logger.Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) registerCommands() error {
	l := b.loc.For(b.lang)
	cmds := []tele.Command{{Text: "ping", Description: l.T("CmdPing", nil)}}
	for _, cmd := range b.router.ListCommands() {
		cmds = append(cmds, tele.Command{Text: cmd.Name(), Description: l.T(cmd.Description(), nil)})
	}
	return b.bot.SetCommands(cmds)
}

func (b *Bot) context(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func (b *Bot) request(ctx context.Context, c tele.Context) core.Request {
	req := core.Request{UserID: c.Sender().ID, ChatID: c.Chat().ID, Lang: c.Sender().LanguageCode}
	if req.Lang == "" {
		req.Lang = b.lang
	}
	chat := c.Chat()
	req.Notify = func(r core.Reply) { b.deliver(ctx, chat, []core.Reply{r}) }
	return req
}

func (b *Bot) handlePing(c tele.Context) error {
	ctx := b.context(c)
	l := b.loc.For(c.Sender().LanguageCode)

	start := time.Now()
	probe, err := b.bot.Send(c.Chat(), l.T("PingProbe", nil))
	if err != nil {
		return err
	}
	ms := time.Since(start).Milliseconds()

	if _, err := b.bot.Edit(probe, l.T("PingResult", map[string]any{"Ms": ms}), tele.ModeHTML); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to edit ping message")
	}
	b.deleteCommand(ctx, c.Message())
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := b.context(c)
	text := c.Text()
	req := b.request(ctx, c)

	if replies, ok := b.router.Execute(ctx, req, text); ok {
		b.deleteCommand(ctx, c.Message())
		b.deliver(ctx, c.Chat(), replies)
		return nil
	}

	if !b.active.IsActive(req.UserID) {
		return nil
	}
	return b.chat(ctx, c, req, core.Prompt{Text: text})
}

func (b *Bot) handlePhoto(c tele.Context) error {
	ctx := b.context(c)
	req := b.request(ctx, c)
	if !b.active.IsActive(req.UserID) {
		return nil
	}

	photo := c.Message().Photo
	img, err := b.loadImage(ctx, photo.File, "")
	if err != nil {
		return b.rejectImage(ctx, c, req, err)
	}
	return b.chat(ctx, c, req, core.Prompt{Text: c.Message().Caption, Image: &img})
}

// handleDocument accepts images sent as files; anything else is unsupported.
func (b *Bot) handleDocument(c tele.Context) error {
	ctx := b.context(c)
	req := b.request(ctx, c)
	if !b.active.IsActive(req.UserID) {
		return nil
	}

	doc := c.Message().Document
	if err := media.CheckMIME(doc.MIME); err != nil {
		return b.rejectImage(ctx, c, req, err)
	}
	img, err := b.loadImage(ctx, doc.File, doc.FileName)
	if err != nil {
		return b.rejectImage(ctx, c, req, err)
	}
	return b.chat(ctx, c, req, core.Prompt{Text: c.Message().Caption, Image: &img})
}

func (b *Bot) handleUnsupported(kind string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := b.context(c)
		req := b.request(ctx, c)
		if !b.active.IsActive(req.UserID) {
			return nil
		}

		_ = c.Notify(tele.Typing)
		text, err := b.assistant.Unsupported(ctx, kind)
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("kind", kind).Msg("unsupported message reply failed")
			b.deliver(ctx, c.Chat(), []core.Reply{core.HTMLReply(chatError(b.loc.For(req.Lang), err))})
			return nil
		}
		return b.sender.sendMarkdown(ctx, c.Chat(), text)
	}
}

func (b *Bot) handleCallback(c tele.Context) error {
	ctx := b.context(c)
	req := b.request(ctx, c)

	data := strings.TrimSpace(c.Callback().Data)
	replies, ok := b.router.Callback(ctx, req, data)
	if err := c.Respond(); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to answer callback")
	}
	if !ok {
		log.FromCtx(ctx).Debug().Str("data", data).Msg("unhandled callback")
		return nil
	}
	b.deliver(ctx, c.Chat(), replies)
	return nil
}

func (b *Bot) chat(ctx context.Context, c tele.Context, req core.Request, prompt core.Prompt) error {
	logger := log.FromCtx(ctx)
	l := b.loc.For(req.Lang)
	_ = c.Notify(tele.Typing)

	answer, err := b.assistant.Reply(ctx, req.UserID, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("assistant reply failed")
		b.deliver(ctx, c.Chat(), []core.Reply{core.HTMLReply(chatError(l, err))})
		return nil
	}

	if answer.Text == "" && !answer.CallWaifu {
		b.deliver(ctx, c.Chat(), []core.Reply{core.HTMLReply(l.T("AIConfused", nil))})
		return nil
	}
	if answer.Text != "" {
		if err := b.sender.sendMarkdown(ctx, c.Chat(), answer.Text); err != nil {
			return err
		}
	}
	if answer.CallWaifu {
		b.deliver(ctx, c.Chat(), b.waifu.Deliver(ctx, req))
	}
	return nil
}

// loadImage validates metadata first and downloads only acceptable files.
func (b *Bot) loadImage(ctx context.Context, file tele.File, name string) (core.Image, error) {
	max := b.limits.MaxPhotoBytes
	if int64(file.FileSize) > max {
		return core.Image{}, fmt.Errorf("%w: %d bytes", core.ErrTooLarge, file.FileSize)
	}

	remote, err := b.bot.FileByID(file.FileID)
	if err != nil {
		return core.Image{}, fmt.Errorf("get file: %w", err)
	}
	if name == "" {
		name = remote.FilePath
	}
	if err := media.CheckImageMeta(name, int64(remote.FileSize), max); err != nil {
		return core.Image{}, err
	}

	rc, err := b.bot.File(&remote)
	if err != nil {
		return core.Image{}, fmt.Errorf("download file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, max+1))
	if err != nil {
		return core.Image{}, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > max {
		return core.Image{}, core.ErrTooLarge
	}

	log.FromCtx(ctx).Debug().Int("bytes", len(data)).Msg("image downloaded")
	return media.DecodeImage(data)
}

func (b *Bot) rejectImage(ctx context.Context, c tele.Context, req core.Request, err error) error {
	log.FromCtx(ctx).Warn().Err(err).Msg("image rejected")
	b.deliver(ctx, c.Chat(), []core.Reply{core.HTMLReply(b.loc.For(req.Lang).T(photoErrorID(err), nil))})
	return nil
}

// deliver sends replies in order. Failures are logged and the rest still go out.
func (b *Bot) deliver(ctx context.Context, chat *tele.Chat, replies []core.Reply) {
	logger := log.FromCtx(ctx)
	for _, r := range replies {
		if r.Kind == core.ReplyMarkdown {
			if err := b.sender.sendMarkdown(ctx, chat, r.Text); err != nil {
				logger.Error().Err(err).Msg("failed to send markdown reply")
			}
			continue
		}

		what, opts := outgoing(r)
		msg, err := b.sender.send(ctx, chat, what, opts...)
		if err != nil {
			logger.Error().Err(err).Int("kind", int(r.Kind)).Msg("failed to send reply")
			continue
		}
		if r.Transient {
			b.expire(ctx, msg, r.TTL)
		}
	}
}

func (b *Bot) expire(ctx context.Context, msg *tele.Message, ttl time.Duration) {
	if ttl <= 0 {
		ttl = b.cfg.TransientTTL
	}
	time.AfterFunc(ttl, func() {
		if err := b.bot.Delete(msg); err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("failed to delete transient message")
		}
	})
}

// deleteCommand removes the user's command message. Without admin rights in
// groups this fails, which is expected.
func (b *Bot) deleteCommand(ctx context.Context, msg *tele.Message) {
	if msg == nil {
		return
	}
	if err := b.bot.Delete(msg); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to delete command message")
	}
}
