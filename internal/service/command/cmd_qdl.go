package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/media"
	"github.com/yukibot/yuki/internal/service/session"
	"github.com/yukibot/yuki/pkg/log"
)

type Downloader interface {
	Download(ctx context.Context, query string, format media.Format) (media.File, func(), error)
}

// QdlCommand downloads video or audio through yt-dlp. The query waits in a
// pending store until the user picks a format.
type QdlCommand struct {
	downloader Downloader
	pending    *session.Pending[string]
	loc        *locales.Bundle
}

func NewQdlCommand(downloader Downloader, pending *session.Pending[string], loc *locales.Bundle) *QdlCommand {
	return &QdlCommand{downloader: downloader, pending: pending, loc: loc}
}

func (c *QdlCommand) Name() string        { return "qdl" }
func (c *QdlCommand) Description() string { return "CmdQdl" }

func (c *QdlCommand) Execute(_ context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)

	if strings.TrimSpace(req.Raw) == "" {
		return []core.Reply{core.TransientReply(l.T("QdlUsage", nil))}, nil
	}
	query := media.NormalizeQuery(req.Raw)
	if media.IsUnsupported(query) {
		return []core.Reply{core.TransientReply(l.T("QdlTikTokPhoto", nil))}, nil
	}

	id := c.pending.Put(query)
	return []core.Reply{{
		Kind: core.ReplyHTML,
		Text: l.T("QdlChoose", nil),
		Choices: []core.Choice{
			{Label: l.T("QdlVideo", nil), Data: core.CallbackData(c.Name(), string(media.FormatVideo)+"|"+id)},
			{Label: l.T("QdlAudio", nil), Data: core.CallbackData(c.Name(), string(media.FormatAudio)+"|"+id)},
		},
		Transient: true,
		TTL:       c.pending.TTL(),
	}}, nil
}

func (c *QdlCommand) HandleCallback(ctx context.Context, req core.Request, data string) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)

	format, id, _ := strings.Cut(data, "|")
	query, ok := c.pending.Take(id)
	if !ok || (format != string(media.FormatVideo) && format != string(media.FormatAudio)) {
		return []core.Reply{core.TransientReply(l.T("QdlExpired", nil))}, nil
	}

	req.Send(core.TransientReply(l.T("QdlProgress", nil)))

	file, err := c.fetch(ctx, query, media.Format(format))
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("query", query).Msg("download failed")
		return []core.Reply{core.TransientReply(l.T(qdlErrorID(err), nil))}, nil
	}

	kind := core.ReplyVideo
	if media.Format(format) == media.FormatAudio {
		kind = core.ReplyAudio
	}
	return []core.Reply{{Kind: kind, File: &file}}, nil
}

// fetch reads the result into memory so temporary files are gone before the
// upload starts.
func (c *QdlCommand) fetch(ctx context.Context, query string, format media.Format) (core.File, error) {
	f, cleanup, err := c.downloader.Download(ctx, query, format)
	defer cleanup()
	if err != nil {
		return core.File{}, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return core.File{}, fmt.Errorf("read download: %w", err)
	}
	return core.File{Name: f.Name, Data: data}, nil
}

func qdlErrorID(err error) string {
	switch {
	case errors.Is(err, core.ErrUnsupportedURL):
		return "QdlUnsupported"
	case errors.Is(err, media.ErrPrivate):
		return "QdlPrivate"
	case errors.Is(err, media.ErrUnavailable):
		return "QdlUnavailable"
	case errors.Is(err, core.ErrTooLarge):
		return "QdlTooLarge"
	}
	return "QdlFailed"
}
