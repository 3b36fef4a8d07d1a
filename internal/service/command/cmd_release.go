package command

import (
	"context"
	"fmt"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/catalog"
	"github.com/yukibot/yuki/pkg/log"
)

type ReleaseSource interface {
	LatestRelease(ctx context.Context, repo, keyword string) (catalog.Release, error)
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

// ReleaseCommand sends the newest release asset of a GitHub project.
type ReleaseCommand struct {
	name        string
	description string
	title       string
	repo        string
	keyword     string
	source      ReleaseSource
	maxBytes    int64
	loc         *locales.Bundle
}

func NewMagiskCommand(source ReleaseSource, maxBytes int64, loc *locales.Bundle) *ReleaseCommand {
	return &ReleaseCommand{
		name:        "magisk",
		description: "CmdMagisk",
		title:       "Magisk",
		repo:        "topjohnwu/Magisk",
		keyword:     ".apk",
		source:      source,
		maxBytes:    maxBytes,
		loc:         loc,
	}
}

func NewKsuNextCommand(source ReleaseSource, maxBytes int64, loc *locales.Bundle) *ReleaseCommand {
	return &ReleaseCommand{
		name:        "ksu_next",
		description: "CmdKsuNext",
		title:       "KernelSU-Next",
		repo:        "KernelSU-Next/KernelSU-Next",
		keyword:     ".apk",
		source:      source,
		maxBytes:    maxBytes,
		loc:         loc,
	}
}

func (c *ReleaseCommand) Name() string        { return c.name }
func (c *ReleaseCommand) Description() string { return c.description }

func (c *ReleaseCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	logger := log.FromCtx(ctx)

	req.Send(core.TransientReply(l.T("ReleaseLoading", map[string]any{"Name": c.title})))

	rel, data, err := c.fetch(ctx, req, l)
	if err != nil {
		logger.Error().Err(err).Str("repo", c.repo).Msg("release lookup failed")
		return []core.Reply{core.TransientReply(l.T("ReleaseNotFound", map[string]any{"Name": c.title}))}, nil
	}

	return []core.Reply{{
		Kind: core.ReplyDocument,
		Text: l.T("ReleaseCaption", map[string]any{"Name": c.title, "Tag": rel.Tag}),
		File: &core.File{Name: rel.AssetName, Data: data},
	}}, nil
}

func (c *ReleaseCommand) fetch(ctx context.Context, req core.Request, l *locales.Localizer) (catalog.Release, []byte, error) {
	rel, err := c.source.LatestRelease(ctx, c.repo, c.keyword)
	if err != nil {
		return rel, nil, err
	}

	req.Send(core.TransientReply(l.T("ReleaseFound", map[string]any{"Name": c.title, "Tag": rel.Tag})))

	data, err := c.source.Download(ctx, rel.DownloadURL, c.maxBytes)
	if err != nil {
		return rel, nil, fmt.Errorf("download %s: %w", rel.AssetName, err)
	}
	return rel, data, nil
}
