package command

import (
	"context"
	"strings"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/service/limiter"
	"github.com/yukibot/yuki/pkg/log"
)

const (
	genHelpTTL  = 5 * time.Second
	genLimitTTL = 7 * time.Second
)

// GenCommand generates an image from a prompt. Only successful generations
// count against the user's window.
type GenCommand struct {
	gen    core.ImageGenerator
	window *limiter.Window
	loc    *locales.Bundle
}

// NewGenCommand accepts a nil generator; the command then reports that image
// generation is not configured.
func NewGenCommand(gen core.ImageGenerator, window *limiter.Window, loc *locales.Bundle) *GenCommand {
	return &GenCommand{gen: gen, window: window, loc: loc}
}

func (c *GenCommand) Name() string        { return "gen" }
func (c *GenCommand) Description() string { return "CmdGen" }

func (c *GenCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	logger := log.FromCtx(ctx)

	prompt := strings.TrimSpace(req.Raw)
	if prompt == "" {
		return []core.Reply{core.TransientFor(l.T("GenHelp", nil), genHelpTTL)}, nil
	}
	if c.gen == nil {
		return []core.Reply{core.TransientReply(l.T("GenDisabled", nil))}, nil
	}

	if ok, wait := c.window.Check(req.UserID); !ok {
		return []core.Reply{core.TransientFor(l.T("GenLimit", map[string]any{
			"Max":     c.window.Max(),
			"Minutes": int(c.window.Period().Minutes()),
			"Left":    limiter.MinutesLeft(wait),
		}), genLimitTTL)}, nil
	}

	data, err := c.gen.GenerateImage(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("image generation failed")
		return []core.Reply{core.TransientReply(l.T("GenError", nil))}, nil
	}
	if len(data) == 0 {
		return []core.Reply{core.TransientReply(l.T("GenFailed", nil))}, nil
	}

	c.window.Record(req.UserID)
	logger.Info().Int64("user_id", req.UserID).Int("bytes", len(data)).Msg("image generated")

	return []core.Reply{{
		Kind: core.ReplyPhoto,
		File: &core.File{Name: "generated.png", Data: data},
	}}, nil
}
