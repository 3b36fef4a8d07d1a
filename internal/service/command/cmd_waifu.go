package command

import (
	"context"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/service/session"
	"github.com/yukibot/yuki/pkg/log"
)

const (
	waifuPasswordTTL = 4 * time.Second
	waifuFailedTTL   = 2 * time.Second
)

type WaifuPicker interface {
	Pick(ctx context.Context, userID int64) (core.File, error)
}

// WaifuCommand is password protected; a correct password is remembered for a
// while per user.
type WaifuCommand struct {
	picker WaifuPicker
	auth   *session.AuthCache
	loc    *locales.Bundle
}

func NewWaifuCommand(picker WaifuPicker, auth *session.AuthCache, loc *locales.Bundle) *WaifuCommand {
	return &WaifuCommand{picker: picker, auth: auth, loc: loc}
}

func (c *WaifuCommand) Name() string        { return "waifu" }
func (c *WaifuCommand) Description() string { return "CmdWaifu" }

func (c *WaifuCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	password := ""
	if len(req.Args) > 0 {
		password = req.Args[0]
	}
	if !c.auth.Authorize(req.UserID, password) {
		return []core.Reply{core.TransientFor(c.loc.For(req.Lang).T("WaifuPassword", nil), waifuPasswordTTL)}, nil
	}
	return c.Deliver(ctx, req), nil
}

// Deliver sends a picture without the password check. The assistant uses it
// when a reply asks for one.
func (c *WaifuCommand) Deliver(ctx context.Context, req core.Request) []core.Reply {
	file, err := c.picker.Pick(ctx, req.UserID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Int64("user_id", req.UserID).Msg("failed to pick waifu")
		return []core.Reply{core.TransientFor(c.loc.For(req.Lang).T("WaifuFailed", nil), waifuFailedTTL)}
	}
	return []core.Reply{{Kind: core.ReplyPhoto, File: &file}}
}
