package command

import (
	"context"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/service/session"
)

type Resetter interface {
	Reset(ctx context.Context, userID int64) error
}

// GetYukiCommand turns assistant replies on for the caller.
type GetYukiCommand struct {
	active *session.ActiveSet
	loc    *locales.Bundle
}

func NewGetYukiCommand(active *session.ActiveSet, loc *locales.Bundle) *GetYukiCommand {
	return &GetYukiCommand{active: active, loc: loc}
}

func (c *GetYukiCommand) Name() string        { return "get_yuki" }
func (c *GetYukiCommand) Description() string { return "CmdGetYuki" }

func (c *GetYukiCommand) Execute(_ context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	if !c.active.Activate(req.UserID) {
		return []core.Reply{core.HTMLReply(l.T("YukiAlreadyActive", nil))}, nil
	}
	return []core.Reply{core.HTMLReply(l.T("YukiActivated", nil))}, nil
}

type SleepCommand struct {
	active *session.ActiveSet
	loc    *locales.Bundle
}

func NewSleepCommand(active *session.ActiveSet, loc *locales.Bundle) *SleepCommand {
	return &SleepCommand{active: active, loc: loc}
}

func (c *SleepCommand) Name() string        { return "sleep" }
func (c *SleepCommand) Description() string { return "CmdSleep" }

func (c *SleepCommand) Execute(_ context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	if !c.active.Deactivate(req.UserID) {
		return []core.Reply{core.TransientReply(l.T("YukiNotActive", nil))}, nil
	}
	return []core.Reply{core.TransientReply(l.T("YukiSleep", nil))}, nil
}

// ResetCommand clears the caller's transcript. The session stays active.
type ResetCommand struct {
	assistant Resetter
	loc       *locales.Bundle
}

func NewResetCommand(assistant Resetter, loc *locales.Bundle) *ResetCommand {
	return &ResetCommand{assistant: assistant, loc: loc}
}

func (c *ResetCommand) Name() string        { return "reset_yuki" }
func (c *ResetCommand) Description() string { return "CmdResetYuki" }

func (c *ResetCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	if err := c.assistant.Reset(ctx, req.UserID); err != nil {
		return nil, err
	}
	return []core.Reply{core.TransientReply(c.loc.For(req.Lang).T("YukiReset", nil))}, nil
}
