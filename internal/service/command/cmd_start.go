package command

import (
	"context"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
)

type StartCommand struct {
	loc *locales.Bundle
}

func NewStartCommand(loc *locales.Bundle) *StartCommand {
	return &StartCommand{loc: loc}
}

func (c *StartCommand) Name() string        { return "start" }
func (c *StartCommand) Description() string { return "CmdStart" }

func (c *StartCommand) Execute(_ context.Context, req core.Request) ([]core.Reply, error) {
	return []core.Reply{core.HTMLReply(c.loc.For(req.Lang).T("Welcome", nil))}, nil
}
