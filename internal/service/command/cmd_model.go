package command

import (
	"context"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/pkg/log"
)

type ModelSwitcher interface {
	GetProvider() string
	GetModel() string
	SetModel(ctx context.Context, model string) error
}

// ModelCommand shows or changes the chat model. Owner only.
type ModelCommand struct {
	switcher ModelSwitcher
	ownerID  int64
	loc      *locales.Bundle
}

func NewModelCommand(switcher ModelSwitcher, ownerID int64, loc *locales.Bundle) *ModelCommand {
	return &ModelCommand{switcher: switcher, ownerID: ownerID, loc: loc}
}

func (c *ModelCommand) Name() string        { return "model" }
func (c *ModelCommand) Description() string { return "CmdModel" }

func (c *ModelCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	if c.ownerID == 0 || req.UserID != c.ownerID {
		return []core.Reply{core.TransientReply(l.T("OwnerOnly", nil))}, nil
	}

	if len(req.Args) == 0 {
		return []core.Reply{core.HTMLReply(l.T("ModelCurrent", map[string]any{
			"Provider": c.switcher.GetProvider(),
			"Model":    c.switcher.GetModel(),
		}))}, nil
	}

	if err := c.switcher.SetModel(ctx, req.Args[0]); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("model", req.Args[0]).Msg("failed to set model")
		return []core.Reply{core.TransientReply(l.T("ModelFailed", nil))}, nil
	}

	log.FromCtx(ctx).Info().Str("model", c.switcher.GetModel()).Msg("model changed")
	return []core.Reply{core.HTMLReply(l.T("ModelChanged", map[string]any{"Model": c.switcher.GetModel()}))}, nil
}
