package command

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/catalog"
	"github.com/yukibot/yuki/pkg/conv"
	"github.com/yukibot/yuki/pkg/log"
)

const (
	modulesPerPage   = 5
	summaryMinRunes  = 30
	summaryMaxRunes  = 700
	moduleDetailName = "module"
)

type ModuleCatalog interface {
	SearchModules(ctx context.Context, query string, limit int) ([]catalog.Module, error)
	Module(ctx context.Context, id string) (catalog.Module, error)
	Readme(ctx context.Context, m catalog.Module) ([]byte, error)
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

// ModulesCommand lists the most starred modules matching an optional query.
// Only the first page is shown.
type ModulesCommand struct {
	catalog ModuleCatalog
	loc     *locales.Bundle
}

func NewModulesCommand(catalog ModuleCatalog, loc *locales.Bundle) *ModulesCommand {
	return &ModulesCommand{catalog: catalog, loc: loc}
}

func (c *ModulesCommand) Name() string        { return "modules" }
func (c *ModulesCommand) Description() string { return "CmdModules" }

func (c *ModulesCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)

	modules, err := c.catalog.SearchModules(ctx, req.Raw, 0)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load modules")
		return []core.Reply{core.TransientReply(l.T("ModulesFailed", nil))}, nil
	}
	if len(modules) == 0 {
		return []core.Reply{core.TransientReply(l.T("ModulesEmpty", nil))}, nil
	}

	pages := (len(modules) + modulesPerPage - 1) / modulesPerPage
	page := modules[:min(modulesPerPage, len(modules))]

	choices := make([]core.Choice, 0, len(page))
	for _, m := range page {
		choices = append(choices, core.Choice{
			Label: fmt.Sprintf("%s (%d★)", m.ID, m.Stars),
			Data:  core.CallbackData(moduleDetailName, m.ID),
		})
	}

	return []core.Reply{{
		Kind:    core.ReplyHTML,
		Text:    l.T("ModulesPage", map[string]any{"Page": 1, "Total": pages}),
		Choices: choices,
	}}, nil
}

// ModuleCommand shows one module and sends its zip. It also answers the
// buttons produced by ModulesCommand.
type ModuleCommand struct {
	catalog   ModuleCatalog
	maxBytes  int64
	loc       *locales.Bundle
	formatter *ResponseFormatter
}

func NewModuleCommand(catalog ModuleCatalog, maxBytes int64, loc *locales.Bundle) *ModuleCommand {
	return &ModuleCommand{
		catalog:   catalog,
		maxBytes:  maxBytes,
		loc:       loc,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModuleCommand) Name() string        { return moduleDetailName }
func (c *ModuleCommand) Description() string { return "CmdModule" }

func (c *ModuleCommand) Execute(ctx context.Context, req core.Request) ([]core.Reply, error) {
	if len(req.Args) == 0 {
		return []core.Reply{core.TransientReply(c.loc.For(req.Lang).T("ModuleUsage", nil))}, nil
	}
	return c.show(ctx, req, req.Args[0])
}

func (c *ModuleCommand) HandleCallback(ctx context.Context, req core.Request, id string) ([]core.Reply, error) {
	return c.show(ctx, req, id)
}

func (c *ModuleCommand) show(ctx context.Context, req core.Request, id string) ([]core.Reply, error) {
	l := c.loc.For(req.Lang)
	logger := log.FromCtx(ctx).With().Str("module", id).Logger()

	m, err := c.catalog.Module(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return []core.Reply{core.TransientReply(l.T("ModuleNotFound", nil))}, nil
	}
	if err != nil {
		return nil, err
	}

	replies := []core.Reply{core.HTMLReply(c.details(ctx, m, l))}

	data, err := c.catalog.Download(ctx, m.ZipURL, c.maxBytes)
	switch {
	case errors.Is(err, core.ErrTooLarge):
		replies = append(replies, core.HTMLReply(l.T("ModuleTooLarge", map[string]any{"ID": m.ID, "URL": m.ZipURL})))
	case err != nil:
		logger.Error().Err(err).Msg("module download failed")
		replies = append(replies, core.TransientReply(l.T("CommandFailed", nil)))
	default:
		replies = append(replies, core.Reply{
			Kind: core.ReplyDocument,
			Text: l.T("ModuleCaption", map[string]any{"ID": m.ID}),
			File: &core.File{Name: m.ID + ".zip", Data: data},
		})
	}
	return replies, nil
}

func (c *ModuleCommand) details(ctx context.Context, m catalog.Module, l *locales.Localizer) string {
	header := c.formatter.Combine(
		c.formatter.Title(m.ID),
		c.formatter.Label("Version", m.Version),
		c.formatter.Label("Author", m.Author),
	)
	return header + "\n\n" + c.summary(ctx, m, l)
}

// summary prefers the README's first paragraph, then the catalogue
// description rendered from Markdown.
func (c *ModuleCommand) summary(ctx context.Context, m catalog.Module, l *locales.Localizer) string {
	readme, err := c.catalog.Readme(ctx, m)
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("module", m.ID).Msg("readme unavailable")
	}
	if s := conv.Summary(readme, summaryMinRunes, summaryMaxRunes); s != "" {
		return html.EscapeString(s)
	}
	if desc := strings.TrimSpace(m.Description); desc != "" {
		return strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(desc)))
	}
	return l.T("ModuleNoReadme", nil)
}
