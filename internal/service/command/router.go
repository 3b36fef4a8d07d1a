package command

import (
	"context"
	"sort"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/pkg/log"
)

type Router struct {
	commands map[string]core.Command
	aliases  map[string]string
	loc      *locales.Bundle
}

func New(commands []core.Command, loc *locales.Bundle) *Router {
	r := &Router{
		commands: make(map[string]core.Command),
		aliases:  map[string]string{"help": "start"},
		loc:      loc,
	}

	for _, cmd := range commands {
		r.commands[cmd.Name()] = cmd
	}
	return r
}

// Execute runs a slash command. The bool is false when input is not a command.
func (r *Router) Execute(ctx context.Context, req core.Request, input string) ([]core.Reply, bool) {
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// "/gen@yuki_bot" in group chats
	name, _, _ = strings.Cut(name, "@")
	if alias, ok := r.aliases[name]; ok {
		name = alias
	}

	req.Args = parts[1:]
	req.Raw = strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	cmd, ok := r.commands[name]
	if !ok {
		return []core.Reply{core.TransientReply(
			r.loc.For(req.Lang).T("UnknownCommand", map[string]any{"Name": name}),
		)}, true
	}

	ctx = log.WithFields(ctx, map[string]any{"command": name})
	replies, err := cmd.Execute(ctx, req)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("command failed")
		return []core.Reply{core.TransientReply(r.loc.For(req.Lang).T("CommandFailed", nil))}, true
	}
	return replies, true
}

// Callback dispatches inline button data built with core.CallbackData.
func (r *Router) Callback(ctx context.Context, req core.Request, data string) ([]core.Reply, bool) {
	name, payload, ok := core.ParseCallback(data)
	if !ok {
		return nil, false
	}
	cmd, ok := r.commands[name]
	if !ok {
		return nil, false
	}
	handler, ok := cmd.(core.CallbackHandler)
	if !ok {
		return nil, false
	}

	ctx = log.WithFields(ctx, map[string]any{"callback": name})
	replies, err := handler.HandleCallback(ctx, req, payload)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("callback failed")
		return []core.Reply{core.TransientReply(r.loc.For(req.Lang).T("CommandFailed", nil))}, true
	}
	return replies, true
}

// ListCommands returns commands sorted by name.
func (r *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
