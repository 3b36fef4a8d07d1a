package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/service/assistant"
	"github.com/yukibot/yuki/pkg/conv"
	"github.com/yukibot/yuki/pkg/log"
)

type Assistant interface {
	Reply(ctx context.Context, userID int64, prompt core.Prompt) (assistant.Answer, error)
}

// ReadLine is a local console that talks to the assistant as the owner.
// Slash commands go through the same router as Telegram.
type ReadLine struct {
	cfg       *config.AppConfig
	assistant Assistant
	router    core.CmdRouter
	userID    int64
	rl        *readline.Instance
}

func NewReadLine(cfg *config.AppConfig, assistant Assistant, router core.CmdRouter, userID int64) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "yuki> ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		assistant: assistant,
		router:    router,
		userID:    userID,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console chat started. Type 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.handle(ctx, r.rl.Stdout(), line)
	}
}

func (r *ReadLine) handle(ctx context.Context, w io.Writer, line string) {
	req := core.Request{UserID: r.userID, ChatID: r.userID, Lang: r.cfg.Lang}
	req.Notify = func(reply core.Reply) { render(w, []core.Reply{reply}) }

	if replies, ok := r.router.Execute(ctx, req, line); ok {
		render(w, replies)
		return
	}

	answer, err := r.assistant.Reply(ctx, r.userID, core.Prompt{Text: line})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("assistant reply failed")
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if answer.Text != "" {
		fmt.Fprintln(w, answer.Text)
	}
	if answer.CallWaifu {
		fmt.Fprintln(w, "[waifu]")
	}
}

func render(w io.Writer, replies []core.Reply) {
	for _, reply := range replies {
		text := reply.Text
		if reply.Kind != core.ReplyText && reply.Kind != core.ReplyMarkdown {
			if plain, err := conv.HTMLToText(text); err == nil {
				text = plain
			}
		}
		if text != "" {
			fmt.Fprintln(w, text)
		}
		if reply.File != nil {
			fmt.Fprintf(w, "[file %s, %d bytes]\n", reply.File.Name, len(reply.File.Data))
		}
		for _, c := range reply.Choices {
			fmt.Fprintf(w, "  %s -> %s\n", c.Label, c.Data)
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
