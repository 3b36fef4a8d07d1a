package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/yukibot/yuki/internal/transport/cli"
	"github.com/yukibot/yuki/pkg/log"
	"github.com/yukibot/yuki/pkg/srv"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Yuki in the terminal",
	Long:  `Opens a console session as the owner. Slash commands work the same as in Telegram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		console, err := cli.NewReadLine(a.cfg, a.assistant, a.router, a.ownerID)
		if err != nil {
			log.FromCtx(ctx).Fatal().Err(err).Msg("failed to open console")
		}

		srv.StartServices(ctx, stop, a.services)

		// the console owns the terminal, so leaving it ends the session
		err = console.Start(ctx)
		stop()
		srv.ShutdownServices(ctx, append(a.services, console))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
