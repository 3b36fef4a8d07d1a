package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yukibot/yuki/pkg/log"
	"github.com/yukibot/yuki/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Telegram bot",
	Long:  `Starts the Telegram transport and, when enabled, the health endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting yuki")

		a := newApp(ctx)
		services := append(a.services, a.telegram(ctx)...)
		services = append(services, a.health(ctx)...)

		srv.StartServices(ctx, stop, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("yuki has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
