package main

import (
	"github.com/spf13/cobra"
	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/service/installer"
	"github.com/yukibot/yuki/pkg/log"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Configure Yuki and lay out the runtime directory",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation")

		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		logger.Info().Str("path", config.GetRuntimePath()).Msg("runtime directory initialized")
		logger.Info().Msg("installation complete, run 'yuki start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
