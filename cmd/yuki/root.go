package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/service/ui"
	"github.com/yukibot/yuki/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:     "yuki",
	Short:   "Yuki, a Telegram companion bot",
	Long:    `Yuki chats through an LLM, generates images and fetches Android mods and media on request.`,
	Version: core.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

// loadEnv reads the runtime .env written by the installer. Real environment
// variables win over the file.
func loadEnv() {
	path := config.GetEnvPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", path, err)
	}
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()

	var hooks []zerolog.Hook
	flushSentry := func() {}
	if sc, err := config.NewSentryConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid sentry config: %v\n", err)
	} else {
		hook, flush, err := log.NewSentryHook(sc.DSN, sc.Environment, core.Version, isDebug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentry disabled: %v\n", err)
		} else if hook != nil {
			hooks = append(hooks, hook)
			flushSentry = flush
		}
	}

	ctx, flushLog := log.NewContextWithLogger(ctx, isDebug, hooks...)
	return ctx, func() {
		flushSentry()
		flushLog()
	}
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
