package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yukibot/yuki/pkg/markup"
)

var (
	splitCeiling  int
	splitNumbered bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split Markdown from stdin into Telegram sized MarkdownV2 chunks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chunker, err := markup.NewChunker(markup.MarkdownV2(), splitCeiling, markup.WithNumbering(splitNumbered))
		if err != nil {
			return err
		}

		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		out := cmd.OutOrStdout()
		for i, chunk := range chunker.Split(string(in)) {
			if i > 0 {
				fmt.Fprintln(out, "\n---")
			}
			fmt.Fprint(out, chunk)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	splitCmd.Flags().IntVarP(&splitCeiling, "ceiling", "c", 2048, "maximum runes per chunk")
	splitCmd.Flags().BoolVarP(&splitNumbered, "numbered", "n", true, "prefix chunks with i/n")
	rootCmd.AddCommand(splitCmd)
}
