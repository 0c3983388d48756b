package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docinsight/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <in.md> <out.pdf>",
	Short: "Render a local markdown file to PDF with the configured layout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		markdown, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading markdown: %w", err)
		}

		out, err := render.New().Render(string(markdown), cfg.Render)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", args[0], err)
		}

		if err := os.WriteFile(args[1], out, 0o644); err != nil {
			return fmt.Errorf("writing pdf: %w", err)
		}
		zap.L().Info("rendered markdown", zap.String("out", args[1]), zap.Int("bytes", len(out)))
		return nil
	},
}
