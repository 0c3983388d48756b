package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docinsight/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "docinsight",
	Short: "Watches a bucket prefix and writes a PDF analysis for every new document",
	Long: "Polls the source prefix of an object store, rasterizes and OCRs every new PDF, " +
		"summarizes the text with a language model and stores the rendered report under the destination prefix.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // a missing .env is fine

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd, processCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
