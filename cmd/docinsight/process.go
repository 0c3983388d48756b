package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docinsight/internal/domain"
)

var processCmd = &cobra.Command{
	Use:   "process <key>",
	Short: "Process a single source object once and print where the analysis was stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}

		res, err := a.processor.Process(ctx, domain.ObjectInfo{Key: args[0]})
		if err != nil {
			return err
		}
		if res.DestinationKey == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "no content")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.DestinationKey)
		return nil
	},
}
