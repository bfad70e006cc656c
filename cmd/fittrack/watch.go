package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes to the data directory until interrupted",
	Long: `Print one line per created, modified or deleted file of the data directory.
The optional pattern filters paths with doublestar globs, e.g. "tracker/**".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := svc.Watch(ctx, pattern)
		if err != nil {
			return err
		}
		src := lifecycle.NewSource(changes)
		if err := src.Start(ctx); err != nil {
			return err
		}

		logger.Info("watching data directory", "path", cfg.DataDir, "pattern", pattern)
		for ev := range src.Events() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", time.Now().Format(time.TimeOnly), ev)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
