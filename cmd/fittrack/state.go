package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/platform"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the resolved configuration and the service state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"config":  cfg,
			"service": svc.State(),
		})
	},
}

var historyCount int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the last changes of a versioned data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		lines, err := platform.History(svc, historyCount)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "Number of changes")
	rootCmd.AddCommand(stateCmd, historyCmd)
}
