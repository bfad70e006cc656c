package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fittrack",
	// Needs no data directory.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fittrack version %s\n", strings.TrimSpace(fittrack.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
