package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/platform"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import the CSV logs of an older data directory",
	Long: `Append the entries of <dir>/<user>_nutrition.csv and <dir>/exercise_log.csv
to the logs of --user. Rows that cannot be parsed are skipped and counted.

Rows identical to an entry already in the log are not appended again, so the
import can be repeated safely, for instance after a failed write.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		user, err := login(ctx, svc)
		if err != nil {
			return err
		}

		res, err := platform.ImportLegacy(ctx, svc, user, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d nutrition and %d exercise entries (%d rows skipped, %d already present).\n",
			res.Nutrition, res.Exercise, res.Skipped, res.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
