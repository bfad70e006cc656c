package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/sample"
)

var (
	sampleCount int
	sampleDays  int
	sampleSeed  uint64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Append random food and exercise entries to the logs of --user",
	Args:  cobra.NoArgs,
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

		opts := []sample.Option{sample.WithDays(sampleDays), sample.WithLogger(logger)}
		if cmd.Flags().Changed("seed") {
			opts = append(opts, sample.WithSeed(sampleSeed))
		}
		res, err := sample.New(svc, opts...).Generate(ctx, user, sampleCount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nutrition and %d exercise entries for %s.\n", res.Nutrition, res.Exercise, user)
		return nil
	},
}

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", sample.DefaultCount, "Entries per log")
	sampleCmd.Flags().IntVar(&sampleDays, "days", sample.DefaultDays, "Spread entries over the last N days")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Seed for reproducible runs")
	rootCmd.AddCommand(sampleCmd)
}
