package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/report"
)

var (
	summaryDays     int
	summaryPlain    bool
	summaryJSON     bool
	summaryMarkdown bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the last days of --user",
	Long: `Print totals and averages of calories eaten and burned, the calories per
day, the top foods and activities and the daily summaries of the window.`,
	Args: cobra.NoArgs,
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

		o, err := svc.Overview(ctx, user, summaryDays)
		if err != nil {
			return err
		}
		if summaryJSON {
			return printJSON(cmd.OutOrStdout(), o)
		}

		md, err := report.Overview(o)
		if err != nil {
			return err
		}
		if summaryMarkdown {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		return printMarkdown(cmd.OutOrStdout(), md, summaryPlain)
	},
}

func init() {
	summaryCmd.Flags().IntVarP(&summaryDays, "days", "n", 7, "Length of the window in days")
	summaryCmd.Flags().BoolVar(&summaryPlain, "plain", false, "Render without colors")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Output as JSON")
	summaryCmd.Flags().BoolVar(&summaryMarkdown, "markdown", false, "Output the raw Markdown")
	rootCmd.AddCommand(summaryCmd)
}
