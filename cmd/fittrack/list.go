package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/report"
	"github.com/aretw0/fittrack/pkg/core"
)

var (
	listJSON  bool
	listPlain bool
)

var listCmd = &cobra.Command{
	Use:   "list <nutrition|exercise>",
	Short: "List a log of --user in insertion order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := core.ParseKind(args[0])
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		user, err := login(ctx, svc)
		if err != nil {
			return err
		}

		entries, err := svc.Entries(ctx, user, kind)
		if err != nil {
			return err
		}
		if listJSON {
			return printJSON(cmd.OutOrStdout(), entries)
		}

		md, err := report.Entries(user, kind, entries)
		if err != nil {
			return err
		}
		return printMarkdown(cmd.OutOrStdout(), md, listPlain)
	},
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List the daily summaries of --user",
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

		days, err := svc.Days(ctx, user)
		if err != nil {
			return err
		}
		if listJSON {
			return printJSON(cmd.OutOrStdout(), days)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DATE\tIN\tOUT\tNET\tGOAL\t")
		for _, d := range days {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", d.Date, d.InCal, d.OutCal, d.Net(), d.Goal)
		}
		return w.Flush()
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMarkdown(w io.Writer, md string, plain bool) error {
	out, err := report.Render(md, report.DefaultWidth, plain)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func init() {
	for _, c := range []*cobra.Command{listCmd, daysCmd} {
		c.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
		rootCmd.AddCommand(c)
	}
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "Render without colors")
}
