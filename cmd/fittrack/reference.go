package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "List the foods of the food dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReference(cmd, core.Nutrition)
	},
}

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the activities of the exercise dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReference(cmd, core.Exercise)
	},
}

func listReference(cmd *cobra.Command, kind core.Kind) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	food, exercise := svc.ReferenceTables()
	var table aggregate.RateTable = food
	if kind == core.Exercise {
		table = exercise
	}
	nt, ok := table.(interface{ Names() []string })
	if table == nil || !ok {
		return fmt.Errorf("%s: %w", kind, core.ErrNoReference)
	}
	for _, name := range nt.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(foodsCmd, activitiesCmd)
}
