package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
)

var (
	logDate   string
	logWeight float64
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log food, exercise or a daily summary",
}

var logFoodCmd = &cobra.Command{
	Use:   "food <food> <grams>",
	Short: "Log a food; calories come from the food dataset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grams, err := parseNumber("grams", args[1])
		if err != nil {
			return err
		}
		return withUser(cmd, func(svc *core.Service, user string, day date.Date) error {
			e, err := svc.LogFood(commandContext(cmd), user, day, args[0], grams)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s g of %s on %s: %.2f kcal\n", args[1], e.Category, e.Date, e.Calories)
			return nil
		})
	},
}

var logExerciseCmd = &cobra.Command{
	Use:   "exercise <activity> <minutes>",
	Short: "Log an exercise session; calories come from the exercise dataset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := parseNumber("minutes", args[1])
		if err != nil {
			return err
		}
		return withUser(cmd, func(svc *core.Service, user string, day date.Date) error {
			e, err := svc.LogExercise(commandContext(cmd), user, day, args[0], minutes, logWeight)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s min of %s on %s: %.2f kcal burned\n", args[1], e.Category, e.Date, e.Calories)
			return nil
		})
	},
}

var logEntryCmd = &cobra.Command{
	Use:   "entry <nutrition|exercise> <category> <quantity> <calories>",
	Short: "Log an entry whose calories are already known",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := core.ParseKind(args[0])
		if err != nil {
			return err
		}
		quantity, err := parseNumber("quantity", args[2])
		if err != nil {
			return err
		}
		calories, err := parseNumber("calories", args[3])
		if err != nil {
			return err
		}
		return withUser(cmd, func(svc *core.Service, user string, day date.Date) error {
			e := core.Entry{Date: day, Category: args[1], Quantity: quantity, Calories: calories}
			if err := svc.AddEntry(commandContext(cmd), user, kind, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s entry %s\n", kind, args[1])
			return nil
		})
	},
}

var logDayCmd = &cobra.Command{
	Use:   "day <calories-in> <calories-out> <goal>",
	Short: "Record the daily summary, replacing an earlier one for the same date",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var values [3]int
		for i, name := range []string{"calories-in", "calories-out", "goal"} {
			v, err := strconv.Atoi(args[i])
			if err != nil {
				return &core.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a whole number", args[i])}
			}
			values[i] = v
		}
		return withUser(cmd, func(svc *core.Service, user string, day date.Date) error {
			sum := core.DailySummary{Date: day, InCal: values[0], OutCal: values[1], Goal: values[2]}
			if err := svc.RecordDay(commandContext(cmd), user, sum); err != nil {
				return err
			}
			if sum.Date.IsZero() {
				sum.Date = svc.Today()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: net %d kcal, goal %d kcal\n", sum.Date, sum.Net(), sum.Goal)
			return nil
		})
	},
}

func parseNumber(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &core.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

// withUser opens the service, logs in and resolves --date (empty means today).
func withUser(cmd *cobra.Command, fn func(svc *core.Service, user string, day date.Date) error) error {
	var day date.Date
	if logDate != "" {
		d, err := date.Parse(logDate)
		if err != nil {
			return err
		}
		day = d
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	user, err := login(commandContext(cmd), svc)
	if err != nil {
		return err
	}
	return fn(svc, user, day)
}

func init() {
	logCmd.PersistentFlags().StringVar(&logDate, "date", "", "Day of the record, YYYY-MM-DD (default: today)")
	logExerciseCmd.Flags().Float64Var(&logWeight, "weight", 70, "Body weight in kg")

	logCmd.AddCommand(logFoodCmd, logExerciseCmd, logEntryCmd, logDayCmd)
	rootCmd.AddCommand(logCmd)
}
