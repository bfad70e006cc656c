package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/pkg/aggregate"
)

var (
	calcSex      string
	calcWeight   float64
	calcHeight   float64
	calcAge      int
	calcActivity string
	calcJSON     bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Estimate BMR, TDEE and daily calorie targets",
	Long: `Estimate the basal metabolic rate (Harris-Benedict), the total daily energy
expenditure for an activity level, and intake targets to lose, keep or gain weight.

Activity levels: sedentary, light, moderate, very, extreme.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sex, err := aggregate.ParseSex(calcSex)
		if err != nil {
			return err
		}
		level, err := aggregate.ParseActivityLevel(calcActivity)
		if err != nil {
			return err
		}
		if calcWeight <= 0 || calcHeight <= 0 || calcAge <= 0 {
			return fmt.Errorf("--weight, --height and --age must be positive")
		}
		if err := aggregate.CheckAmount("weight", calcWeight, aggregate.MaxAmount); err != nil {
			return err
		}
		if err := aggregate.CheckAmount("height", calcHeight, aggregate.MaxAmount); err != nil {
			return err
		}

		bmr := aggregate.BMR(sex, calcWeight, calcHeight, calcAge)
		tdee, err := aggregate.TDEE(bmr, level)
		if err != nil {
			return err
		}
		targets := aggregate.TargetsFor(tdee)

		if calcJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"bmr":     aggregate.Round2(bmr),
				"tdee":    aggregate.Round2(tdee),
				"targets": targets,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "BMR:      %8.0f kcal/day\n", bmr)
		fmt.Fprintf(out, "TDEE:     %8.0f kcal/day (%s)\n", tdee, level)
		fmt.Fprintf(out, "Lose:     %8.0f kcal/day\n", targets.Lose)
		fmt.Fprintf(out, "Maintain: %8.0f kcal/day\n", targets.Maintain)
		fmt.Fprintf(out, "Gain:     %8.0f kcal/day\n", targets.Gain)
		return nil
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcSex, "sex", "male", "male or female")
	calcCmd.Flags().Float64Var(&calcWeight, "weight", 0, "Body weight in kg")
	calcCmd.Flags().Float64Var(&calcHeight, "height", 0, "Height in cm")
	calcCmd.Flags().IntVar(&calcAge, "age", 0, "Age in years")
	calcCmd.Flags().StringVar(&calcActivity, "activity", string(aggregate.Sedentary), "Activity level")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "Output as JSON")
	_ = calcCmd.MarkFlagRequired("weight")
	_ = calcCmd.MarkFlagRequired("height")
	_ = calcCmd.MarkFlagRequired("age")
	rootCmd.AddCommand(calcCmd)
}
