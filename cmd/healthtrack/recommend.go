package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/observability"
)

type recommendOptions struct {
	weight       float64
	height       float64
	age          int
	gender       string
	activity     string
	weeklyChange float64
	goalWeight   float64
	targetDate   string
	jsonOutput   bool
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute daily calorie and macro targets",
		Long: `Compute BMR, maintenance and recommended calories with a protein/fat/carbs split.
Weight is in pounds and height in inches. Pass --weekly-change, or --goal-weight
together with --target-date, to aim for a weight change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts, time.Now())
		},
	}
	cmd.Flags().Float64Var(&opts.weight, "weight", 0, "Current weight in pounds (required)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "Height in inches (required)")
	cmd.Flags().IntVar(&opts.age, "age", 0, "Age in years (required)")
	cmd.Flags().StringVar(&opts.gender, "gender", "", "male, female, other or prefer-not-to-say (required)")
	cmd.Flags().StringVar(&opts.activity, "activity", nutrition.ActivityModerate, "sedentary, light, moderate, active or very-active")
	cmd.Flags().Float64Var(&opts.weeklyChange, "weekly-change", 0, "Target weight change in pounds per week (negative to lose)")
	cmd.Flags().Float64Var(&opts.goalWeight, "goal-weight", 0, "Goal weight in pounds")
	cmd.Flags().StringVar(&opts.targetDate, "target-date", "", "Date to reach --goal-weight by (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func (o *recommendOptions) goal(cmd *cobra.Command) (*nutrition.GoalInput, error) {
	weekly := cmd.Flags().Changed("weekly-change")
	byDate := cmd.Flags().Changed("goal-weight") || o.targetDate != ""

	switch {
	case weekly && byDate:
		return nil, fmt.Errorf("--weekly-change cannot be combined with --goal-weight/--target-date")
	case weekly:
		change := o.weeklyChange
		return &nutrition.GoalInput{WeeklyWeightChange: &change}, nil
	case byDate:
		if o.goalWeight <= 0 || o.targetDate == "" {
			return nil, fmt.Errorf("--goal-weight and --target-date must be given together")
		}
		date, err := time.Parse("2006-01-02", o.targetDate)
		if err != nil {
			return nil, fmt.Errorf("invalid --target-date: %w", err)
		}
		weight := o.goalWeight
		return &nutrition.GoalInput{GoalWeight: &weight, TargetDate: &date}, nil
	}
	return nil, nil
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions, now time.Time) error {
	goal, err := opts.goal(cmd)
	if err != nil {
		return err
	}
	bio := nutrition.BiometricInput{
		CurrentWeight: opts.weight,
		Height:        opts.height,
		Age:           opts.age,
		Gender:        opts.gender,
		ActivityLevel: opts.activity,
	}

	recommender := nutrition.NewRecommender(nutrition.DefaultRecommenderConfig())
	result, err := recommender.Recommend(bio, goal, now)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecommendation(bio, goal, result)
	return nil
}
