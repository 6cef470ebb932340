package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/health-tracker/internal/observability"
	"github.com/jonathan/health-tracker/internal/types"
)

func newEstimateCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "estimate <meal description>",
		Short: "Estimate calories and macros for a meal description",
		Example: `  healthtrack estimate "2 eggs and toast"
  TEXT_BACKEND=gemini healthtrack estimate --json "chicken caesar salad"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("meal description is empty")
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newCLILogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			analyzer, cleanup, err := buildAnalyzer(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			result := analyzer.AnalyzeText(cmd.Context(), text)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(types.EstimateResponse{
					NutritionEstimate: result.Estimate,
					Source:            string(result.Source),
					Tier:              result.Tier,
					Fallback:          result.Fallback,
				})
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintEstimate(result.Estimate, string(result.Source), result.Tier)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the estimate as JSON")
	return cmd
}
