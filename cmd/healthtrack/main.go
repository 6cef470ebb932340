// Package main provides the healthtrack command: the REST API server plus
// offline tools for recommendations, meal estimates and food tables.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/health-tracker/internal/config"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "healthtrack",
		Short:         "Health tracker API server and nutrition tools",
		Long:          "healthtrack serves the meal, weight and goal tracking REST API and computes calorie targets and meal estimates from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newRecommendCmd(),
		newEstimateCmd(opts),
		newImportFoodsCmd(),
	)
	return root
}

// loadConfig reads the optional config file, overlays the environment and
// fills the rest from defaults.
func (o *rootOptions) loadConfig() (config.Config, error) {
	var fileCfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = *loaded
	}
	if err := fileCfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	cfg := fileCfg.MergeWithDefaults(config.Defaults())
	if o.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
