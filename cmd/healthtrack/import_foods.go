package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/health-tracker/internal/foodtable"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/observability"
)

type importFoodsOptions struct {
	url      string
	htmlPath string
	outPath  string
	show     int
}

func newImportFoodsCmd() *cobra.Command {
	opts := &importFoodsOptions{}
	cmd := &cobra.Command{
		Use:   "import-foods",
		Short: "Convert an HTML nutrition table into a food table file",
		Long: `Read a nutrition table from a web page (--url) or a saved HTML file (--html)
and write it as a JSON food table that FOOD_TABLE_PATH can point at. Rows need
name, calories, protein, carbs and fat columns in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := foodtable.SaveFile(opts.outPath, entries); err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintFoodTable(entries, opts.show)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(entries), opts.outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "", "URL of a page with a nutrition table")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "Path to a saved HTML page")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Path to the output JSON file (required)")
	cmd.Flags().IntVar(&opts.show, "show", 10, "Number of entries to print")
	_ = cmd.MarkFlagRequired("out")
	cmd.MarkFlagsMutuallyExclusive("url", "html")
	cmd.MarkFlagsOneRequired("url", "html")
	return cmd
}

func (o *importFoodsOptions) load(ctx context.Context) ([]nutrition.FoodEntry, error) {
	if o.url != "" {
		return foodtable.Fetch(ctx, o.url, nil)
	}
	f, err := os.Open(o.htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer f.Close()
	return foodtable.ParseHTML(f)
}
