package analysis

import (
	"context"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// HeuristicAnalyzer is the keyword estimator exposed as a TextAnalyzer.
// It never returns an error.
type HeuristicAnalyzer struct {
	estimator *nutrition.Estimator
}

// NewHeuristicAnalyzer wraps estimator.
func NewHeuristicAnalyzer(estimator *nutrition.Estimator) *HeuristicAnalyzer {
	return &HeuristicAnalyzer{estimator: estimator}
}

// Source implements TextAnalyzer.
func (h *HeuristicAnalyzer) Source() Source { return SourceHeuristic }

// AnalyzeText implements TextAnalyzer.
func (h *HeuristicAnalyzer) AnalyzeText(_ context.Context, text string) (nutrition.NutritionEstimate, error) {
	return h.estimator.Estimate(text), nil
}

func (h *HeuristicAnalyzer) result(text string, fallback bool) Result {
	est, tier := h.estimator.EstimateWithTier(text)
	return Result{Estimate: est, Source: SourceHeuristic, Tier: tier.String(), Fallback: fallback}
}
