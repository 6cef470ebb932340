// Package analysis turns meal text or a meal photo into a NutritionEstimate.
// External backends (an LLM, an image label detector) sit behind the same
// interfaces as the built-in heuristic, and FallbackAnalyzer degrades to the
// heuristic whenever a backend fails.
package analysis

import (
	"context"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// Source names the backend that produced a result.
type Source string

// Known sources.
const (
	SourceHeuristic   Source = "heuristic"
	SourceGemini      Source = "gemini"
	SourceImageLabels Source = "image_labels"
)

// Image is an uploaded meal photo. Format is the MIME subtype ("jpeg", "png").
type Image struct {
	Format string
	Data   []byte
}

// TextAnalyzer estimates nutrition from a meal description.
type TextAnalyzer interface {
	Source() Source
	AnalyzeText(ctx context.Context, text string) (nutrition.NutritionEstimate, error)
}

// ImageAnalyzer estimates nutrition from a meal photo.
type ImageAnalyzer interface {
	Source() Source
	AnalyzeImage(ctx context.Context, img Image) (nutrition.NutritionEstimate, error)
}

// Result is an estimate plus where it came from. Tier is set only when the
// heuristic produced the estimate.
type Result struct {
	Estimate nutrition.NutritionEstimate `json:"estimate"`
	Source   Source                      `json:"source"`
	Tier     string                      `json:"tier,omitempty"`
	Fallback bool                        `json:"fallback"`
}
