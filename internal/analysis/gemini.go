package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/health-tracker/internal/llm"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/prompts"
	"github.com/jonathan/health-tracker/internal/schemas"
)

// GeminiAnalyzer asks an LLM for a nutrition breakdown and validates the
// answer against the nutrition estimate schema before trusting it.
type GeminiAnalyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewGeminiAnalyzer creates an analyzer on client. The lite tier is used
// unless tier is set.
func NewGeminiAnalyzer(client llm.Client, tier llm.ModelTier) *GeminiAnalyzer {
	if tier == "" {
		tier = llm.TierLite
	}
	return &GeminiAnalyzer{client: client, tier: tier}
}

// Source implements TextAnalyzer and ImageAnalyzer.
func (g *GeminiAnalyzer) Source() Source { return SourceGemini }

// AnalyzeText implements TextAnalyzer.
func (g *GeminiAnalyzer) AnalyzeText(ctx context.Context, text string) (nutrition.NutritionEstimate, error) {
	if strings.TrimSpace(text) == "" {
		return nutrition.NutritionEstimate{}, fmt.Errorf("meal description is empty")
	}
	est, err := g.generate(ctx, buildTextPrompt(text))
	if err != nil {
		return nutrition.NutritionEstimate{}, err
	}
	est.Description = text
	return est, nil
}

// AnalyzeImage implements ImageAnalyzer.
func (g *GeminiAnalyzer) AnalyzeImage(ctx context.Context, img Image) (nutrition.NutritionEstimate, error) {
	if len(img.Data) == 0 {
		return nutrition.NutritionEstimate{}, fmt.Errorf("image is empty")
	}
	return g.generate(ctx, buildImagePrompt(), llm.Image{Format: img.Format, Data: img.Data})
}

type geminiEstimate struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Foods    []string `json:"foods"`
}

func (g *GeminiAnalyzer) generate(ctx context.Context, prompt string, images ...llm.Image) (nutrition.NutritionEstimate, error) {
	raw, err := g.client.GenerateJSON(ctx, prompt, g.tier, images...)
	if err != nil {
		return nutrition.NutritionEstimate{}, fmt.Errorf("gemini request failed: %w", err)
	}
	if err := schemas.Validate(schemas.NutritionEstimate, []byte(raw)); err != nil {
		return nutrition.NutritionEstimate{}, fmt.Errorf("gemini response rejected: %w", err)
	}

	var parsed geminiEstimate
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nutrition.NutritionEstimate{}, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	return nutrition.NutritionEstimate{
		Calories:    int(math.Round(parsed.Calories)),
		Protein:     int(math.Round(parsed.Protein)),
		Carbs:       int(math.Round(parsed.Carbs)),
		Fat:         int(math.Round(parsed.Fat)),
		Description: strings.Join(parsed.Foods, ", "),
	}, nil
}

func responseFormat() string {
	return prompts.MustGet(prompts.MealAnalysis, "response-format")
}

func buildImagePrompt() string {
	return prompts.Format(prompts.MustGet(prompts.MealAnalysis, "image"), map[string]string{
		"ResponseFormat": responseFormat(),
	})
}

func buildTextPrompt(text string) string {
	return prompts.Format(prompts.MustGet(prompts.MealAnalysis, "text"), map[string]string{
		"Meal":           strings.TrimSpace(text),
		"ResponseFormat": responseFormat(),
	})
}
