package types

import (
	"time"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// EstimateResponse is the body of POST /meals/estimate and
// POST /meals/analyze-image.
type EstimateResponse struct {
	nutrition.NutritionEstimate
	Source   string `json:"source"`
	Tier     string `json:"tier,omitempty"`
	Fallback bool   `json:"fallback"`
	MealID   string `json:"meal_id,omitempty"`
}

// RecommendationResponse is a recommendation plus the inputs it used.
type RecommendationResponse struct {
	nutrition.RecommendationResult
	Biometrics nutrition.BiometricInput `json:"biometrics"`
	GoalID     string                   `json:"goal_id,omitempty"`
	ComputedAt time.Time                `json:"computed_at"`
}

// DailyTotals sums the nutrition of a set of meals.
type DailyTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Meals    int `json:"meals"`
}

// DashboardResponse compares a day's intake with the target.
type DashboardResponse struct {
	Date              string                    `json:"date"`
	Consumed          DailyTotals               `json:"consumed"`
	TargetCalories    *int                      `json:"target_calories,omitempty"`
	TargetMacros      *nutrition.Macronutrients `json:"target_macros,omitempty"`
	RemainingCalories *int                      `json:"remaining_calories,omitempty"`
	LatestWeight      *float64                  `json:"latest_weight,omitempty"`
	Hint              string                    `json:"hint,omitempty"`
}
