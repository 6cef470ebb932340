// Package nutrition provides the calorie/macro recommender and the meal-text
// nutrition estimator. Both are pure and safe for concurrent use.
package nutrition

import "time"

// Gender values accepted in BiometricInput. Only male vs not-male changes the
// BMR constant and the calorie floor.
const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer-not-to-say"
)

// Activity levels accepted in BiometricInput.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very-active"
)

// BiometricInput holds the user measurements the recommender needs.
// Weight is in pounds and height in inches.
type BiometricInput struct {
	CurrentWeight float64 `json:"current_weight"`
	Height        float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
}

// GoalInput selects how the recommended calories deviate from maintenance.
// WeeklyWeightChange wins when both strategies are set.
type GoalInput struct {
	WeeklyWeightChange *float64   `json:"weekly_weight_change,omitempty"`
	GoalWeight         *float64   `json:"goal_weight,omitempty"`
	TargetDate         *time.Time `json:"target_date,omitempty"`
}

// Macronutrients is a gram split of a calorie target.
type Macronutrients struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

// RecommendationResult is the output of Recommender.Recommend.
type RecommendationResult struct {
	BMR                 float64        `json:"bmr"`
	MaintenanceCalories int            `json:"maintenance_calories"`
	RecommendedCalories int            `json:"recommended_calories"`
	Macronutrients      Macronutrients `json:"macronutrients"`
}

// FoodEntry is one row of the estimator's food table.
type FoodEntry struct {
	Keyword         string  `json:"keyword"`
	CaloriesPerUnit float64 `json:"calories"`
	ProteinPerUnit  float64 `json:"protein"`
	CarbsPerUnit    float64 `json:"carbs"`
	FatPerUnit      float64 `json:"fat"`
}

// MealTypeAverage is the fallback calorie figure for a meal-type keyword.
type MealTypeAverage struct {
	MealType string `json:"meal_type"`
	Calories int    `json:"calories"`
}

// NutritionEstimate is the output of Estimator.Estimate. Any analysis backend
// substituted for the estimator returns this same shape.
type NutritionEstimate struct {
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fat         int    `json:"fat"`
	Description string `json:"description"`
}
