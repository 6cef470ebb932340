package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// ProfileRequest sets the caller's biometrics. Weight is in pounds and
// height in inches.
type ProfileRequest struct {
	CurrentWeight float64 `json:"current_weight" validate:"required,gt=0,lt=2000"`
	Height        float64 `json:"height" validate:"required,gt=0,lt=120"`
	Age           int     `json:"age" validate:"required,gt=0,lte=150"`
	Gender        string  `json:"gender" validate:"required,oneof=male female other prefer-not-to-say"`
	ActivityLevel string  `json:"activity_level" validate:"required,oneof=sedentary light moderate active very-active"`
}

// Normalize lower-cases and trims the enum fields.
func (r *ProfileRequest) Normalize() {
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.ActivityLevel = strings.ToLower(strings.TrimSpace(r.ActivityLevel))
}

// Validate validates the ProfileRequest using the validator.
func (r *ProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Biometrics converts the request for the recommender.
func (r *ProfileRequest) Biometrics() nutrition.BiometricInput {
	return nutrition.BiometricInput{
		CurrentWeight: r.CurrentWeight,
		Height:        r.Height,
		Age:           r.Age,
		Gender:        r.Gender,
		ActivityLevel: r.ActivityLevel,
	}
}

// MealRequest creates or replaces a meal. When Calories is nil the
// nutrition is estimated from Description and any macro fields are ignored.
type MealRequest struct {
	Description string     `json:"description" validate:"required,min=1,max=2000"`
	MealType    string     `json:"meal_type,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Calories    *int       `json:"calories,omitempty" validate:"omitempty,gte=0,lte=20000"`
	Protein     *int       `json:"protein,omitempty" validate:"omitempty,gte=0,lte=2000"`
	Carbs       *int       `json:"carbs,omitempty" validate:"omitempty,gte=0,lte=2000"`
	Fat         *int       `json:"fat,omitempty" validate:"omitempty,gte=0,lte=2000"`
	EatenAt     *time.Time `json:"eaten_at,omitempty"`
}

// Validate validates the MealRequest using the validator.
func (r *MealRequest) Validate() error {
	r.MealType = strings.ToLower(strings.TrimSpace(r.MealType))
	return validate.Struct(r)
}

// HasNutrition reports whether the caller supplied the calories.
func (r *MealRequest) HasNutrition() bool {
	return r.Calories != nil
}

// EstimateRequest asks for an estimate without saving a meal.
type EstimateRequest struct {
	Description string `json:"description" validate:"required,min=1,max=2000"`
}

// Validate validates the EstimateRequest using the validator.
func (r *EstimateRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		r.Description = ""
	}
	return validate.Struct(r)
}

// WeightRequest records a weigh-in in pounds.
type WeightRequest struct {
	Weight     float64    `json:"weight" validate:"required,gt=0,lt=2000"`
	Note       string     `json:"note,omitempty" validate:"max=500"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// Validate validates the WeightRequest using the validator.
func (r *WeightRequest) Validate() error {
	return validate.Struct(r)
}

// GoalRequest creates or replaces a goal. WeeklyWeightChange and the
// (GoalWeight, TargetDate) pair are alternative strategies.
type GoalRequest struct {
	GoalWeight         *float64   `json:"goal_weight,omitempty" validate:"omitempty,gt=0,lt=2000"`
	TargetDate         *time.Time `json:"target_date,omitempty"`
	WeeklyWeightChange *float64   `json:"weekly_weight_change,omitempty" validate:"omitempty,gte=-5,lte=5"`
	DailyCalories      *int       `json:"daily_calories,omitempty" validate:"omitempty,gte=800,lte=10000"`
	Active             *bool      `json:"active,omitempty"`
}

// Validate checks field ranges and that the strategies are not mixed.
func (r *GoalRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.WeeklyWeightChange != nil && (r.GoalWeight != nil || r.TargetDate != nil) {
		return fmt.Errorf("weekly_weight_change cannot be combined with goal_weight or target_date")
	}
	if r.TargetDate != nil && r.GoalWeight == nil {
		return fmt.Errorf("target_date requires goal_weight")
	}
	return nil
}

// IsActive defaults to true when Active is omitted.
func (r *GoalRequest) IsActive() bool {
	return r.Active == nil || *r.Active
}

// NutritionGoal converts the request for the recommender.
func (r *GoalRequest) NutritionGoal() *nutrition.GoalInput {
	return &nutrition.GoalInput{
		WeeklyWeightChange: r.WeeklyWeightChange,
		GoalWeight:         r.GoalWeight,
		TargetDate:         r.TargetDate,
	}
}

// PreviewRequest computes a recommendation without touching stored data.
type PreviewRequest struct {
	Profile ProfileRequest `json:"profile"`
	Goal    *GoalRequest   `json:"goal,omitempty"`
}

// Validate validates both parts of the preview.
func (r *PreviewRequest) Validate() error {
	r.Profile.Normalize()
	if err := r.Profile.Validate(); err != nil {
		return err
	}
	if r.Goal != nil {
		return r.Goal.Validate()
	}
	return nil
}
