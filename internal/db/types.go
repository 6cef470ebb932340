package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// Meal sources.
const (
	SourceManual = "manual"
)

// User is an account. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the biometrics a recommendation is computed from.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	CurrentWeight float64   `json:"current_weight"`
	Height        float64   `json:"height"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	ActivityLevel string    `json:"activity_level"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Biometrics converts the profile for the recommender.
func (p *Profile) Biometrics() nutrition.BiometricInput {
	return nutrition.BiometricInput{
		CurrentWeight: p.CurrentWeight,
		Height:        p.Height,
		Age:           p.Age,
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
	}
}

// Meal is a logged meal with its nutrition totals.
type Meal struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	MealType    string    `json:"meal_type,omitempty"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	Protein     int       `json:"protein"`
	Carbs       int       `json:"carbs"`
	Fat         int       `json:"fat"`
	Source      string    `json:"source"`
	EatenAt     time.Time `json:"eaten_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// MealFilter bounds ListMeals. Zero times are unbounded; From is inclusive
// and To exclusive.
type MealFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// WeightEntry is one weigh-in.
type WeightEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Weight     float64   `json:"weight"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Goal is a weight goal. At most one goal per user is active.
type Goal struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	GoalWeight         *float64   `json:"goal_weight,omitempty"`
	TargetDate         *time.Time `json:"target_date,omitempty"`
	WeeklyWeightChange *float64   `json:"weekly_weight_change,omitempty"`
	DailyCalories      *int       `json:"daily_calories,omitempty"`
	Active             bool       `json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NutritionGoal converts the goal for the recommender.
func (g *Goal) NutritionGoal() *nutrition.GoalInput {
	if g == nil {
		return nil
	}
	return &nutrition.GoalInput{
		WeeklyWeightChange: g.WeeklyWeightChange,
		GoalWeight:         g.GoalWeight,
		TargetDate:         g.TargetDate,
	}
}
