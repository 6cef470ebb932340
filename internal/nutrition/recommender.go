package nutrition

import (
	"math"
	"strings"
	"time"
)

const (
	caloriesPerPound = 3500.0

	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0

	maleCalorieFloor  = 1500
	otherCalorieFloor = 1200
)

// RecommenderConfig holds the constants the recommender works from.
type RecommenderConfig struct {
	ActivityMultipliers map[string]float64
	MaleFloor           int
	OtherFloor          int
	ProteinShare        float64
	FatShare            float64
	CarbsShare          float64
}

// DefaultRecommenderConfig returns the standard multipliers, floors and a
// 30/25/45 protein/fat/carbs split.
func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		ActivityMultipliers: map[string]float64{
			ActivitySedentary:  1.2,
			ActivityLight:      1.375,
			ActivityModerate:   1.55,
			ActivityActive:     1.725,
			ActivityVeryActive: 1.9,
		},
		MaleFloor:    maleCalorieFloor,
		OtherFloor:   otherCalorieFloor,
		ProteinShare: 0.30,
		FatShare:     0.25,
		CarbsShare:   0.45,
	}
}

// Recommender computes BMR, maintenance and target calories with a macro split.
type Recommender struct {
	multipliers map[string]float64
	cfg         RecommenderConfig
}

// NewRecommender creates a Recommender. The multiplier map is copied.
func NewRecommender(cfg RecommenderConfig) *Recommender {
	multipliers := make(map[string]float64, len(cfg.ActivityMultipliers))
	for k, v := range cfg.ActivityMultipliers {
		multipliers[k] = v
	}
	return &Recommender{multipliers: multipliers, cfg: cfg}
}

// Recommend returns the calorie and macro recommendation for bio. goal may be
// nil, in which case the recommendation equals maintenance (subject to the
// floor). now is only read by the goal-weight/target-date strategy.
func (r *Recommender) Recommend(bio BiometricInput, goal *GoalInput, now time.Time) (*RecommendationResult, error) {
	if err := validateBiometrics(bio); err != nil {
		return nil, err
	}

	multiplier, ok := r.multipliers[normalizeKey(bio.ActivityLevel)]
	if !ok {
		return nil, &InvalidInputError{Field: "activity_level", Reason: "is not a known activity level: " + bio.ActivityLevel}
	}

	male := normalizeKey(bio.Gender) == GenderMale
	bmr := BMR(bio.CurrentWeight, bio.Height, bio.Age, male)
	maintenance := roundHalfUp(bmr * multiplier)

	recommended := maintenance
	if goal != nil {
		switch {
		case goal.WeeklyWeightChange != nil:
			recommended = maintenance + roundHalfUp(*goal.WeeklyWeightChange*caloriesPerPound/7)
		case goal.GoalWeight != nil && goal.TargetDate != nil:
			days := roundHalfUp(goal.TargetDate.Sub(now).Hours() / 24)
			if days < 1 {
				days = 1
			}
			totalDelta := (*goal.GoalWeight - bio.CurrentWeight) * caloriesPerPound
			recommended = maintenance + roundHalfUp(totalDelta/float64(days))
		}
	}

	floor := r.cfg.OtherFloor
	if male {
		floor = r.cfg.MaleFloor
	}
	if recommended < floor {
		recommended = floor
	}

	return &RecommendationResult{
		BMR:                 bmr,
		MaintenanceCalories: maintenance,
		RecommendedCalories: recommended,
		Macronutrients:      r.Macros(recommended),
	}, nil
}

// Macros splits a calorie target into protein, fat and carb grams.
func (r *Recommender) Macros(calories int) Macronutrients {
	cal := float64(calories)
	return Macronutrients{
		Protein: roundHalfUp(r.cfg.ProteinShare * cal / kcalPerGramProtein),
		Fat:     roundHalfUp(r.cfg.FatShare * cal / kcalPerGramFat),
		Carbs:   roundHalfUp(r.cfg.CarbsShare * cal / kcalPerGramCarbs),
	}
}

// BMR is the Mifflin-St Jeor equation applied to the values as given
// (pounds and inches, not kilograms and centimetres).
func BMR(weight, height float64, age int, male bool) float64 {
	base := 10*weight + 6.25*height - 5*float64(age)
	if male {
		return base + 5
	}
	return base - 161
}

func validateBiometrics(bio BiometricInput) error {
	if !isPositive(bio.CurrentWeight) {
		return &InvalidInputError{Field: "current_weight", Reason: "must be a positive number"}
	}
	if !isPositive(bio.Height) {
		return &InvalidInputError{Field: "height", Reason: "must be a positive number"}
	}
	if bio.Age <= 0 {
		return &InvalidInputError{Field: "age", Reason: "must be a positive integer"}
	}
	switch normalizeKey(bio.Gender) {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
	case "":
		return &InvalidInputError{Field: "gender", Reason: "is required"}
	default:
		return &InvalidInputError{Field: "gender", Reason: "is not a known gender: " + bio.Gender}
	}
	if normalizeKey(bio.ActivityLevel) == "" {
		return &InvalidInputError{Field: "activity_level", Reason: "is required"}
	}
	return nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2.
// Results saturate at +/-math.MaxInt32 and NaN rounds to 0.
func roundHalfUp(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= -math.MaxInt32:
		return -math.MaxInt32
	}
	return int(math.Floor(v + 0.5))
}
