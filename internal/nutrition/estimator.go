package nutrition

import (
	"math"
	"strconv"
	"strings"
)

// DefaultEstimate is returned when neither a food keyword nor a meal type is
// found in the text.
var DefaultEstimate = NutritionEstimate{Calories: 350, Protein: 15, Carbs: 35, Fat: 12}

// Meal-type fallback split of the average calories.
const (
	mealTypeProteinShare = 0.25
	mealTypeCarbsShare   = 0.50
	mealTypeFatShare     = 0.25
)

// MaxQuantity caps a parsed multiplier; larger numbers are read as this.
const MaxQuantity = 100.0

var quantityWords = map[string]float64{
	"half":    0.5,
	"a-half":  0.5,
	"quarter": 0.25,
	"double":  2,
	"two":     2,
	"triple":  3,
	"three":   3,
}

// Tier identifies which fallback level produced an estimate.
type Tier int

// Tiers in evaluation order.
const (
	// TierKeywords sums the matched food keywords.
	TierKeywords Tier = iota + 1
	// TierMealType uses the average for a meal type named in the text.
	TierMealType
	// TierDefault is the fixed DefaultEstimate.
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierKeywords:
		return "keywords"
	case TierMealType:
		return "meal_type"
	case TierDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Estimator produces a best-effort nutrition estimate from free meal text.
type Estimator struct {
	table Table
}

// NewEstimator creates an Estimator that owns table.
func NewEstimator(table Table) *Estimator {
	return &Estimator{table: table}
}

// Estimate returns the nutrition estimate for text. It never fails; empty
// text is the caller's to reject.
func (e *Estimator) Estimate(text string) NutritionEstimate {
	est, _ := e.EstimateWithTier(text)
	return est
}

// EstimateWithTier is Estimate plus the tier that produced the answer.
func (e *Estimator) EstimateWithTier(text string) (NutritionEstimate, Tier) {
	lower := strings.ToLower(text)

	if est, ok := e.sumKeywords(lower); ok {
		est.Description = text
		return est, TierKeywords
	}

	for _, m := range e.table.mealTypes {
		if strings.Contains(lower, m.MealType) {
			cal := float64(m.Calories)
			return NutritionEstimate{
				Calories:    m.Calories,
				Protein:     roundHalfUp(cal * mealTypeProteinShare / kcalPerGramProtein),
				Carbs:       roundHalfUp(cal * mealTypeCarbsShare / kcalPerGramCarbs),
				Fat:         roundHalfUp(cal * mealTypeFatShare / kcalPerGramFat),
				Description: text,
			}, TierMealType
		}
	}

	est := DefaultEstimate
	est.Description = text
	return est, TierDefault
}

// sumKeywords adds up every table entry whose keyword occurs in text. Each
// keyword counts once; overlapping keywords each contribute.
func (e *Estimator) sumKeywords(text string) (NutritionEstimate, bool) {
	tokens := strings.Fields(text)

	var calories, protein, carbs, fat float64
	matched := false
	for _, food := range e.table.foods {
		if food.Keyword == "" || !strings.Contains(text, food.Keyword) {
			continue
		}
		matched = true

		m := quantityBefore(tokens, food.Keyword)
		calories += food.CaloriesPerUnit * m
		protein += food.ProteinPerUnit * m
		carbs += food.CarbsPerUnit * m
		fat += food.FatPerUnit * m
	}
	if !matched {
		return NutritionEstimate{}, false
	}

	return NutritionEstimate{
		Calories: roundHalfUp(calories),
		Protein:  roundHalfUp(protein),
		Carbs:    roundHalfUp(carbs),
		Fat:      roundHalfUp(fat),
	}, true
}

// quantityBefore finds the first token containing keyword and reads the token
// before it as a multiplier. A multi-word keyword is located by its first
// word. Anything unrecognised counts as 1.
func quantityBefore(tokens []string, keyword string) float64 {
	needle := keyword
	if words := strings.Fields(keyword); len(words) > 1 {
		needle = words[0]
	}

	for i, tok := range tokens {
		if !strings.Contains(tok, needle) {
			continue
		}
		if i == 0 {
			return 1
		}
		return parseQuantity(tokens[i-1])
	}
	return 1
}

func parseQuantity(tok string) float64 {
	if v, ok := quantityWords[tok]; ok {
		return v
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 1
	}
	return math.Min(v, MaxQuantity)
}
