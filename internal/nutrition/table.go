package nutrition

import "strings"

// Table is the immutable reference data behind the estimator: the food
// keyword list (matched in declaration order) and the meal-type averages.
type Table struct {
	foods     []FoodEntry
	mealTypes []MealTypeAverage
}

// NewTable builds a Table from the given entries. Keywords are lower-cased;
// the slices are copied so later edits by the caller have no effect.
func NewTable(foods []FoodEntry, mealTypes []MealTypeAverage) Table {
	t := Table{
		foods:     make([]FoodEntry, len(foods)),
		mealTypes: make([]MealTypeAverage, len(mealTypes)),
	}
	for i, f := range foods {
		f.Keyword = strings.ToLower(strings.TrimSpace(f.Keyword))
		t.foods[i] = f
	}
	for i, m := range mealTypes {
		m.MealType = strings.ToLower(strings.TrimSpace(m.MealType))
		t.mealTypes[i] = m
	}
	return t
}

// DefaultTable returns the built-in food table and meal-type averages.
func DefaultTable() Table {
	return NewTable(defaultFoods, defaultMealTypes)
}

// Extend returns a new Table with extra food entries appended after the
// existing ones. The receiver is left untouched.
func (t Table) Extend(extra ...FoodEntry) Table {
	foods := make([]FoodEntry, 0, len(t.foods)+len(extra))
	foods = append(foods, t.foods...)
	foods = append(foods, extra...)
	return NewTable(foods, t.mealTypes)
}

// Foods returns a copy of the food entries in match order.
func (t Table) Foods() []FoodEntry {
	out := make([]FoodEntry, len(t.foods))
	copy(out, t.foods)
	return out
}

// MealTypes returns a copy of the meal-type averages in match order.
func (t Table) MealTypes() []MealTypeAverage {
	out := make([]MealTypeAverage, len(t.mealTypes))
	copy(out, t.mealTypes)
	return out
}

// Per-unit values are for one typical serving. Both "chicken breast" and
// "chicken" are listed; a text naming chicken breast matches both.
var defaultFoods = []FoodEntry{
	{Keyword: "apple", CaloriesPerUnit: 95, ProteinPerUnit: 0.5, CarbsPerUnit: 25, FatPerUnit: 0.3},
	{Keyword: "banana", CaloriesPerUnit: 105, ProteinPerUnit: 1.3, CarbsPerUnit: 27, FatPerUnit: 0.4},
	{Keyword: "orange", CaloriesPerUnit: 62, ProteinPerUnit: 1.2, CarbsPerUnit: 15, FatPerUnit: 0.2},
	{Keyword: "egg", CaloriesPerUnit: 78, ProteinPerUnit: 6, CarbsPerUnit: 0.6, FatPerUnit: 5},
	{Keyword: "toast", CaloriesPerUnit: 75, ProteinPerUnit: 2.6, CarbsPerUnit: 14, FatPerUnit: 1},
	{Keyword: "bread", CaloriesPerUnit: 80, ProteinPerUnit: 3, CarbsPerUnit: 15, FatPerUnit: 1},
	{Keyword: "oatmeal", CaloriesPerUnit: 150, ProteinPerUnit: 5, CarbsPerUnit: 27, FatPerUnit: 3},
	{Keyword: "cereal", CaloriesPerUnit: 120, ProteinPerUnit: 2, CarbsPerUnit: 25, FatPerUnit: 1.5},
	{Keyword: "yogurt", CaloriesPerUnit: 100, ProteinPerUnit: 10, CarbsPerUnit: 12, FatPerUnit: 2},
	{Keyword: "milk", CaloriesPerUnit: 103, ProteinPerUnit: 8, CarbsPerUnit: 12, FatPerUnit: 2.4},
	{Keyword: "cheese", CaloriesPerUnit: 113, ProteinPerUnit: 7, CarbsPerUnit: 0.4, FatPerUnit: 9},
	{Keyword: "chicken breast", CaloriesPerUnit: 165, ProteinPerUnit: 31, CarbsPerUnit: 0, FatPerUnit: 3.6},
	{Keyword: "chicken", CaloriesPerUnit: 239, ProteinPerUnit: 27, CarbsPerUnit: 0, FatPerUnit: 14},
	{Keyword: "beef", CaloriesPerUnit: 250, ProteinPerUnit: 26, CarbsPerUnit: 0, FatPerUnit: 15},
	{Keyword: "steak", CaloriesPerUnit: 271, ProteinPerUnit: 25, CarbsPerUnit: 0, FatPerUnit: 19},
	{Keyword: "salmon", CaloriesPerUnit: 208, ProteinPerUnit: 20, CarbsPerUnit: 0, FatPerUnit: 13},
	{Keyword: "tuna", CaloriesPerUnit: 132, ProteinPerUnit: 28, CarbsPerUnit: 0, FatPerUnit: 1},
	{Keyword: "shrimp", CaloriesPerUnit: 84, ProteinPerUnit: 18, CarbsPerUnit: 0.2, FatPerUnit: 0.9},
	{Keyword: "pork", CaloriesPerUnit: 242, ProteinPerUnit: 27, CarbsPerUnit: 0, FatPerUnit: 14},
	{Keyword: "bacon", CaloriesPerUnit: 43, ProteinPerUnit: 3, CarbsPerUnit: 0.1, FatPerUnit: 3.3},
	{Keyword: "turkey", CaloriesPerUnit: 135, ProteinPerUnit: 30, CarbsPerUnit: 0, FatPerUnit: 1},
	{Keyword: "tofu", CaloriesPerUnit: 94, ProteinPerUnit: 10, CarbsPerUnit: 2.3, FatPerUnit: 6},
	{Keyword: "rice", CaloriesPerUnit: 206, ProteinPerUnit: 4.3, CarbsPerUnit: 45, FatPerUnit: 0.4},
	{Keyword: "pasta", CaloriesPerUnit: 221, ProteinPerUnit: 8, CarbsPerUnit: 43, FatPerUnit: 1.3},
	{Keyword: "potato", CaloriesPerUnit: 161, ProteinPerUnit: 4.3, CarbsPerUnit: 37, FatPerUnit: 0.2},
	{Keyword: "fries", CaloriesPerUnit: 365, ProteinPerUnit: 4, CarbsPerUnit: 48, FatPerUnit: 17},
	{Keyword: "salad", CaloriesPerUnit: 100, ProteinPerUnit: 2, CarbsPerUnit: 10, FatPerUnit: 6},
	{Keyword: "broccoli", CaloriesPerUnit: 55, ProteinPerUnit: 3.7, CarbsPerUnit: 11, FatPerUnit: 0.6},
	{Keyword: "avocado", CaloriesPerUnit: 240, ProteinPerUnit: 3, CarbsPerUnit: 13, FatPerUnit: 22},
	{Keyword: "pizza", CaloriesPerUnit: 285, ProteinPerUnit: 12, CarbsPerUnit: 36, FatPerUnit: 10},
	{Keyword: "burger", CaloriesPerUnit: 354, ProteinPerUnit: 20, CarbsPerUnit: 29, FatPerUnit: 17},
	{Keyword: "sandwich", CaloriesPerUnit: 300, ProteinPerUnit: 15, CarbsPerUnit: 35, FatPerUnit: 10},
	{Keyword: "soup", CaloriesPerUnit: 150, ProteinPerUnit: 6, CarbsPerUnit: 18, FatPerUnit: 5},
	{Keyword: "almonds", CaloriesPerUnit: 164, ProteinPerUnit: 6, CarbsPerUnit: 6, FatPerUnit: 14},
	{Keyword: "peanut butter", CaloriesPerUnit: 188, ProteinPerUnit: 8, CarbsPerUnit: 6, FatPerUnit: 16},
	{Keyword: "protein shake", CaloriesPerUnit: 160, ProteinPerUnit: 25, CarbsPerUnit: 8, FatPerUnit: 3},
	{Keyword: "smoothie", CaloriesPerUnit: 200, ProteinPerUnit: 4, CarbsPerUnit: 40, FatPerUnit: 2},
	{Keyword: "coffee", CaloriesPerUnit: 5, ProteinPerUnit: 0.3, CarbsPerUnit: 0, FatPerUnit: 0},
	{Keyword: "juice", CaloriesPerUnit: 110, ProteinPerUnit: 1.7, CarbsPerUnit: 26, FatPerUnit: 0.5},
	{Keyword: "cookie", CaloriesPerUnit: 160, ProteinPerUnit: 2, CarbsPerUnit: 22, FatPerUnit: 8},
}

var defaultMealTypes = []MealTypeAverage{
	{MealType: "breakfast", Calories: 400},
	{MealType: "lunch", Calories: 600},
	{MealType: "dinner", Calories: 700},
	{MealType: "snack", Calories: 200},
}
