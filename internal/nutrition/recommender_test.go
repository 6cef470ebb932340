package nutrition

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)

func referenceMale() BiometricInput {
	return BiometricInput{
		CurrentWeight: 180,
		Height:        70,
		Age:           30,
		Gender:        GenderMale,
		ActivityLevel: ActivityModerate,
	}
}

func TestRecommend_Maintenance(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())

	result, err := r.Recommend(referenceMale(), nil, testNow)
	require.NoError(t, err)

	// 10*180 + 6.25*70 - 5*30 + 5
	assert.InDelta(t, 2092.5, result.BMR, 1e-9)
	// round(2092.5 * 1.55)
	assert.Equal(t, 3243, result.MaintenanceCalories)
	assert.Equal(t, 3243, result.RecommendedCalories)
}

func TestRecommend_WeeklyChange(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())

	result, err := r.Recommend(referenceMale(), &GoalInput{WeeklyWeightChange: floatPtr(-1.0)}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3243, result.MaintenanceCalories)
	assert.Equal(t, 3243-500, result.RecommendedCalories)
	assert.Equal(t, Macronutrients{Protein: 206, Fat: 76, Carbs: 309}, result.Macronutrients)
}

func TestRecommend_GoalWeightAndDate(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())

	t.Run("spreads delta over days", func(t *testing.T) {
		goal := &GoalInput{
			GoalWeight: floatPtr(170),
			TargetDate: timePtr(testNow.AddDate(0, 0, 70)),
		}
		result, err := r.Recommend(referenceMale(), goal, testNow)
		require.NoError(t, err)
		assert.Equal(t, 3243-500, result.RecommendedCalories)
	})

	t.Run("rounds partial days", func(t *testing.T) {
		goal := &GoalInput{
			GoalWeight: floatPtr(170),
			TargetDate: timePtr(testNow.Add(69*24*time.Hour + 15*time.Hour)),
		}
		result, err := r.Recommend(referenceMale(), goal, testNow)
		require.NoError(t, err)
		assert.Equal(t, 3243-500, result.RecommendedCalories)
	})

	t.Run("past target date counts as one day", func(t *testing.T) {
		goal := &GoalInput{
			GoalWeight: floatPtr(185),
			TargetDate: timePtr(testNow.AddDate(0, 0, -10)),
		}
		result, err := r.Recommend(referenceMale(), goal, testNow)
		require.NoError(t, err)
		assert.Equal(t, 3243+5*3500, result.RecommendedCalories)
	})

	t.Run("goal weight without date is maintenance", func(t *testing.T) {
		result, err := r.Recommend(referenceMale(), &GoalInput{GoalWeight: floatPtr(150)}, testNow)
		require.NoError(t, err)
		assert.Equal(t, result.MaintenanceCalories, result.RecommendedCalories)
	})

	t.Run("weekly change wins over date target", func(t *testing.T) {
		goal := &GoalInput{
			WeeklyWeightChange: floatPtr(0.5),
			GoalWeight:         floatPtr(150),
			TargetDate:         timePtr(testNow.AddDate(0, 0, 30)),
		}
		result, err := r.Recommend(referenceMale(), goal, testNow)
		require.NoError(t, err)
		assert.Equal(t, 3243+250, result.RecommendedCalories)
	})
}

func TestRecommend_Floor(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())

	tests := []struct {
		name     string
		bio      BiometricInput
		expected int
	}{
		{
			name:     "male floor",
			bio:      BiometricInput{CurrentWeight: 120, Height: 60, Age: 70, Gender: GenderMale, ActivityLevel: ActivitySedentary},
			expected: 1500,
		},
		{
			name:     "female floor",
			bio:      BiometricInput{CurrentWeight: 100, Height: 60, Age: 80, Gender: GenderFemale, ActivityLevel: ActivitySedentary},
			expected: 1200,
		},
		{
			name:     "prefer-not-to-say uses lower floor",
			bio:      BiometricInput{CurrentWeight: 100, Height: 60, Age: 80, Gender: GenderPreferNotToSay, ActivityLevel: ActivitySedentary},
			expected: 1200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Recommend(tt.bio, &GoalInput{WeeklyWeightChange: floatPtr(-2)}, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.RecommendedCalories)
			assert.Less(t, result.MaintenanceCalories-1000, tt.expected)
		})
	}
}

func TestRecommend_InvalidInput(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())

	tests := []struct {
		name  string
		edit  func(*BiometricInput)
		field string
	}{
		{name: "zero weight", edit: func(b *BiometricInput) { b.CurrentWeight = 0 }, field: "current_weight"},
		{name: "NaN weight", edit: func(b *BiometricInput) { b.CurrentWeight = math.NaN() }, field: "current_weight"},
		{name: "negative height", edit: func(b *BiometricInput) { b.Height = -1 }, field: "height"},
		{name: "zero age", edit: func(b *BiometricInput) { b.Age = 0 }, field: "age"},
		{name: "missing gender", edit: func(b *BiometricInput) { b.Gender = "" }, field: "gender"},
		{name: "unknown gender", edit: func(b *BiometricInput) { b.Gender = "robot" }, field: "gender"},
		{name: "missing activity", edit: func(b *BiometricInput) { b.ActivityLevel = " " }, field: "activity_level"},
		{name: "unknown activity", edit: func(b *BiometricInput) { b.ActivityLevel = "couch" }, field: "activity_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bio := referenceMale()
			tt.edit(&bio)

			result, err := r.Recommend(bio, nil, testNow)
			assert.Nil(t, result)
			require.Error(t, err)

			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestRecommend_NormalizesKeys(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())
	bio := referenceMale()
	bio.Gender = "Male"
	bio.ActivityLevel = " Very-Active "

	result, err := r.Recommend(bio, nil, testNow)
	require.NoError(t, err)
	// round(2092.5 * 1.9)
	assert.Equal(t, 3976, result.MaintenanceCalories)
}

func TestRecommend_Properties(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())
	genders := []string{GenderMale, GenderFemale, GenderOther}
	levels := []string{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
	changes := []float64{-2, -1, -0.5, 0, 0.5, 1}

	for _, g := range genders {
		for _, level := range levels {
			for _, weight := range []float64{95, 140, 210, 320} {
				for _, change := range changes {
					bio := BiometricInput{CurrentWeight: weight, Height: 64, Age: 45, Gender: g, ActivityLevel: level}
					result, err := r.Recommend(bio, &GoalInput{WeeklyWeightChange: floatPtr(change)}, testNow)
					require.NoError(t, err)

					floor := 1200
					if g == GenderMale {
						floor = 1500
					}
					assert.GreaterOrEqual(t, result.RecommendedCalories, floor)

					m := result.Macronutrients
					fromMacros := m.Protein*4 + m.Carbs*4 + m.Fat*9
					assert.InDelta(t, result.RecommendedCalories, fromMacros, 8.5)
				}
			}
		}
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	r := NewRecommender(DefaultRecommenderConfig())
	goal := &GoalInput{GoalWeight: floatPtr(160), TargetDate: timePtr(testNow.AddDate(0, 3, 0))}

	first, err := r.Recommend(referenceMale(), goal, testNow)
	require.NoError(t, err)
	second, err := r.Recommend(referenceMale(), goal, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewRecommender_CopiesMultipliers(t *testing.T) {
	cfg := DefaultRecommenderConfig()
	r := NewRecommender(cfg)
	cfg.ActivityMultipliers[ActivityModerate] = 3

	result, err := r.Recommend(referenceMale(), nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3243, result.MaintenanceCalories)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{2.5, 3},
		{-2.5, -2},
		{2.49, 2},
		{1e300, math.MaxInt32},
		{-1e300, -math.MaxInt32},
		{math.Inf(1), math.MaxInt32},
		{math.Inf(-1), -math.MaxInt32},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundHalfUp(tt.in), "input %v", tt.in)
	}
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 2092.5, BMR(180, 70, 30, true), 1e-9)
	assert.InDelta(t, 1926.5, BMR(180, 70, 30, false), 1e-9)
}

func TestInvalidInputError(t *testing.T) {
	err := &InvalidInputError{Field: "age", Reason: "must be a positive integer"}
	assert.Equal(t, "invalid input: age must be a positive integer", err.Error())
}
