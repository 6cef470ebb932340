package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/health-tracker/internal/llm"
	"github.com/jonathan/health-tracker/internal/nutrition"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
	images   []llm.Image
	tier     llm.ModelTier
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier, images ...llm.Image) (string, error) {
	f.prompt = prompt
	f.tier = tier
	f.images = images
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

type fakeDetector struct {
	labels []string
	err    error
}

func (f *fakeDetector) DetectLabels(context.Context, []byte) ([]string, error) {
	return f.labels, f.err
}

type fakeRekognition struct {
	input *rekognition.DetectLabelsInput
	out   *rekognition.DetectLabelsOutput
	err   error
}

func (f *fakeRekognition) DetectLabels(_ context.Context, params *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = params
	return f.out, f.err
}

func newHeuristic() *HeuristicAnalyzer {
	return NewHeuristicAnalyzer(nutrition.NewEstimator(nutrition.DefaultTable()))
}

func TestGeminiAnalyzer_AnalyzeText(t *testing.T) {
	client := &fakeClient{response: `{"calories": 512.6, "protein": 30.4, "carbs": 41, "fat": 21.5, "foods": ["salmon", "rice"]}`}
	a := NewGeminiAnalyzer(client, "")

	est, err := a.AnalyzeText(t.Context(), "grilled salmon with rice")
	require.NoError(t, err)

	assert.Equal(t, nutrition.NutritionEstimate{Calories: 513, Protein: 30, Carbs: 41, Fat: 22, Description: "grilled salmon with rice"}, est)
	assert.Equal(t, llm.TierLite, client.tier)
	assert.Contains(t, client.prompt, "grilled salmon with rice")
	assert.NotContains(t, client.prompt, "{{.")
	assert.Empty(t, client.images)
}

func TestGeminiAnalyzer_RejectsBadResponses(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"transport error", &fakeClient{err: errors.New("quota exceeded")}},
		{"missing field", &fakeClient{response: `{"calories": 500, "protein": 20, "carbs": 50}`}},
		{"negative value", &fakeClient{response: `{"calories": -1, "protein": 20, "carbs": 50, "fat": 10}`}},
		{"not json", &fakeClient{response: `I think about 500 calories`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeminiAnalyzer(tt.client, llm.TierStandard).AnalyzeText(t.Context(), "a sandwich")
			assert.Error(t, err)
		})
	}
}

func TestGeminiAnalyzer_EmptyInput(t *testing.T) {
	client := &fakeClient{}
	a := NewGeminiAnalyzer(client, "")

	_, err := a.AnalyzeText(t.Context(), "   ")
	assert.Error(t, err)
	_, err = a.AnalyzeImage(t.Context(), Image{Format: "jpeg"})
	assert.Error(t, err)
	assert.Empty(t, client.prompt, "no request should be sent")
}

func TestGeminiAnalyzer_AnalyzeImage(t *testing.T) {
	client := &fakeClient{response: `{"calories": 700, "protein": 25, "carbs": 80, "fat": 30, "foods": ["pizza"]}`}
	a := NewGeminiAnalyzer(client, "")

	est, err := a.AnalyzeImage(t.Context(), Image{Format: "png", Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	assert.Equal(t, 700, est.Calories)
	assert.Equal(t, "pizza", est.Description)
	require.Len(t, client.images, 1)
	assert.Equal(t, "png", client.images[0].Format)
}

func TestLabelAnalyzer(t *testing.T) {
	estimator := nutrition.NewEstimator(nutrition.DefaultTable())

	t.Run("food labels", func(t *testing.T) {
		a := NewLabelAnalyzer(&fakeDetector{labels: []string{"Food", "Apple", "Fruit"}}, estimator)
		est, err := a.AnalyzeImage(t.Context(), Image{Format: "jpeg", Data: []byte{0xff}})
		require.NoError(t, err)
		assert.Equal(t, 95, est.Calories)
		assert.Equal(t, 25, est.Carbs)
	})

	t.Run("no food labels", func(t *testing.T) {
		a := NewLabelAnalyzer(&fakeDetector{labels: []string{"Plate", "Table"}}, estimator)
		_, err := a.AnalyzeImage(t.Context(), Image{Format: "jpeg", Data: []byte{0xff}})
		assert.Error(t, err)
	})

	t.Run("detector error", func(t *testing.T) {
		a := NewLabelAnalyzer(&fakeDetector{err: errors.New("throttled")}, estimator)
		_, err := a.AnalyzeImage(t.Context(), Image{Format: "jpeg", Data: []byte{0xff}})
		assert.ErrorContains(t, err, "throttled")
	})
}

func TestRekognitionDetector(t *testing.T) {
	api := &fakeRekognition{out: &rekognition.DetectLabelsOutput{
		Labels: []types.Label{{Name: aws.String("Burger")}, {Name: aws.String("Fries")}},
	}}
	d := newRekognitionDetector(api)

	labels, err := d.DetectLabels(t.Context(), []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Burger", "Fries"}, labels)
	require.NotNil(t, api.input)
	assert.Equal(t, int32(5), aws.ToInt32(api.input.MaxLabels))
	assert.Equal(t, float32(75), aws.ToFloat32(api.input.MinConfidence))
	assert.Equal(t, []byte("img"), api.input.Image.Bytes)
}

func TestFallbackAnalyzer_Text(t *testing.T) {
	t.Run("heuristic only", func(t *testing.T) {
		f := NewFallbackAnalyzer(newHeuristic(), nil)
		res := f.AnalyzeText(t.Context(), "2 apples")
		assert.Equal(t, SourceHeuristic, res.Source)
		assert.Equal(t, "keywords", res.Tier)
		assert.Equal(t, 190, res.Estimate.Calories)
		assert.False(t, res.Fallback)
	})

	t.Run("backend success", func(t *testing.T) {
		client := &fakeClient{response: `{"calories": 410, "protein": 12, "carbs": 60, "fat": 9}`}
		f := NewFallbackAnalyzer(newHeuristic(), nil, WithTextBackend(NewGeminiAnalyzer(client, "")))
		res := f.AnalyzeText(t.Context(), "bowl of ramen")
		assert.Equal(t, SourceGemini, res.Source)
		assert.Empty(t, res.Tier)
		assert.Equal(t, 410, res.Estimate.Calories)
		assert.Equal(t, "bowl of ramen", res.Estimate.Description)
	})

	t.Run("backend failure logs and falls back", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		client := &fakeClient{err: errors.New("unavailable")}
		f := NewFallbackAnalyzer(newHeuristic(), zap.New(core), WithTextBackend(NewGeminiAnalyzer(client, "")))

		res := f.AnalyzeText(t.Context(), "just had lunch")
		assert.Equal(t, SourceHeuristic, res.Source)
		assert.True(t, res.Fallback)
		assert.Equal(t, "meal_type", res.Tier)
		assert.Equal(t, 600, res.Estimate.Calories)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestFallbackAnalyzer_Image(t *testing.T) {
	img := Image{Format: "jpeg", Data: []byte{0xff, 0xd8}}
	estimator := nutrition.NewEstimator(nutrition.DefaultTable())

	t.Run("no backend, no caption", func(t *testing.T) {
		f := NewFallbackAnalyzer(newHeuristic(), nil)
		assert.False(t, f.HasImageBackend())

		res := f.AnalyzeImage(t.Context(), img, "")
		assert.Equal(t, "default", res.Tier)
		assert.Equal(t, nutrition.DefaultEstimate.Calories, res.Estimate.Calories)
		assert.True(t, res.Fallback)
	})

	t.Run("backend success keeps caption", func(t *testing.T) {
		f := NewFallbackAnalyzer(newHeuristic(), nil,
			WithImageBackend(NewLabelAnalyzer(&fakeDetector{labels: []string{"Pizza"}}, estimator)))

		res := f.AnalyzeImage(t.Context(), img, "friday pizza")
		assert.Equal(t, SourceImageLabels, res.Source)
		assert.Equal(t, 285, res.Estimate.Calories)
		assert.Equal(t, "friday pizza", res.Estimate.Description)
	})

	t.Run("backend failure uses caption", func(t *testing.T) {
		f := NewFallbackAnalyzer(newHeuristic(), nil,
			WithImageBackend(NewLabelAnalyzer(&fakeDetector{err: errors.New("boom")}, estimator)))

		res := f.AnalyzeImage(t.Context(), img, "banana")
		assert.Equal(t, SourceHeuristic, res.Source)
		assert.Equal(t, 105, res.Estimate.Calories)
	})
}
