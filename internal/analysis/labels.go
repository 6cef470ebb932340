package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// LabelDetector returns the names of objects recognized in an image.
type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte) ([]string, error)
}

// LabelAnalyzer runs a LabelDetector over a photo and estimates the
// recognized foods with the keyword table.
type LabelAnalyzer struct {
	detector  LabelDetector
	estimator *nutrition.Estimator
}

// NewLabelAnalyzer creates a LabelAnalyzer.
func NewLabelAnalyzer(detector LabelDetector, estimator *nutrition.Estimator) *LabelAnalyzer {
	return &LabelAnalyzer{detector: detector, estimator: estimator}
}

// Source implements ImageAnalyzer.
func (l *LabelAnalyzer) Source() Source { return SourceImageLabels }

// AnalyzeImage implements ImageAnalyzer. It fails when none of the labels
// matches a food keyword, so callers can fall back.
func (l *LabelAnalyzer) AnalyzeImage(ctx context.Context, img Image) (nutrition.NutritionEstimate, error) {
	if len(img.Data) == 0 {
		return nutrition.NutritionEstimate{}, fmt.Errorf("image is empty")
	}

	labels, err := l.detector.DetectLabels(ctx, img.Data)
	if err != nil {
		return nutrition.NutritionEstimate{}, fmt.Errorf("label detection failed: %w", err)
	}

	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if name := strings.ToLower(strings.TrimSpace(label)); name != "" {
			names = append(names, name)
		}
	}

	est, tier := l.estimator.EstimateWithTier(strings.Join(names, ", "))
	if tier != nutrition.TierKeywords {
		return nutrition.NutritionEstimate{}, fmt.Errorf("no food recognized in labels %v", names)
	}
	return est, nil
}

type rekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector is a LabelDetector on AWS Rekognition.
type RekognitionDetector struct {
	client        rekognitionAPI
	maxLabels     int32
	minConfidence float32
}

// NewRekognitionDetector loads the default AWS credential chain for region.
func NewRekognitionDetector(ctx context.Context, region string) (*RekognitionDetector, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newRekognitionDetector(rekognition.NewFromConfig(cfg)), nil
}

func newRekognitionDetector(client rekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{client: client, maxLabels: 5, minConfidence: 75}
}

// DetectLabels implements LabelDetector.
func (r *RekognitionDetector) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(out.Labels))
	for _, label := range out.Labels {
		labels = append(labels, aws.ToString(label.Name))
	}
	return labels, nil
}
