package analysis

import (
	"context"

	"go.uber.org/zap"
)

// FallbackAnalyzer tries the configured backends first and answers from the
// heuristic when they are absent or fail. It never returns an error.
type FallbackAnalyzer struct {
	heuristic *HeuristicAnalyzer
	text      TextAnalyzer
	image     ImageAnalyzer
	logger    *zap.Logger
}

// Option configures a FallbackAnalyzer.
type Option func(*FallbackAnalyzer)

// WithTextBackend sets the primary text analyzer.
func WithTextBackend(a TextAnalyzer) Option {
	return func(f *FallbackAnalyzer) { f.text = a }
}

// WithImageBackend sets the image analyzer.
func WithImageBackend(a ImageAnalyzer) Option {
	return func(f *FallbackAnalyzer) { f.image = a }
}

// NewFallbackAnalyzer creates a FallbackAnalyzer around heuristic.
func NewFallbackAnalyzer(heuristic *HeuristicAnalyzer, logger *zap.Logger, opts ...Option) *FallbackAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &FallbackAnalyzer{heuristic: heuristic, logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HasImageBackend reports whether photos can be analyzed by a backend
// rather than only by the heuristic fallback.
func (f *FallbackAnalyzer) HasImageBackend() bool {
	return f.image != nil
}

// AnalyzeText estimates nutrition for a meal description.
func (f *FallbackAnalyzer) AnalyzeText(ctx context.Context, text string) Result {
	if f.text == nil {
		return f.heuristic.result(text, false)
	}

	est, err := f.text.AnalyzeText(ctx, text)
	if err != nil {
		f.logger.Warn("text analysis backend failed, using heuristic",
			zap.String("backend", string(f.text.Source())),
			zap.Error(err))
		return f.heuristic.result(text, true)
	}
	return Result{Estimate: est, Source: f.text.Source()}
}

// AnalyzeImage estimates nutrition for a meal photo. description is the
// user's optional caption; the heuristic runs on it when the image backend
// is missing or fails, which yields the default estimate for an empty
// caption.
func (f *FallbackAnalyzer) AnalyzeImage(ctx context.Context, img Image, description string) Result {
	if f.image == nil {
		return f.heuristic.result(description, true)
	}

	est, err := f.image.AnalyzeImage(ctx, img)
	if err != nil {
		f.logger.Warn("image analysis backend failed, using heuristic",
			zap.String("backend", string(f.image.Source())),
			zap.Int("image_bytes", len(img.Data)),
			zap.Error(err))
		return f.heuristic.result(description, true)
	}
	if description != "" {
		est.Description = description
	}
	return Result{Estimate: est, Source: f.image.Source()}
}
