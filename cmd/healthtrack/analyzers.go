package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/health-tracker/internal/analysis"
	"github.com/jonathan/health-tracker/internal/config"
	"github.com/jonathan/health-tracker/internal/foodtable"
	"github.com/jonathan/health-tracker/internal/llm"
	"github.com/jonathan/health-tracker/internal/nutrition"
)

// buildEstimator returns the keyword estimator over the default table,
// extended with the food table file when one is configured.
func buildEstimator(cfg config.Config, logger *zap.Logger) (*nutrition.Estimator, error) {
	table := nutrition.DefaultTable()
	if cfg.FoodTablePath != "" {
		extra, err := foodtable.LoadFile(cfg.FoodTablePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load food table: %w", err)
		}
		table = table.Extend(extra...)
		logger.Info("food table loaded",
			zap.String("path", cfg.FoodTablePath),
			zap.Int("entries", len(extra)))
	}
	return nutrition.NewEstimator(table), nil
}

// geminiConfig applies the configured model overrides to the default tiers.
func geminiConfig(cfg config.Config) *llm.Config {
	lc := llm.DefaultConfig()
	if cfg.GeminiTextModel != "" {
		lc = lc.WithModel(llm.TierLite, cfg.GeminiTextModel)
	}
	if cfg.GeminiImageModel != "" {
		lc = lc.WithModel(llm.TierStandard, cfg.GeminiImageModel)
	}
	return lc
}

// buildAnalyzer wires the configured text and image backends in front of
// the heuristic. The returned cleanup releases backend clients.
func buildAnalyzer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*analysis.FallbackAnalyzer, func(), error) {
	estimator, err := buildEstimator(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var opts []analysis.Option
	cleanup := func() {}

	var gemini *llm.GeminiClient
	if cfg.TextBackend == config.BackendGemini || cfg.ImageBackend == config.BackendGemini {
		lc := geminiConfig(cfg)
		gemini, err = llm.NewGeminiClient(ctx, lc, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		logger.Info("gemini models",
			zap.String("text", lc.GetModel(llm.TierLite)),
			zap.String("image", lc.GetModel(llm.TierStandard)))
		cleanup = func() { _ = gemini.Close() }
	}

	if cfg.TextBackend == config.BackendGemini {
		opts = append(opts, analysis.WithTextBackend(analysis.NewGeminiAnalyzer(gemini, llm.TierLite)))
	}

	switch cfg.ImageBackend {
	case config.BackendGemini:
		opts = append(opts, analysis.WithImageBackend(analysis.NewGeminiAnalyzer(gemini, llm.TierStandard)))
	case config.BackendRekognition:
		detector, err := analysis.NewRekognitionDetector(ctx, cfg.AWSRegion)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create Rekognition detector: %w", err)
		}
		opts = append(opts, analysis.WithImageBackend(analysis.NewLabelAnalyzer(detector, estimator)))
	}

	logger.Info("analysis backends configured",
		zap.String("text", cfg.TextBackend),
		zap.String("image", cfg.ImageBackend))

	heuristic := analysis.NewHeuristicAnalyzer(estimator)
	return analysis.NewFallbackAnalyzer(heuristic, logger, opts...), cleanup, nil
}
