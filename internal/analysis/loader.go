package analysis

import (
	"context"
	"log/slog"
	"time"

	"eunoia/internal/config"
)

// LoadRegistry builds the model registry for the configured backend.
// Load failures are logged and leave the affected pipeline empty so the
// analyzers fall back to lexical rules.
func LoadRegistry(ctx context.Context, cfg config.ModelConfig) *Registry {
	if !cfg.IsEnabled() {
		slog.Info("[Models] No model backend configured, using lexical analysis")
		return NewRegistry(nil, nil)
	}

	start := time.Now()
	slog.Info("[Models] Loading AI models...",
		slog.String("backend", cfg.Backend),
		slog.String("sentiment", cfg.Sentiment),
		slog.String("mental_health", cfg.MentalHealth))

	var registry *Registry
	switch cfg.Backend {
	case config.BackendHugot:
		registry = loadHugot(cfg)
	case config.BackendRemote:
		registry = NewRegistry(
			NewRemoteClassifier(cfg.InferenceURL, cfg.Sentiment, cfg.InferenceToken, cfg.Timeout()),
			NewRemoteClassifier(cfg.InferenceURL, cfg.MentalHealth, cfg.InferenceToken, cfg.Timeout()),
		)
	case config.BackendLocal:
		registry = loadLocal(cfg.LocalPath)
	default:
		registry = NewRegistry(nil, nil)
	}

	slog.Info("[Models] Model registry ready",
		slog.Any("status", registry.Status()),
		slog.Duration("elapsed", time.Since(start)))
	return registry
}

func loadLocal(path string) *Registry {
	clf, err := LoadLocalClassifier(path)
	if err != nil {
		slog.Error("[Models] Failed to load local classifier",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return NewRegistry(nil, nil)
	}
	return NewRegistry(nil, clf)
}
