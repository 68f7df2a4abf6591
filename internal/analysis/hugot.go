package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"eunoia/internal/config"
)

// HugotClassifier runs an ONNX text-classification pipeline in process
type HugotClassifier struct {
	name     string
	mu       sync.Mutex
	pipeline *pipelines.TextClassificationPipeline
}

func (c *HugotClassifier) Name() string { return c.name }

func (c *HugotClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	c.mu.Lock()
	out, err := c.pipeline.RunPipeline([]string{text})
	c.mu.Unlock()
	if err != nil {
		return Prediction{}, fmt.Errorf("run pipeline %s: %w", c.name, err)
	}
	if out == nil || len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return Prediction{}, fmt.Errorf("pipeline %s returned no labels", c.name)
	}

	best := out.ClassificationOutputs[0][0]
	for _, o := range out.ClassificationOutputs[0][1:] {
		if o.Score > best.Score {
			best = o
		}
	}
	return Prediction{Label: best.Label, Score: float64(best.Score)}, nil
}

func loadHugot(cfg config.ModelConfig) *Registry {
	session, err := newHugotSession(cfg.Runtime)
	if err != nil {
		slog.Error("[Models] Failed to initialize Hugot session", slog.String("error", err.Error()))
		return NewRegistry(nil, nil)
	}

	sentiment, err := newHugotClassifier(session, cfg.Dir, cfg.Sentiment, "sentiment")
	if err != nil {
		slog.Error("[Models] Failed to load sentiment model",
			slog.String("model", cfg.Sentiment),
			slog.String("error", err.Error()))
	}
	mentalHealth, err := newHugotClassifier(session, cfg.Dir, cfg.MentalHealth, "mental_health")
	if err != nil {
		slog.Error("[Models] Failed to load mental-health model",
			slog.String("model", cfg.MentalHealth),
			slog.String("error", err.Error()))
	}

	// keep nil interfaces nil
	var s, m TextClassifier
	if sentiment != nil {
		s = sentiment
	}
	if mentalHealth != nil {
		m = mentalHealth
	}
	registry := NewRegistry(s, m)
	registry.onClose(session.Destroy)
	return registry
}

func newHugotSession(runtime string) (*hugot.Session, error) {
	switch runtime {
	case "ort":
		return hugot.NewORTSession()
	case "", "go":
		return hugot.NewGoSession()
	default:
		return nil, fmt.Errorf("unknown hugot runtime %q", runtime)
	}
}

func newHugotClassifier(session *hugot.Session, dir, modelName, pipelineName string) (*HugotClassifier, error) {
	if modelName == "" {
		return nil, errors.New("model name is empty")
	}
	modelPath, err := ensureModel(dir, modelName)
	if err != nil {
		return nil, err
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      pipelineName,
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return &HugotClassifier{name: modelName, pipeline: pipeline}, nil
}

// ensureModel returns the local path of a model, downloading it on first use
func ensureModel(dir, modelName string) (string, error) {
	modelPath := filepath.Join(dir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[Models] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	slog.Info("[Models] Model not found, downloading...", slog.String("model", modelName))
	path, err := hugot.DownloadModel(modelName, dir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("download %s: %w", modelName, err)
	}
	slog.Info("[Models] Model downloaded successfully", slog.String("path", path))
	return path, nil
}
