package analysis

import (
	"context"
	"fmt"
	"slices"

	"eunoia/internal/training"
)

// LocalClassifier serves a model trained by cmd/train over keyword features
type LocalClassifier struct {
	model *training.Model
}

// LoadLocalClassifier reads a classifier file written by cmd/train
func LoadLocalClassifier(path string) (*LocalClassifier, error) {
	m, err := training.Load(path)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(m.Features, training.TextFeatureNames) {
		return nil, fmt.Errorf("%s is not a text classifier (features %v)", path, m.Features)
	}
	return NewLocalClassifier(m), nil
}

// NewLocalClassifier wraps an in-memory model
func NewLocalClassifier(m *training.Model) *LocalClassifier {
	return &LocalClassifier{model: m}
}

func (c *LocalClassifier) Name() string { return "local:" + c.model.Name }

func (c *LocalClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	k, p := c.model.Predict(training.TextFeatures(text))
	return Prediction{Label: c.model.Classes[k], Score: p}, nil
}
