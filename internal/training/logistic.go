package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Model is a multinomial logistic regression over standardised features
type Model struct {
	Name     string      `json:"name"`
	Classes  []string    `json:"classes"`
	Features []string    `json:"features"`
	Means    []float64   `json:"means"`
	Stds     []float64   `json:"stds"`
	Weights  [][]float64 `json:"weights"` // one row per class
	Bias     []float64   `json:"bias"`
}

// Options controls gradient descent
type Options struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

// DefaultOptions suit the tiny demonstration dataset
func DefaultOptions() Options {
	return Options{LearningRate: 0.1, Epochs: 500, L2: 0.01}
}

// Train fits a model on rows X with class indices y
func Train(name string, X [][]float64, y []int, classes, features []string, opts Options) (*Model, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("training: X and y must be non-empty and the same length")
	}
	dim := len(features)
	for i, row := range X {
		if len(row) != dim {
			return nil, fmt.Errorf("training: row %d has %d features, want %d", i, len(row), dim)
		}
		if y[i] < 0 || y[i] >= len(classes) {
			return nil, fmt.Errorf("training: row %d has class %d out of range", i, y[i])
		}
	}

	m := &Model{
		Name:     name,
		Classes:  classes,
		Features: features,
		Means:    make([]float64, dim),
		Stds:     make([]float64, dim),
		Weights:  make([][]float64, len(classes)),
		Bias:     make([]float64, len(classes)),
	}
	col := make([]float64, len(X))
	for j := 0; j < dim; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.Means[j], m.Stds[j] = mean, std
	}
	for k := range m.Weights {
		m.Weights[k] = make([]float64, dim)
	}

	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = m.standardize(row)
	}

	n := float64(len(X))
	gradW := make([][]float64, len(classes))
	for k := range gradW {
		gradW[k] = make([]float64, dim)
	}
	gradB := make([]float64, len(classes))

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for k := range gradW {
			floats.Scale(0, gradW[k])
		}
		floats.Scale(0, gradB)

		for i, x := range scaled {
			probs := m.probabilities(x)
			for k := range probs {
				diff := probs[k]
				if k == y[i] {
					diff -= 1
				}
				floats.AddScaled(gradW[k], diff/n, x)
				gradB[k] += diff / n
			}
		}
		for k := range m.Weights {
			floats.AddScaled(gradW[k], opts.L2, m.Weights[k])
			floats.AddScaled(m.Weights[k], -opts.LearningRate, gradW[k])
		}
		floats.AddScaled(m.Bias, -opts.LearningRate, gradB)
	}
	return m, nil
}

// Predict returns the most probable class index and its probability
func (m *Model) Predict(x []float64) (int, float64) {
	probs := m.probabilities(m.standardize(x))
	best := floats.MaxIdx(probs)
	return best, probs[best]
}

// Accuracy is the share of rows predicted correctly
func (m *Model) Accuracy(X [][]float64, y []int) float64 {
	if len(X) == 0 {
		return 0
	}
	correct := 0
	for i, x := range X {
		if k, _ := m.Predict(x); k == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}

func (m *Model) standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - m.Means[j]) / m.Stds[j]
	}
	return out
}

func (m *Model) probabilities(x []float64) []float64 {
	logits := make([]float64, len(m.Weights))
	for k, w := range m.Weights {
		logits[k] = floats.Dot(w, x) + m.Bias[k]
	}
	maxLogit := floats.Max(logits)
	for k := range logits {
		logits[k] = math.Exp(logits[k] - maxLogit)
	}
	floats.Scale(1/floats.Sum(logits), logits)
	return logits
}

// Save writes the model as JSON
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a model written by Save
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("training: parse %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("training: %s: %w", path, err)
	}
	return &m, nil
}

func (m *Model) validate() error {
	dim := len(m.Features)
	if len(m.Classes) == 0 || dim == 0 {
		return errors.New("model has no classes or features")
	}
	if len(m.Means) != dim || len(m.Stds) != dim || len(m.Weights) != len(m.Classes) || len(m.Bias) != len(m.Classes) {
		return errors.New("model dimensions do not match")
	}
	for _, w := range m.Weights {
		if len(w) != dim {
			return errors.New("model weight row has wrong width")
		}
	}
	for _, s := range m.Stds {
		if s == 0 {
			return errors.New("model has zero standard deviation")
		}
	}
	return nil
}
