// Package analysis turns free text and self-reported behavioral fields into
// sentiment, mental-health indicators and a risk score.
//
// Pretrained classifiers live in a Registry that is built once at startup and
// shared read-only by every request. The analyzers never return errors: when a
// classifier is missing or fails they degrade to lexical rules or documented
// defaults and say so in the returned Outcome.
package analysis

import (
	"context"
	"errors"
)

// Prediction is the top label of a text classifier
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// TextClassifier is a pretrained single-label text classifier.
// Implementations must be safe for concurrent use.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
	Name() string
}

// Registry holds the pretrained pipelines. Either classifier may be nil.
type Registry struct {
	sentiment    TextClassifier
	mentalHealth TextClassifier
	closers      []func() error
}

// NewRegistry creates a registry from already-loaded classifiers
func NewRegistry(sentiment, mentalHealth TextClassifier) *Registry {
	return &Registry{
		sentiment:    sentiment,
		mentalHealth: mentalHealth,
	}
}

// Sentiment returns the sentiment classifier, or nil if none is loaded
func (r *Registry) Sentiment() TextClassifier {
	if r == nil {
		return nil
	}
	return r.sentiment
}

// MentalHealth returns the mental-health classifier, or nil if none is loaded
func (r *Registry) MentalHealth() TextClassifier {
	if r == nil {
		return nil
	}
	return r.mentalHealth
}

// Status reports which model backs each pipeline
func (r *Registry) Status() map[string]string {
	status := map[string]string{
		"sentiment":     "unavailable",
		"mental_health": "unavailable",
	}
	if c := r.Sentiment(); c != nil {
		status["sentiment"] = c.Name()
	}
	if c := r.MentalHealth(); c != nil {
		status["mental_health"] = c.Name()
	}
	return status
}

// Close releases backend resources such as inference sessions
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) onClose(fn func() error) {
	r.closers = append(r.closers, fn)
}
