package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"eunoia/internal/model"
)

// Polarity cut-offs for the lexical rule
const (
	positivePolarity = 0.1
	negativePolarity = -0.1
)

// Analyzer runs the sentiment analyzer and the indicator extractor against
// a shared Registry.
type Analyzer struct {
	registry *Registry
	lexicon  *Lexicon
	timeout  time.Duration
}

// NewAnalyzer creates an analyzer. A nil registry means no models.
func NewAnalyzer(registry *Registry, timeout time.Duration) *Analyzer {
	return &Analyzer{
		registry: registry,
		lexicon:  NewLexicon(),
		timeout:  timeout,
	}
}

// Sentiment classifies text. It never fails: malformed input or classifier
// errors yield NEUTRAL / 0.5 / 0.0.
func (a *Analyzer) Sentiment(ctx context.Context, text string) (out Outcome[model.SentimentResult]) {
	defer func() {
		if r := recover(); r != nil {
			out = sentimentFallback(fmt.Sprintf("panic: %v", r))
		}
		logDegraded("sentiment", out.Source, out.Reason)
	}()

	if reason := malformed(text); reason != "" {
		return sentimentFallback(reason)
	}

	polarity := a.lexicon.Polarity(text)

	clf := a.registry.Sentiment()
	if clf == nil {
		return Outcome[model.SentimentResult]{
			Result: LexicalSentiment(polarity),
			Source: SourceLexical,
			Reason: "sentiment model unavailable",
		}
	}

	ctx, cancel := a.inferenceContext(ctx)
	defer cancel()

	pred, err := clf.Classify(ctx, text)
	if err != nil {
		return sentimentFallback("sentiment model error: " + err.Error())
	}
	label, ok := NormalizeSentimentLabel(pred.Label)
	if !ok {
		return sentimentFallback(fmt.Sprintf("unrecognised sentiment label %q", pred.Label))
	}

	return Outcome[model.SentimentResult]{
		Result: model.SentimentResult{
			Sentiment:  label,
			Confidence: clamp(pred.Score, 0, 1),
			Polarity:   polarity,
		},
		Source: SourceModel,
	}
}

// LexicalSentiment applies the polarity rule used when no model is loaded
func LexicalSentiment(polarity float64) model.SentimentResult {
	polarity = clamp(polarity, -1, 1)
	label := model.SentimentNeutral
	if polarity > positivePolarity {
		label = model.SentimentPositive
	} else if polarity < negativePolarity {
		label = model.SentimentNegative
	}
	confidence := polarity
	if confidence < 0 {
		confidence = -confidence
	}
	return model.SentimentResult{Sentiment: label, Confidence: confidence, Polarity: polarity}
}

// NormalizeSentimentLabel maps model-specific labels onto POSITIVE, NEGATIVE
// or NEUTRAL. Three-class LABEL_n outputs follow the cardiffnlp ordering.
func NormalizeSentimentLabel(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "label_0" || strings.HasPrefix(l, "neg"):
		return model.SentimentNegative, true
	case l == "label_1" || strings.HasPrefix(l, "neu"):
		return model.SentimentNeutral, true
	case l == "label_2" || strings.HasPrefix(l, "pos"):
		return model.SentimentPositive, true
	}
	return "", false
}

func sentimentFallback(reason string) Outcome[model.SentimentResult] {
	return Outcome[model.SentimentResult]{
		Result: model.NeutralSentiment(),
		Source: SourceFallback,
		Reason: reason,
	}
}

func malformed(text string) string {
	if !utf8.ValidString(text) {
		return "text is not valid UTF-8"
	}
	if strings.TrimSpace(text) == "" {
		return "text is empty"
	}
	return ""
}

func logDegraded(component string, source Source, reason string) {
	if reason == "" {
		return
	}
	level := slog.LevelWarn
	if source == SourceLexical {
		level = slog.LevelDebug
	}
	slog.Log(context.Background(), level, "[Analyzer] Result degraded",
		slog.String("component", component),
		slog.String("source", string(source)),
		slog.String("reason", reason))
}

func (a *Analyzer) inferenceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
