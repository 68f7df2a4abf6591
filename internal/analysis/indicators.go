package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"eunoia/internal/model"
)

var (
	depressionKeywords = []string{"sad", "depressed", "hopeless", "worthless", "empty", "lonely"}
	anxietyKeywords    = []string{"anxious", "worried", "nervous", "panic", "fear", "stress"}
)

// CountKeywords returns how many keywords occur in text. Matching is
// case-insensitive and substring-based; each keyword counts at most once.
func CountKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// Indicators counts depression and anxiety keywords and, when a classifier
// is loaded, adds its label and confidence. Failures yield zero counts
// without classifier fields.
func (a *Analyzer) Indicators(ctx context.Context, text string) (out Outcome[model.MentalHealthIndicators]) {
	defer func() {
		if r := recover(); r != nil {
			out = indicatorsFallback(fmt.Sprintf("panic: %v", r))
		}
		logDegraded("indicators", out.Source, out.Reason)
	}()

	if !utf8.ValidString(text) {
		return indicatorsFallback("text is not valid UTF-8")
	}

	result := model.MentalHealthIndicators{
		DepressionIndicators: CountKeywords(text, depressionKeywords),
		AnxietyIndicators:    CountKeywords(text, anxietyKeywords),
	}

	clf := a.registry.MentalHealth()
	if clf == nil || strings.TrimSpace(text) == "" {
		return Outcome[model.MentalHealthIndicators]{Result: result, Source: SourceLexical}
	}

	ctx, cancel := a.inferenceContext(ctx)
	defer cancel()

	pred, err := clf.Classify(ctx, text)
	if err != nil {
		return indicatorsFallback("mental-health model error: " + err.Error())
	}
	confidence := clamp(pred.Score, 0, 1)
	result.AIClassification = pred.Label
	result.AIConfidence = &confidence

	return Outcome[model.MentalHealthIndicators]{Result: result, Source: SourceModel}
}

func indicatorsFallback(reason string) Outcome[model.MentalHealthIndicators] {
	return Outcome[model.MentalHealthIndicators]{
		Result: model.MentalHealthIndicators{},
		Source: SourceFallback,
		Reason: reason,
	}
}
