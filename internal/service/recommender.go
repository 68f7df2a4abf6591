package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eunoia/internal/analysis"
	"eunoia/internal/config"
	"eunoia/internal/model"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Sub-scores at or above this get a factor-specific recommendation
const factorAttention = 50.0

const maxRecommendations = 5

// Recommender suggests next steps for a scored assessment
type Recommender interface {
	Recommend(ctx context.Context, score analysis.Score) []string
}

var levelRecommendations = map[model.RiskLevel][]string{
	model.RiskHigh: {
		"Consider reaching out to a mental health professional soon.",
		"If you are in crisis, contact your local emergency number or a crisis line right away.",
	},
	model.RiskModerate: {
		"Schedule regular check-ins with friends, family or a counselor.",
		"Try a short daily relaxation practice such as breathing exercises.",
	},
	model.RiskLow: {
		"Keep up the routines that support your wellbeing.",
		"Keep tracking your mood to notice changes early.",
	},
}

// Checked in this order so output is stable
var factorRecommendations = []struct {
	factor string
	text   string
}{
	{analysis.FactorSleep, "Aim for 7-9 hours of sleep with a consistent bedtime."},
	{analysis.FactorMood, "Plan small activities you enjoy to lift your mood."},
	{analysis.FactorStress, "Set aside time to unwind and break large tasks into smaller steps."},
	{analysis.FactorIndicators, "Talking through feelings of sadness or worry with someone you trust can help."},
	{analysis.FactorActivity, "Add light physical activity, such as a 20-minute walk, to most days."},
	{analysis.FactorSentiment, "Notice negative thought patterns in what you write and try reframing them."},
}

// RuleRecommender picks fixed recommendations by level and elevated factors
type RuleRecommender struct{}

func (RuleRecommender) Recommend(_ context.Context, score analysis.Score) []string {
	recs := append([]string{}, levelRecommendations[score.Level]...)
	for _, fr := range factorRecommendations {
		if len(recs) >= maxRecommendations {
			break
		}
		if v, ok := score.Factors[fr.factor]; ok && v >= factorAttention {
			recs = append(recs, fr.text)
		}
	}
	return recs
}

const recommenderPrompt = `You are a supportive wellbeing assistant. Given a mental health risk level,
a score from 0 to 100 and per-factor sub-scores (higher means more concern), write
up to 5 short, practical, non-clinical recommendations.
Return one recommendation per line with no numbering, bullets or extra text.
Always include a suggestion to contact a professional when the level is High.`

// LLMRecommender asks a chat model for recommendations and falls back to
// the rules when the call fails or returns nothing usable.
type LLMRecommender struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	fallback Recommender
}

// NewRecommender returns the LLM recommender when an API key is configured,
// otherwise the rule-based one.
func NewRecommender(cfg config.RecommenderConfig) Recommender {
	if !cfg.IsEnabled() {
		return RuleRecommender{}
	}
	return &LLMRecommender{
		client:   openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:    cfg.Model,
		timeout:  cfg.Timeout(),
		fallback: RuleRecommender{},
	}
}

func (r *LLMRecommender) Recommend(ctx context.Context, score analysis.Score) []string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(recommenderPrompt),
			openai.UserMessage(describeScore(score)),
		}),
		Model:       openai.F(openai.ChatModel(r.model)),
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		slog.Warn("[Recommender] LLM call failed, using rules", slog.String("error", err.Error()))
		return r.fallback.Recommend(ctx, score)
	}
	if len(completion.Choices) == 0 {
		slog.Warn("[Recommender] LLM returned no choices, using rules")
		return r.fallback.Recommend(ctx, score)
	}

	recs := ParseRecommendations(completion.Choices[0].Message.Content)
	if len(recs) == 0 {
		slog.Warn("[Recommender] LLM returned empty response, using rules")
		return r.fallback.Recommend(ctx, score)
	}
	return recs
}

func describeScore(score analysis.Score) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk level: %s\nRisk score: %.2f\n", score.Level, score.Value)
	for _, fr := range factorRecommendations {
		if v, ok := score.Factors[fr.factor]; ok {
			fmt.Fprintf(&b, "%s: %.2f\n", fr.factor, v)
		}
	}
	return b.String()
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// ParseRecommendations splits a model reply into clean lines, dropping list
// markers and blank lines.
func ParseRecommendations(content string) []string {
	var recs []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		recs = append(recs, line)
		if len(recs) == maxRecommendations {
			break
		}
	}
	return recs
}
