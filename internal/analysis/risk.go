package analysis

import (
	"fmt"
	"math"

	"eunoia/internal/config"
	"eunoia/internal/model"
)

// Factor names reported in RiskAssessment.RiskFactors
const (
	FactorSleep      = "sleep"
	FactorActivity   = "activity"
	FactorMood       = "mood"
	FactorStress     = "stress"
	FactorSentiment  = "sentiment"
	FactorIndicators = "indicators"
)

// BaselineScore is the score reported when no signal is available
const BaselineScore = 50.0

// Score is the scorer's output
type Score struct {
	Value   float64
	Level   model.RiskLevel
	Factors map[string]float64
}

// Scorer turns a behavioral record into a risk score
type Scorer interface {
	Score(rec model.BehavioralRecord) Score
}

// NewScorer returns the scorer registered under name
func NewScorer(name string) (Scorer, error) {
	switch name {
	case config.ScorerConstant:
		return ConstantScorer{}, nil
	case config.ScorerWeighted, "":
		return NewWeightedScorer(DefaultWeights()), nil
	default:
		return nil, fmt.Errorf("unknown risk scorer %q", name)
	}
}

// ConstantScorer always reports 50.0 / Moderate with no factors
type ConstantScorer struct{}

func (ConstantScorer) Score(model.BehavioralRecord) Score {
	return Score{Value: BaselineScore, Level: model.RiskModerate, Factors: map[string]float64{}}
}

// Weights sets the relative importance of each signal. Only signals present
// in a record take part, so the weights are renormalised per record.
type Weights struct {
	Sleep      float64
	Activity   float64
	Mood       float64
	Stress     float64
	Sentiment  float64
	Indicators float64
}

// DefaultWeights sum to 1
func DefaultWeights() Weights {
	return Weights{
		Sleep:      0.20,
		Activity:   0.10,
		Mood:       0.20,
		Stress:     0.15,
		Sentiment:  0.15,
		Indicators: 0.20,
	}
}

// WeightedScorer computes the weighted mean of per-signal sub-scores
type WeightedScorer struct {
	weights Weights
}

// NewWeightedScorer creates a scorer with the given weights
func NewWeightedScorer(w Weights) *WeightedScorer {
	return &WeightedScorer{weights: w}
}

func (s *WeightedScorer) Score(rec model.BehavioralRecord) Score {
	factors := map[string]float64{}
	var total, weightSum float64

	add := func(name string, weight, sub float64) {
		sub = round2(clamp(sub, 0, 100))
		factors[name] = sub
		total += weight * sub
		weightSum += weight
	}

	if rec.SleepHours != nil {
		add(FactorSleep, s.weights.Sleep, SleepRisk(*rec.SleepHours))
	}
	if rec.ActivityLevel != nil {
		add(FactorActivity, s.weights.Activity, inverseScaleRisk(*rec.ActivityLevel))
	}
	if rec.MoodRating != nil {
		add(FactorMood, s.weights.Mood, inverseScaleRisk(*rec.MoodRating))
	}
	if rec.StressLevel != nil {
		add(FactorStress, s.weights.Stress, scaleRisk(*rec.StressLevel))
	}
	if rec.Sentiment != nil {
		add(FactorSentiment, s.weights.Sentiment, SentimentRisk(rec.Sentiment.Polarity))
	}
	if rec.Indicators != nil {
		add(FactorIndicators, s.weights.Indicators, IndicatorRisk(*rec.Indicators))
	}

	value := BaselineScore
	if weightSum > 0 {
		value = total / weightSum
	}
	value = round2(clamp(value, 0, 100))

	return Score{Value: value, Level: model.LevelForScore(value), Factors: factors}
}

// SleepRisk is 0 inside the 7-9h band, rising linearly to 100 at 0h and at 14h
func SleepRisk(hours float64) float64 {
	switch {
	case hours < 7:
		return (7 - hours) / 7 * 100
	case hours > 9:
		return math.Min(100, (hours-9)/5*100)
	default:
		return 0
	}
}

// scaleRisk maps a 1-5 rating where 5 is worst onto 0-100
func scaleRisk(v int) float64 {
	return float64(v-model.MinScale) / float64(model.MaxScale-model.MinScale) * 100
}

// inverseScaleRisk maps a 1-5 rating where 5 is best onto 0-100
func inverseScaleRisk(v int) float64 {
	return float64(model.MaxScale-v) / float64(model.MaxScale-model.MinScale) * 100
}

// SentimentRisk maps polarity -1..1 onto 100..0
func SentimentRisk(polarity float64) float64 {
	return (1 - clamp(polarity, -1, 1)) / 2 * 100
}

// IndicatorRisk adds 25 per keyword hit, capped at 100
func IndicatorRisk(ind model.MentalHealthIndicators) float64 {
	return math.Min(100, float64(ind.DepressionIndicators+ind.AnxietyIndicators)*25)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
