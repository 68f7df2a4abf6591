package model

import "time"

// Sentiment labels
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// SentimentResult is the output of the text sentiment analyzer
type SentimentResult struct {
	Sentiment  string  `json:"sentiment" bson:"sentiment"`
	Confidence float64 `json:"confidence" bson:"confidence"` // 0-1
	Polarity   float64 `json:"polarity" bson:"polarity"`     // -1 to 1
}

// NeutralSentiment is the safe default when analysis fails
func NeutralSentiment() SentimentResult {
	return SentimentResult{Sentiment: SentimentNeutral, Confidence: 0.5, Polarity: 0.0}
}

// MentalHealthIndicators holds keyword hit counts and the optional classifier output
type MentalHealthIndicators struct {
	DepressionIndicators int      `json:"depression_indicators" bson:"depression_indicators"`
	AnxietyIndicators    int      `json:"anxiety_indicators" bson:"anxiety_indicators"`
	AIClassification     string   `json:"ai_classification,omitempty" bson:"ai_classification,omitempty"`
	AIConfidence         *float64 `json:"ai_confidence,omitempty" bson:"ai_confidence,omitempty"`
}

// TextAnalysisRequest is the request body for POST /ai/analyze-text
type TextAnalysisRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// TextAnalysis is a stored text analysis in the behavioral_data collection
type TextAnalysis struct {
	ID                     string                 `json:"id" bson:"_id,omitempty"`
	UserID                 string                 `json:"user_id" bson:"user_id"`
	Text                   string                 `json:"text" bson:"text"`
	Sentiment              SentimentResult        `json:"sentiment" bson:"sentiment"`
	SentimentSource        string                 `json:"sentiment_source" bson:"sentiment_source"`
	MentalHealthIndicators MentalHealthIndicators `json:"mental_health_indicators" bson:"mental_health_indicators"`
	Timestamp              time.Time              `json:"timestamp" bson:"timestamp"`
}

// TextAnalysisResponse is returned by POST /ai/analyze-text
type TextAnalysisResponse struct {
	Sentiment              SentimentResult        `json:"sentiment"`
	MentalHealthIndicators MentalHealthIndicators `json:"mental_health_indicators"`
	AnalysisID             string                 `json:"analysis_id"`
}
