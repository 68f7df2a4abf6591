package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the qualitative bucket derived from a risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Level thresholds, inclusive on the high side
const (
	HighRiskThreshold     = 80.0
	ModerateRiskThreshold = 60.0
)

// LevelForScore maps a risk score onto its level
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= ModerateRiskThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Bounds for self-reported behavioral fields
const (
	MinSleepHours = 0.0
	MaxSleepHours = 24.0
	MinScale      = 1
	MaxScale      = 5
)

// BehavioralDataRequest is the request body for a risk assessment
type BehavioralDataRequest struct {
	UserID           string   `json:"user_id" bson:"user_id"`
	SocialMediaPosts []string `json:"social_media_posts" bson:"social_media_posts"`
	SleepHours       *float64 `json:"sleep_hours,omitempty" bson:"sleep_hours,omitempty"`
	ActivityLevel    *int     `json:"activity_level,omitempty" bson:"activity_level,omitempty"` // 1-5
	MoodRating       *int     `json:"mood_rating,omitempty" bson:"mood_rating,omitempty"`       // 1-5
	StressLevel      *int     `json:"stress_level,omitempty" bson:"stress_level,omitempty"`     // 1-5
}

// Validate checks required fields and numeric bounds
func (r *BehavioralDataRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.SleepHours != nil && (*r.SleepHours < MinSleepHours || *r.SleepHours > MaxSleepHours) {
		return fmt.Errorf("sleep_hours must be between %g and %g", MinSleepHours, MaxSleepHours)
	}
	scales := []struct {
		name  string
		value *int
	}{
		{"activity_level", r.ActivityLevel},
		{"mood_rating", r.MoodRating},
		{"stress_level", r.StressLevel},
	}
	for _, f := range scales {
		if f.value != nil && (*f.value < MinScale || *f.value > MaxScale) {
			return fmt.Errorf("%s must be between %d and %d", f.name, MinScale, MaxScale)
		}
	}
	return nil
}

// CombinedText joins all non-blank posts with single spaces
func (r *BehavioralDataRequest) CombinedText() string {
	parts := make([]string, 0, len(r.SocialMediaPosts))
	for _, p := range r.SocialMediaPosts {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// BehavioralRecord is the merged input to the risk scorer
type BehavioralRecord struct {
	SleepHours    *float64
	ActivityLevel *int
	MoodRating    *int
	StressLevel   *int
	Sentiment     *SentimentResult        // nil when no text was supplied
	Indicators    *MentalHealthIndicators // nil when no text was supplied
}

// RiskAssessment is the persisted result of one assessment request.
// Written once, never updated.
type RiskAssessment struct {
	ID              string             `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"user_id" bson:"user_id"`
	RiskScore       float64            `json:"risk_score" bson:"risk_score"`
	RiskLevel       RiskLevel          `json:"risk_level" bson:"risk_level"`
	RiskFactors     map[string]float64 `json:"risk_factors" bson:"risk_factors"`
	Recommendations []string           `json:"recommendations" bson:"recommendations"`
	Timestamp       time.Time          `json:"timestamp" bson:"timestamp"`
}

// RiskAssessmentResponse is returned by POST /ai/risk-assessment
type RiskAssessmentResponse struct {
	AssessmentID    string             `json:"assessment_id,omitempty"`
	RiskScore       float64            `json:"risk_score"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	Factors         map[string]float64 `json:"factors"`
	Recommendations []string           `json:"recommendations"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Response converts a stored assessment to its API shape
func (a *RiskAssessment) Response() *RiskAssessmentResponse {
	factors := a.RiskFactors
	if factors == nil {
		factors = map[string]float64{}
	}
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return &RiskAssessmentResponse{
		AssessmentID:    a.ID,
		RiskScore:       a.RiskScore,
		RiskLevel:       a.RiskLevel,
		Factors:         factors,
		Recommendations: recs,
		Timestamp:       a.Timestamp,
	}
}

// AssessmentHistoryResponse is returned by GET /user/assessments
type AssessmentHistoryResponse struct {
	Assessments []RiskAssessment `json:"assessments"`
}
