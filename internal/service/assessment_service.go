package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eunoia/internal/analysis"
	"eunoia/internal/cache"
	"eunoia/internal/model"
	"eunoia/internal/repository"
)

// NotSavedError carries an assessment that was computed but could not be
// persisted. It matches ErrNotSaved with errors.Is.
type NotSavedError struct {
	Assessment *model.RiskAssessment
	Err        error
}

func (e *NotSavedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNotSaved, e.Err)
}

func (e *NotSavedError) Is(target error) bool { return target == ErrNotSaved }

func (e *NotSavedError) Unwrap() error { return e.Err }

// AssessmentService runs the assessment pipeline and stores its results
type AssessmentService struct {
	analyzer    *analysis.Analyzer
	scorer      analysis.Scorer
	recommender Recommender
	assessments repository.AssessmentRepo
	behavioral  repository.BehavioralRepo
	history     cache.HistoryCache
	broadcaster Broadcaster
	now         func() time.Time
}

// NewAssessmentService creates a new assessment service. history and
// broadcaster may be nil.
func NewAssessmentService(
	analyzer *analysis.Analyzer,
	scorer analysis.Scorer,
	recommender Recommender,
	assessments repository.AssessmentRepo,
	behavioral repository.BehavioralRepo,
	history cache.HistoryCache,
	broadcaster Broadcaster,
) *AssessmentService {
	if history == nil {
		history = cache.NoopHistoryCache{}
	}
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if recommender == nil {
		recommender = RuleRecommender{}
	}
	return &AssessmentService{
		analyzer:    analyzer,
		scorer:      scorer,
		recommender: recommender,
		assessments: assessments,
		behavioral:  behavioral,
		history:     history,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// Assess scores one behavioral data request and appends the result to the
// user's history. Each call creates a new record.
func (s *AssessmentService) Assess(ctx context.Context, req *model.BehavioralDataRequest) (*model.RiskAssessment, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	rec := model.BehavioralRecord{
		SleepHours:    req.SleepHours,
		ActivityLevel: req.ActivityLevel,
		MoodRating:    req.MoodRating,
		StressLevel:   req.StressLevel,
	}
	// Fallback results are defaults, not observations: leave them out so the
	// scorer weighs only the signals that were actually measured.
	if text := req.CombinedText(); text != "" {
		if sentiment := s.analyzer.Sentiment(ctx, text); sentiment.Source != analysis.SourceFallback {
			rec.Sentiment = &sentiment.Result
		}
		if indicators := s.analyzer.Indicators(ctx, text); indicators.Source != analysis.SourceFallback {
			rec.Indicators = &indicators.Result
		}
	}

	score := s.scorer.Score(rec)
	assessment := &model.RiskAssessment{
		UserID:          req.UserID,
		RiskScore:       score.Value,
		RiskLevel:       score.Level,
		RiskFactors:     score.Factors,
		Recommendations: s.recommender.Recommend(ctx, score),
		Timestamp:       s.now().UTC(),
	}

	if err := s.save(ctx, assessment); err != nil {
		slog.Error("[AssessmentService] Failed to save assessment",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()))
		return assessment, &NotSavedError{Assessment: assessment, Err: err}
	}

	if err := s.history.Invalidate(ctx, req.UserID); err != nil {
		slog.Warn("[AssessmentService] Failed to invalidate history cache",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()))
	}
	s.broadcaster.PublishAssessment(req.UserID, assessment)

	slog.Info("[AssessmentService] Assessment stored",
		slog.String("assessment_id", assessment.ID),
		slog.String("user_id", req.UserID),
		slog.Float64("risk_score", assessment.RiskScore),
		slog.String("risk_level", string(assessment.RiskLevel)))
	return assessment, nil
}

// save writes the assessment, retrying once. The ID is fixed by the first
// attempt, so a duplicate on the retry means that attempt was stored.
func (s *AssessmentService) save(ctx context.Context, a *model.RiskAssessment) error {
	err := s.assessments.Create(ctx, a)
	if err == nil {
		return nil
	}
	slog.Warn("[AssessmentService] Save failed, retrying once", slog.String("error", err.Error()))
	err = s.assessments.Create(ctx, a)
	if errors.Is(err, repository.ErrAssessmentExists) {
		slog.Info("[AssessmentService] First save had landed", slog.String("assessment_id", a.ID))
		return nil
	}
	return err
}

// AnalyzeText runs sentiment and indicator analysis on one text and stores
// the result in behavioral_data.
func (s *AssessmentService) AnalyzeText(ctx context.Context, req *model.TextAnalysisRequest) (*model.TextAnalysisResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, invalid(fmt.Errorf("user_id is required"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, invalid(fmt.Errorf("text is required"))
	}

	sentiment := s.analyzer.Sentiment(ctx, req.Text)
	indicators := s.analyzer.Indicators(ctx, req.Text)

	record := &model.TextAnalysis{
		UserID:                 req.UserID,
		Text:                   req.Text,
		Sentiment:              sentiment.Result,
		SentimentSource:        string(sentiment.Source),
		MentalHealthIndicators: indicators.Result,
		Timestamp:              s.now().UTC(),
	}
	if err := s.behavioral.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save text analysis: %w", err)
	}

	return &model.TextAnalysisResponse{
		Sentiment:              record.Sentiment,
		MentalHealthIndicators: record.MentalHealthIndicators,
		AnalysisID:             record.ID,
	}, nil
}

// History returns the user's recent assessments, newest first
func (s *AssessmentService) History(ctx context.Context, userID string) ([]model.RiskAssessment, error) {
	cached, err := s.history.Get(ctx, userID)
	if err != nil {
		slog.Warn("[AssessmentService] History cache read failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	// The version must be read before the store so a concurrent write
	// makes the fill a no-op
	version, verr := s.history.Version(ctx, userID)
	if verr != nil {
		slog.Warn("[AssessmentService] History cache version read failed",
			slog.String("user_id", userID),
			slog.String("error", verr.Error()))
	}

	assessments, err := s.assessments.ListByUser(ctx, userID, cache.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if verr != nil {
		return assessments, nil
	}
	if err := s.history.Fill(ctx, userID, version, assessments); err != nil {
		slog.Warn("[AssessmentService] History cache fill failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
	return assessments, nil
}
