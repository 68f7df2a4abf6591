package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"eunoia/internal/model"
	"eunoia/internal/service"
	"eunoia/internal/transport/rest/middleware"
)

// AssessmentHandler handles the analysis endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// RiskAssessment handles POST /ai/risk-assessment
func (h *AssessmentHandler) RiskAssessment(w http.ResponseWriter, r *http.Request) {
	var req model.BehavioralDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := h.assessmentSvc.Assess(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, assessment.Response())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotSaved):
		resp := assessment.Response()
		resp.AssessmentID = ""
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error":      service.ErrNotSaved.Error(),
			"assessment": resp,
		})
	default:
		slog.Error("[AssessmentHandler] Assessment failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("user_id", middleware.GetUserID(r.Context())),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "assessment failed")
	}
}

// AnalyzeText handles POST /ai/analyze-text
func (h *AssessmentHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req model.TextAnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.assessmentSvc.AnalyzeText(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("[AssessmentHandler] Text analysis failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "text analysis failed")
	}
}

// History handles GET /user/assessments
func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	assessments, err := h.assessmentSvc.History(r.Context(), userID)
	if err != nil {
		slog.Error("[AssessmentHandler] History failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load assessments")
		return
	}

	writeJSON(w, http.StatusOK, model.AssessmentHistoryResponse{Assessments: assessments})
}
