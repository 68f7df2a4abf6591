package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"eunoia/internal/service"
	"eunoia/internal/transport/rest/middleware"
)

// UserHandler handles the current user's profile
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Profile handles GET /user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userSvc.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if errors.Is(err, service.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		slog.Error("[UserHandler] Profile failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}
