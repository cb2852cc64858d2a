package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
)

// OnboardingHandler exposes the per-user onboarding state: a status query and
// an idempotent completion action.
//
// Completion deliberately does not require a linked provider; the flag and
// the linkage are independent.
type OnboardingHandler struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewOnboardingHandler creates an OnboardingHandler.
func NewOnboardingHandler(users *repositories.UserRepository, logger *log.Logger) *OnboardingHandler {
	return &OnboardingHandler{users: users, logger: logger}
}

// Status handles GET /user/onboarding-status?userId=.
func (h *OnboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.users.Get(userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to fetch onboarding status", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"isOnboarded":        user.Onboarded(),
		"isSpotifyConnected": user.Spotify().Present(),
	})
}

// Complete handles POST /user/complete-onboarding.
//
// Idempotent: completing an already-onboarded user succeeds again with the
// flag still set.
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}

	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	if err := h.users.SetOnboarded(body.UserID, true); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to complete onboarding", "user_id", body.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	user, err := h.users.Get(body.UserID)
	if err != nil {
		h.logger.Error("failed to reload user after completion", "user_id", body.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Onboarding completed successfully",
		"user":    userPayload(user),
	})
}

// userPayload is the safe public projection of a user. Tokens and the
// password hash never leave the server.
func userPayload(user *models.User) map[string]any {
	return map[string]any{
		"id":                 user.ID(),
		"email":              user.Email(),
		"name":               user.Name(),
		"isOnboarded":        user.Onboarded(),
		"isSpotifyConnected": user.Spotify().Present(),
	}
}
