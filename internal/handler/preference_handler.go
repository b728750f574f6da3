package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"recipe-box-server/internal/domain"
)

// PreferenceHandler handles preference-related HTTP requests
type PreferenceHandler struct {
	preferenceService domain.UserPreferencesService
	logger            domain.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService domain.UserPreferencesService, logger domain.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

// GetPreferences handles getting user preferences
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	preferences, err := h.preferenceService.GetPreferences(user.ID, token)
	if err != nil {
		h.logger.Error("Failed to get preferences", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve preferences")
		return
	}

	h.writeJSON(w, http.StatusOK, preferences)
}

type updatePreferencesRequest struct {
	Locale          string `json:"locale"`
	DefaultServings int    `json:"default_servings"`
}

// UpdatePreferences handles updating user preferences. Locale selects the
// lexicon used for that user's future uploads.
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req updatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs := &domain.UserPreferences{
		Locale:          req.Locale,
		DefaultServings: req.DefaultServings,
	}

	if err := h.preferenceService.UpdatePreferences(user.ID, prefs, token); err != nil {
		if errors.Is(err, domain.ErrInvalidServings) {
			h.writeError(w, http.StatusBadRequest, "Default servings must not be negative")
			return
		}
		h.logger.Error("Failed to update preferences", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	h.writeJSON(w, http.StatusOK, prefs)
}

// writeError writes an error response
func (h *PreferenceHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response
func (h *PreferenceHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
