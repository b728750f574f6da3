package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"recipe-box-server/internal/domain"

	"github.com/gorilla/mux"
)

// MealPlanHandler handles meal plan HTTP requests
type MealPlanHandler struct {
	mealPlanService domain.MealPlanService
	logger          domain.Logger
}

// NewMealPlanHandler creates a new meal plan handler
func NewMealPlanHandler(mealPlanService domain.MealPlanService, logger domain.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		logger:          logger,
	}
}

type addEntryRequest struct {
	RecipeID string `json:"recipe_id"`
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Servings int    `json:"servings"`
}

// AddEntry schedules a recipe on a date and meal slot
func (h *MealPlanHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
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

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RecipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	entry, err := h.mealPlanService.AddEntry(user.ID, req.RecipeID, req.Date, domain.MealSlot(req.Slot), req.Servings, token)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.writeError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, domain.ErrRecipeNotFound):
			h.writeError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, domain.ErrAccessDenied):
			h.writeError(w, http.StatusForbidden, "Access denied")
		default:
			h.logger.Error("Failed to add meal plan entry", err, "user_id", user.ID)
			h.writeError(w, http.StatusInternalServerError, "Failed to add meal plan entry")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, entry)
}

// GetPlan returns the user's entries for ?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *MealPlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
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

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	entries, err := h.mealPlanService.GetPlan(user.ID, from, to, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPlanRange) {
			h.writeError(w, http.StatusBadRequest, "Invalid date range. Expected from and to as YYYY-MM-DD with from <= to.")
			return
		}
		h.logger.Error("Failed to get meal plan", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve meal plan")
		return
	}

	// Ensure JSON is [] not null when empty.
	if entries == nil {
		entries = make([]*domain.MealPlanEntry, 0)
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// RemoveEntry deletes a single meal plan entry
func (h *MealPlanHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	entryID := vars["id"]
	if entryID == "" {
		h.writeError(w, http.StatusBadRequest, "Entry ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	if err := h.mealPlanService.RemoveEntry(user.ID, entryID, token); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			h.writeError(w, http.StatusNotFound, "Meal plan entry not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to remove meal plan entry")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Entry removed successfully"})
}

// GetShoppingList aggregates ingredients over ?from=&to=
func (h *MealPlanHandler) GetShoppingList(w http.ResponseWriter, r *http.Request) {
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

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	list, err := h.mealPlanService.BuildShoppingList(user.ID, from, to, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPlanRange) {
			h.writeError(w, http.StatusBadRequest, "Invalid date range. Expected from and to as YYYY-MM-DD with from <= to.")
			return
		}
		h.logger.Error("Failed to build shopping list", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to build shopping list")
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// writeError writes an error response
func (h *MealPlanHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response
func (h *MealPlanHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
