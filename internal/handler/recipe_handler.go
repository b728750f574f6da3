// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"recipe-box-server/internal/domain"

	"github.com/gorilla/mux"
)

// RecipeHandler handles recipe-related HTTP requests
type RecipeHandler struct {
	recipeService domain.RecipeService
	logger        domain.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService domain.RecipeService, logger domain.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		logger:        logger,
	}
}

// GetRecipes returns all recipes for the authenticated user
func (h *RecipeHandler) GetRecipes(w http.ResponseWriter, r *http.Request) {
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

	recipes, err := h.recipeService.GetRecipesByUserID(user.ID, token)
	if err != nil {
		h.logger.Error("Failed to get recipes", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve recipes")
		return
	}

	// Ensure JSON is [] not null when there are no recipes.
	if recipes == nil {
		recipes = make([]*domain.RecipeData, 0)
	}

	h.writeJSON(w, http.StatusOK, recipes)
}

// UploadRecipe handles a multipart PDF upload and runs extraction
func (h *RecipeHandler) UploadRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		originalName = "recipe"
	}

	// Only PDF uploads are supported.
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".pdf" {
		h.writeError(w, http.StatusBadRequest, "Unsupported file type. Only PDF (.pdf) files are accepted.")
		return
	}

	if header.Size > 15<<20 { // 15MB single file limit
		h.writeError(w, http.StatusBadRequest, "File too large. Maximum single file size is 15MB.")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	recipe, err := h.recipeService.Upload(
		r.Context(),
		user.ID,
		file,
		token,
		originalName,
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFile) {
			h.writeError(w, http.StatusBadRequest, "The file could not be read as a PDF.")
			return
		}
		h.logger.Error("Failed to upload recipe", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to process recipe")
		return
	}

	h.writeJSON(w, http.StatusCreated, recipe)
}

// PreviewRecipe runs extraction on an uploaded PDF without persisting anything
func (h *RecipeHandler) PreviewRecipe(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserFromContext(r); !ok {
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		h.writeError(w, http.StatusBadRequest, "Unsupported file type. Only PDF (.pdf) files are accepted.")
		return
	}

	if header.Size > 15<<20 {
		h.writeError(w, http.StatusBadRequest, "File too large. Maximum single file size is 15MB.")
		return
	}

	extracted, err := h.recipeService.Preview(r.Context(), file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFile) {
			h.writeError(w, http.StatusBadRequest, "The file could not be read as a PDF.")
			return
		}
		h.logger.Error("Failed to preview recipe", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to process recipe")
		return
	}

	h.writeJSON(w, http.StatusOK, extracted)
}

// GetRecipe returns a single recipe owned by the authenticated user
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	recipe, err := h.recipeService.GetRecipe(recipeID, token)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			h.writeError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve recipe")
		return
	}

	if recipe.UserID != user.ID {
		h.writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	h.writeJSON(w, http.StatusOK, recipe)
}

// GetScaledRecipe returns a recipe with ingredient amounts scaled to
// ?servings=N. The stored recipe is left untouched.
func (h *RecipeHandler) GetScaledRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	servings, err := strconv.Atoi(r.URL.Query().Get("servings"))
	if err != nil || servings <= 0 {
		h.writeError(w, http.StatusBadRequest, "A positive servings query parameter is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	recipe, err := h.recipeService.ScaleRecipe(recipeID, servings, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecipeNotFound):
			h.writeError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, domain.ErrInvalidServings):
			h.writeError(w, http.StatusBadRequest, "The recipe has no serving count to scale from")
		default:
			h.writeError(w, http.StatusInternalServerError, "Failed to scale recipe")
		}
		return
	}

	if recipe.UserID != user.ID {
		h.writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	h.writeJSON(w, http.StatusOK, recipe)
}

// DownloadPDF streams the original uploaded PDF back to the owner
func (h *RecipeHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	rc, filename, err := h.recipeService.DownloadPDF(r.Context(), user.ID, recipeID, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecipeNotFound), errors.Is(err, domain.ErrPDFNotFound):
			h.writeError(w, http.StatusNotFound, "PDF not found")
		case errors.Is(err, domain.ErrAccessDenied):
			h.writeError(w, http.StatusForbidden, "Access denied")
		default:
			h.logger.Error("Failed to download PDF", err, "recipe_id", recipeID)
			h.writeError(w, http.StatusInternalServerError, "Failed to download PDF")
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("Failed to stream PDF", err, "recipe_id", recipeID)
	}
}

// UpdateRecipe applies the editable fields sent by the client
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req domain.RecipeUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == nil && req.Ingredients == nil && req.Instructions == nil &&
		req.Nutrition == nil && req.Servings == nil && req.PrepTime == nil &&
		req.CookTime == nil && req.Tags == nil {
		h.writeError(w, http.StatusBadRequest, "No updates provided")
		return
	}

	updated, err := h.recipeService.UpdateRecipe(user.ID, recipeID, &req, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecipeNotFound):
			h.writeError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, domain.ErrAccessDenied):
			h.writeError(w, http.StatusForbidden, "Access denied")
		default:
			h.logger.Error("Failed to update recipe", err, "recipe_id", recipeID)
			h.writeError(w, http.StatusInternalServerError, "Failed to update recipe")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteRecipe removes a recipe, its PDF reference and its tag links
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	if err := h.recipeService.DeleteRecipe(user.ID, recipeID, token); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecipeNotFound):
			h.writeError(w, http.StatusNotFound, "Recipe not found")
		case errors.Is(err, domain.ErrAccessDenied):
			h.writeError(w, http.StatusForbidden, "Access denied")
		default:
			h.writeError(w, http.StatusInternalServerError, "Failed to delete recipe")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

// SearchRecipes searches the user's recipes by title and ingredient names
func (h *RecipeHandler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	recipes, err := h.recipeService.SearchRecipes(user.ID, query, token)
	if err != nil {
		h.logger.Error("Failed to search recipes", err, "user_id", user.ID, "query", query)
		h.writeError(w, http.StatusInternalServerError, "Failed to search recipes")
		return
	}

	// Ensure JSON is [] not null when empty.
	if recipes == nil {
		recipes = make([]*domain.RecipeData, 0)
	}

	h.writeJSON(w, http.StatusOK, recipes)
}

type setFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// SetFavorite marks/unmarks a recipe as favorite for the authenticated user.
func (h *RecipeHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	recipeID := vars["id"]
	if recipeID == "" {
		h.writeError(w, http.StatusBadRequest, "Recipe ID is required")
		return
	}

	token, ok := GetTokenFromContext(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req setFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.recipeService.SetFavorite(user.ID, recipeID, req.IsFavorite, token); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			h.writeError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to update favorite")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"recipe_id":   recipeID,
		"is_favorite": req.IsFavorite,
		"updated":     true,
	})
}

// GetTags returns all tags the authenticated user has created
func (h *RecipeHandler) GetTags(w http.ResponseWriter, r *http.Request) {
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

	tags, err := h.recipeService.GetRecipeTags(user.ID, token)
	if err != nil {
		h.logger.Error("Failed to get tags", err, "user_id", user.ID)
		h.writeError(w, http.StatusInternalServerError, "Failed to get tags")
		return
	}

	// Ensure JSON is [] not null when empty.
	if tags == nil {
		tags = make([]string, 0)
	}

	h.writeJSON(w, http.StatusOK, tags)
}

type createTagRequest struct {
	Name string `json:"name"`
}

// CreateTag creates a new tag for the authenticated user
func (h *RecipeHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
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

	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "Tag name is required")
		return
	}

	if err := h.recipeService.CreateTag(user.ID, req.Name, token); err != nil {
		if errors.Is(err, domain.ErrTagAlreadyExists) {
			h.writeError(w, http.StatusConflict, "Tag already exists")
			return
		}
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.logger.Error("Failed to create tag", err, "user_id", user.ID, "tag_name", req.Name)
		h.writeError(w, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// DeleteTag removes a tag and detaches it from the user's recipes
func (h *RecipeHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
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

	vars := mux.Vars(r)
	tagName := vars["name"]
	if tagName == "" {
		h.writeError(w, http.StatusBadRequest, "Tag name is required")
		return
	}

	if err := h.recipeService.DeleteTag(user.ID, tagName, token); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			h.writeError(w, http.StatusNotFound, "Tag not found")
			return
		}
		h.logger.Error("Failed to delete tag", err, "user_id", user.ID, "tag_name", tagName)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete tag")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted successfully"})
}

// writeError writes an error response
func (h *RecipeHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response
func (h *RecipeHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
