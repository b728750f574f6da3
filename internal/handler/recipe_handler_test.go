package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-box-server/internal/domain"

	"github.com/gorilla/mux"
)

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func createContextWithToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), tokenContextKey, token)
	return r.WithContext(ctx)
}

// MockRecipeService is a hand-rolled mock of domain.RecipeService.
type MockRecipeService struct {
	recipes map[string]*domain.Recipe

	uploadErr    error
	lastUploaded []byte
	lastFavorite bool
	pdfContent   string
}

func NewMockRecipeService() *MockRecipeService {
	return &MockRecipeService{
		recipes:    make(map[string]*domain.Recipe),
		pdfContent: "%PDF-1.4 test",
	}
}

func (m *MockRecipeService) GetRecipesByUserID(userID string, token string) ([]*domain.RecipeData, error) {
	var out []*domain.RecipeData
	for _, r := range m.recipes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecipeService) GetRecipe(recipeID string, token string) (*domain.RecipeData, error) {
	r, ok := m.recipes[recipeID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return r, nil
}

func (m *MockRecipeService) DeleteRecipe(userID, recipeID string, token string) error {
	r, ok := m.recipes[recipeID]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	if r.UserID != userID {
		return domain.ErrAccessDenied
	}
	delete(m.recipes, recipeID)
	return nil
}

func (m *MockRecipeService) SearchRecipes(userID, query string, token string) ([]*domain.RecipeData, error) {
	var out []*domain.RecipeData
	for _, r := range m.recipes {
		if r.UserID == userID && strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecipeService) SetFavorite(userID string, recipeID string, isFavorite bool, token string) error {
	if _, ok := m.recipes[recipeID]; !ok {
		return domain.ErrRecipeNotFound
	}
	m.lastFavorite = isFavorite
	return nil
}

func (m *MockRecipeService) UpdateRecipe(userID string, recipeID string, update *domain.RecipeUpdate, token string) (*domain.RecipeData, error) {
	r, ok := m.recipes[recipeID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	if r.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	return r, nil
}

func (m *MockRecipeService) GetRecipeTags(userID string, token string) ([]string, error) {
	return []string{"dessert"}, nil
}

func (m *MockRecipeService) CreateTag(userID string, tagName string, token string) error {
	if tagName == "dessert" {
		return domain.ErrTagAlreadyExists
	}
	return nil
}

func (m *MockRecipeService) DeleteTag(userID string, tagName string, token string) error {
	if tagName != "dessert" {
		return domain.ErrTagNotFound
	}
	return nil
}

func (m *MockRecipeService) ScaleRecipe(recipeID string, servings int, token string) (*domain.RecipeData, error) {
	r, ok := m.recipes[recipeID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	if r.Servings == "" {
		return nil, domain.ErrInvalidServings
	}
	return r, nil
}

func (m *MockRecipeService) DownloadPDF(ctx context.Context, userID, recipeID string, token string) (io.ReadCloser, string, error) {
	r, ok := m.recipes[recipeID]
	if !ok {
		return nil, "", domain.ErrRecipeNotFound
	}
	if r.UserID != userID {
		return nil, "", domain.ErrAccessDenied
	}
	return io.NopCloser(strings.NewReader(m.pdfContent)), recipeID + ".pdf", nil
}

func (m *MockRecipeService) Upload(ctx context.Context, userID string, file io.Reader, token string, originalName string) (*domain.RecipeData, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	m.lastUploaded = data
	recipe := &domain.Recipe{ID: "recipe-1", UserID: userID, Title: "Apfelkuchen"}
	m.recipes[recipe.ID] = recipe
	return recipe, nil
}

func (m *MockRecipeService) Preview(ctx context.Context, file io.Reader) (*domain.ExtractedRecipe, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &domain.ExtractedRecipe{Title: "Apfelkuchen"}, nil
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestRecipeHandler_UploadRecipe_OK(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1", Email: "test@example.com"}

	body, contentType := multipartBody(t, "apfelkuchen.pdf", "%PDF-1.4 content")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.UploadRecipe(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var recipe domain.Recipe
	if err := json.Unmarshal(rr.Body.Bytes(), &recipe); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if recipe.Title != "Apfelkuchen" {
		t.Fatalf("expected title Apfelkuchen, got %s", recipe.Title)
	}
	if string(svc.lastUploaded) != "%PDF-1.4 content" {
		t.Fatalf("expected file bytes to reach the service")
	}
}

func TestRecipeHandler_UploadRecipe_WrongExtension(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body, contentType := multipartBody(t, "recipe.docx", "not a pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.UploadRecipe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Only PDF") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestRecipeHandler_UploadRecipe_UnreadablePDF(t *testing.T) {
	svc := NewMockRecipeService()
	svc.uploadErr = domain.ErrInvalidFile
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body, contentType := multipartBody(t, "broken.pdf", "garbage")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.UploadRecipe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "could not be read") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestRecipeHandler_PreviewRecipe_OK(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body, contentType := multipartBody(t, "apfelkuchen.pdf", "%PDF-1.4 content")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/preview", body)
	req.Header.Set("Content-Type", contentType)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.PreviewRecipe(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(svc.recipes) != 0 {
		t.Fatalf("expected preview not to persist a recipe")
	}
}

func TestRecipeHandler_GetRecipe_Forbidden(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "someone-else", Title: "Secret"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/recipe-1", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}", handler.GetRecipe).Methods(http.MethodGet)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestRecipeHandler_GetRecipe_NotFound(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/missing", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}", handler.GetRecipe).Methods(http.MethodGet)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestRecipeHandler_GetScaledRecipe_BadServings(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "user-1", Servings: "4"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/recipe-1/scaled?servings=zero", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}/scaled", handler.GetScaledRecipe).Methods(http.MethodGet)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestRecipeHandler_GetScaledRecipe_OK(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "user-1", Title: "Apfelkuchen", Servings: "4"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/recipe-1/scaled?servings=8", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}/scaled", handler.GetScaledRecipe).Methods(http.MethodGet)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestRecipeHandler_DownloadPDF_OK(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "user-1", PDFPath: "user-1/recipe-1.pdf"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/recipe-1/pdf", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}/pdf", handler.DownloadPDF).Methods(http.MethodGet)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected content type application/pdf, got %s", ct)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "recipe-1.pdf") {
		t.Fatalf("unexpected content disposition: %s", rr.Header().Get("Content-Disposition"))
	}
	if rr.Body.String() != svc.pdfContent {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestRecipeHandler_UpdateRecipe_NoUpdates(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/recipe-1", strings.NewReader(`{}`))
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}", handler.UpdateRecipe).Methods(http.MethodPut)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No updates provided") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestRecipeHandler_UpdateRecipe_OK(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "user-1", Title: "Old"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/recipe-1", strings.NewReader(`{"title":"New"}`))
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}", handler.UpdateRecipe).Methods(http.MethodPut)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal(rr.Body.Bytes(), &recipe); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if recipe.Title != "New" {
		t.Fatalf("expected title New, got %s", recipe.Title)
	}
}

func TestRecipeHandler_SetFavorite_OK(t *testing.T) {
	svc := NewMockRecipeService()
	svc.recipes["recipe-1"] = &domain.Recipe{ID: "recipe-1", UserID: "user-1"}
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/recipe-1/favorite", strings.NewReader(`{"is_favorite":true}`))
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/recipes/{id}/favorite", handler.SetFavorite).Methods(http.MethodPut)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !svc.lastFavorite {
		t.Fatalf("expected favorite flag to reach the service")
	}
}

func TestRecipeHandler_SearchRecipes_MissingQuery(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/search", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.SearchRecipes(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestRecipeHandler_GetRecipes_EmptyIsArray(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.GetRecipes(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}

func TestRecipeHandler_CreateTag_Conflict(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tags", strings.NewReader(`{"name":"dessert"}`))
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.CreateTag(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestRecipeHandler_DeleteTag_NotFound(t *testing.T) {
	svc := NewMockRecipeService()
	handler := NewRecipeHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tags/unknown", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/tags/{name}", handler.DeleteTag).Methods(http.MethodDelete)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
