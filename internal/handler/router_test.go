package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-box-server/internal/domain"
)

func TestNewRouter_Health(t *testing.T) {
	logger := NewMockHandlerLogger()

	authHandler := NewAuthHandler(nil)
	adminHandler := NewAdminHandler()
	recipeHandler := NewRecipeHandler(NewMockRecipeService(), logger)
	mealPlanHandler := NewMealPlanHandler(NewMockMealPlanService(), logger)
	preferenceHandler := NewPreferenceHandler(NewMockUserPreferencesService(), logger)

	router := NewRouter(authHandler, adminHandler, recipeHandler, mealPlanHandler, preferenceHandler, func(next http.Handler) http.Handler { return next })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_SearchNotCapturedAsID(t *testing.T) {
	logger := NewMockHandlerLogger()

	svc := NewMockRecipeService()
	stubAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = createContextWithUser(r, &domain.SupabaseUser{ID: "user-1"})
			r = createContextWithToken(r, "token")
			next.ServeHTTP(w, r)
		})
	}
	router := NewRouter(
		NewAuthHandler(nil),
		NewAdminHandler(),
		NewRecipeHandler(svc, logger),
		NewMealPlanHandler(NewMockMealPlanService(), logger),
		NewPreferenceHandler(NewMockUserPreferencesService(), logger),
		stubAuth,
	)

	// A missing q yields 400 from SearchRecipes. If the route were
	// captured by GetRecipe it would respond 404 instead.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/search", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Search query is required") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}
