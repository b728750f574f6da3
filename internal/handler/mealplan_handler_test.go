package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-box-server/internal/domain"

	"github.com/gorilla/mux"
)

// MockMealPlanService is a hand-rolled mock of domain.MealPlanService.
type MockMealPlanService struct {
	entries map[string]*domain.MealPlanEntry
}

func NewMockMealPlanService() *MockMealPlanService {
	return &MockMealPlanService{entries: make(map[string]*domain.MealPlanEntry)}
}

func (m *MockMealPlanService) AddEntry(userID string, recipeID string, date string, slot domain.MealSlot, servings int, token string) (*domain.MealPlanEntry, error) {
	if len(date) != 10 {
		return nil, &domain.ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}
	if recipeID == "missing" {
		return nil, domain.ErrRecipeNotFound
	}
	entry := &domain.MealPlanEntry{
		ID:       "entry-1",
		UserID:   userID,
		RecipeID: recipeID,
		Date:     date,
		Slot:     slot,
		Servings: servings,
	}
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *MockMealPlanService) GetPlan(userID, from, to string, token string) ([]*domain.MealPlanEntry, error) {
	if from == "" || to == "" || from > to {
		return nil, domain.ErrInvalidPlanRange
	}
	var out []*domain.MealPlanEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockMealPlanService) RemoveEntry(userID, entryID string, token string) error {
	if _, ok := m.entries[entryID]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, entryID)
	return nil
}

func (m *MockMealPlanService) BuildShoppingList(userID, from, to string, token string) (*domain.ShoppingList, error) {
	if from == "" || to == "" || from > to {
		return nil, domain.ErrInvalidPlanRange
	}
	amount := 400.0
	return &domain.ShoppingList{
		From: from,
		To:   to,
		Items: []domain.ShoppingListItem{
			{Name: "Mehl", Unit: "g", Amount: &amount, Recipes: []string{"Apfelkuchen"}},
		},
	}, nil
}

func TestMealPlanHandler_AddEntry_OK(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body := strings.NewReader(`{"recipe_id":"recipe-1","date":"2025-03-10","slot":"dinner","servings":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mealplan", body)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.AddEntry(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var entry domain.MealPlanEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if entry.Slot != domain.SlotDinner {
		t.Fatalf("expected slot dinner, got %s", entry.Slot)
	}
	if entry.Servings != 2 {
		t.Fatalf("expected servings 2, got %d", entry.Servings)
	}
}

func TestMealPlanHandler_AddEntry_BadDate(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body := strings.NewReader(`{"recipe_id":"recipe-1","date":"next tuesday","slot":"dinner"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mealplan", body)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.AddEntry(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "date") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestMealPlanHandler_AddEntry_RecipeNotFound(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	body := strings.NewReader(`{"recipe_id":"missing","date":"2025-03-10","slot":"lunch"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mealplan", body)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.AddEntry(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestMealPlanHandler_GetPlan_InvalidRange(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mealplan?from=2025-03-10", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.GetPlan(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestMealPlanHandler_GetPlan_EmptyIsArray(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mealplan?from=2025-03-10&to=2025-03-16", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.GetPlan(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}

func TestMealPlanHandler_RemoveEntry_NotFound(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/mealplan/missing", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/mealplan/{id}", handler.RemoveEntry).Methods(http.MethodDelete)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestMealPlanHandler_GetShoppingList_OK(t *testing.T) {
	svc := NewMockMealPlanService()
	handler := NewMealPlanHandler(svc, NewMockHandlerLogger())
	user := &domain.SupabaseUser{ID: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mealplan/shopping-list?from=2025-03-10&to=2025-03-16", nil)
	req = createContextWithUser(req, user)
	req = createContextWithToken(req, "token")

	rr := httptest.NewRecorder()
	handler.GetShoppingList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var list domain.ShoppingList
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Name != "Mehl" {
		t.Fatalf("unexpected shopping list: %+v", list)
	}
}
