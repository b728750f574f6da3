package service

import (
	"sort"
	"strings"
	"time"

	"recipe-box-server/internal/domain"

	"github.com/google/uuid"
)

const planDateLayout = "2006-01-02"

type mealPlanService struct {
	repo    domain.MealPlanRepository
	recipes domain.RecipeRepository
	logger  domain.Logger
}

func NewMealPlanService(
	repo domain.MealPlanRepository,
	recipes domain.RecipeRepository,
	logger domain.Logger,
) domain.MealPlanService {
	return &mealPlanService{
		repo:    repo,
		recipes: recipes,
		logger:  logger,
	}
}

func (s *mealPlanService) AddEntry(
	userID string,
	recipeID string,
	date string,
	slot domain.MealSlot,
	servings int,
	token string,
) (*domain.MealPlanEntry, error) {
	if _, err := time.Parse(planDateLayout, date); err != nil {
		return nil, &domain.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	switch slot {
	case domain.SlotBreakfast, domain.SlotLunch, domain.SlotDinner:
	default:
		return nil, &domain.ValidationError{Field: "slot", Message: "must be breakfast, lunch or dinner"}
	}
	if servings < 0 {
		return nil, domain.ErrInvalidServings
	}

	recipe, err := s.recipes.GetByID(recipeID, token)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, domain.ErrAccessDenied
	}

	entry := &domain.MealPlanEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		RecipeID:  recipeID,
		Date:      date,
		Slot:      slot,
		Servings:  servings,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(entry, token); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *mealPlanService) GetPlan(userID, from, to string, token string) ([]*domain.MealPlanEntry, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.GetByUserAndRange(userID, from, to, token)
}

func (s *mealPlanService) RemoveEntry(userID, entryID string, token string) error {
	// Row-level security scopes the delete to the token's user.
	return s.repo.Delete(entryID, token)
}

// BuildShoppingList aggregates the ingredients of every planned recipe in
// the range. Amounts are summed per (name, unit) pair; lines without a
// parsed amount are still listed so nothing silently disappears.
func (s *mealPlanService) BuildShoppingList(userID, from, to string, token string) (*domain.ShoppingList, error) {
	entries, err := s.GetPlan(userID, from, to, token)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*domain.ShoppingListItem)

	for _, entry := range entries {
		recipe, err := s.recipes.GetByID(entry.RecipeID, token)
		if err != nil {
			s.logger.Warn("shopping list skipping unavailable recipe",
				"recipe_id", entry.RecipeID, "entry_id", entry.ID)
			continue
		}

		factor := entryFactor(entry, recipe)

		for _, ing := range recipe.Ingredients {
			if ing.IsGroupHeader {
				continue
			}

			key := strings.ToLower(ing.Name) + "|" + ing.Unit
			item, ok := buckets[key]
			if !ok {
				item = &domain.ShoppingListItem{Name: ing.Name, Unit: ing.Unit}
				buckets[key] = item
			}

			if amount, ok := ingredientAmount(ing); ok {
				if item.Amount == nil {
					item.Amount = new(float64)
				}
				*item.Amount += amount * factor
			}

			if !containsString(item.Recipes, recipe.Title) {
				item.Recipes = append(item.Recipes, recipe.Title)
			}
		}
	}

	items := make([]domain.ShoppingListItem, 0, len(buckets))
	for _, item := range buckets {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		}
		return items[i].Unit < items[j].Unit
	})

	return &domain.ShoppingList{From: from, To: to, Items: items}, nil
}

func validateRange(from, to string) error {
	start, err := time.Parse(planDateLayout, from)
	if err != nil {
		return domain.ErrInvalidPlanRange
	}
	end, err := time.Parse(planDateLayout, to)
	if err != nil {
		return domain.ErrInvalidPlanRange
	}
	if end.Before(start) {
		return domain.ErrInvalidPlanRange
	}
	return nil
}

// entryFactor scales a recipe's amounts to the entry's serving override.
// Without an override, or when the recipe's own servings are unparsable,
// the amounts pass through unscaled.
func entryFactor(entry *domain.MealPlanEntry, recipe *domain.Recipe) float64 {
	if entry.Servings <= 0 {
		return 1
	}
	base := baseServings(recipe.Servings)
	if base <= 0 {
		return 1
	}
	return float64(entry.Servings) / float64(base)
}

// ingredientAmount flattens a parsed amount to a single number, taking the
// lower bound of ranges.
func ingredientAmount(ing domain.ParsedIngredient) (float64, bool) {
	if ing.Amount != nil {
		return *ing.Amount, true
	}
	if ing.AmountRange != nil {
		return ing.AmountRange.Min, true
	}
	return 0, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
