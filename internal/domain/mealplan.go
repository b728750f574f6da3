package domain

import "time"

// MealSlot identifies the meal of the day an entry is planned for.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// MealPlanEntry schedules one recipe on one day for a user.
type MealPlanEntry struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	RecipeID string   `json:"recipe_id"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Slot     MealSlot `json:"slot"`
	// Servings overrides the recipe's own serving count for this entry.
	Servings int `json:"servings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ShoppingListItem is one aggregated ingredient over a plan range.
// Amounts are only summed for matching canonical units; otherwise the
// occurrences are listed separately.
type ShoppingListItem struct {
	Name    string   `json:"name"`
	Unit    string   `json:"unit,omitempty"`
	Amount  *float64 `json:"amount,omitempty"`
	Recipes []string `json:"recipes"` // titles the item came from
}

// ShoppingList is the aggregated result for a date range.
type ShoppingList struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Items []ShoppingListItem `json:"items"`
}

// MealPlanRepository defines persistence operations for meal plan entries.
type MealPlanRepository interface {
	Create(entry *MealPlanEntry, token string) error
	GetByUserAndRange(userID, from, to string, token string) ([]*MealPlanEntry, error)
	Delete(id string, token string) error
}

// MealPlanService defines the use-case operations for meal planning.
type MealPlanService interface {
	AddEntry(userID string, recipeID string, date string, slot MealSlot, servings int, token string) (*MealPlanEntry, error)
	GetPlan(userID, from, to string, token string) ([]*MealPlanEntry, error)
	RemoveEntry(userID, entryID string, token string) error
	BuildShoppingList(userID, from, to string, token string) (*ShoppingList, error)
}
