package repository

import (
	"encoding/json"
	"fmt"

	"recipe-box-server/internal/domain"
)

// MealPlanRepository implements the domain.MealPlanRepository interface
type MealPlanRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewMealPlanRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.MealPlanRepository {
	return &MealPlanRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Create inserts a meal plan entry.
func (r *MealPlanRepository) Create(entry *domain.MealPlanEntry, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"id":         entry.ID,
		"user_id":    entry.UserID,
		"recipe_id":  entry.RecipeID,
		"date":       entry.Date,
		"slot":       string(entry.Slot),
		"created_at": entry.CreatedAt,
	}
	if entry.Servings > 0 {
		row["servings"] = entry.Servings
	}

	_, _, err = client.From("meal_plan_entries").Insert(row, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create meal plan entry: %w", err)
	}

	r.logger.Info("Meal plan entry created",
		"id", entry.ID,
		"user_id", entry.UserID,
		"date", entry.Date,
	)

	return nil
}

// GetByUserAndRange retrieves a user's entries with date in [from, to].
func (r *MealPlanRepository) GetByUserAndRange(userID, from, to string, token string) ([]*domain.MealPlanEntry, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("meal_plan_entries").
		Select("*", "", false).
		Eq("user_id", userID).
		Gte("date", from).
		Lte("date", to).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan entries: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	entries := make([]*domain.MealPlanEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, r.mapToEntry(row))
	}

	return entries, nil
}

// Delete removes a meal plan entry.
func (r *MealPlanRepository) Delete(id string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err = client.From("meal_plan_entries").
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete meal plan entry: %w", err)
	}

	return nil
}

// mapToEntry converts a response row to a MealPlanEntry struct
func (r *MealPlanRepository) mapToEntry(row map[string]interface{}) *domain.MealPlanEntry {
	entry := &domain.MealPlanEntry{
		ID:       getString(row, "id"),
		UserID:   getString(row, "user_id"),
		RecipeID: getString(row, "recipe_id"),
		Date:     getString(row, "date"),
		Slot:     domain.MealSlot(getString(row, "slot")),
		Servings: getInt(row, "servings"),
	}

	if createdAt := getString(row, "created_at"); createdAt != "" {
		if t, err := parseTimestamp(createdAt); err == nil {
			entry.CreatedAt = t
		}
	}

	return entry
}
