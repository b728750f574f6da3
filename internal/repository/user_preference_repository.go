package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"recipe-box-server/internal/domain"
)

// UserPreferencesRepository implements the domain.UserPreferencesRepository interface
type UserPreferencesRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewUserPreferencesRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.UserPreferencesRepository {
	return &UserPreferencesRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetPreferences retrieves user preferences from Supabase
func (r *UserPreferencesRepository) GetPreferences(userID string, token string) (*domain.UserPreferences, error) {
	// Use client with token for RLS policies
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("user_preferences").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		// Return default preferences if none exist
		return &domain.UserPreferences{
			UserID:          userID,
			Locale:          "de",
			DefaultServings: 4,
		}, nil
	}

	return r.mapToPreferences(rows[0]), nil
}

// UpdatePreferences updates or creates user preferences in Supabase
func (r *UserPreferencesRepository) UpdatePreferences(prefs *domain.UserPreferences, token string) error {
	// Use client with token for RLS policies
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"user_id":          prefs.UserID,
		"locale":           prefs.Locale,
		"default_servings": prefs.DefaultServings,
		// account_disabled is owned by the admin endpoint and never written
		// here; updated_at is handled by the database trigger.
	}

	// Use upsert to insert or update
	_, _, err = client.From("user_preferences").
		Upsert(row, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	r.logger.Info("Preferences updated successfully", "user_id", prefs.UserID)
	return nil
}

// mapToPreferences converts a response row to a UserPreferences struct
func (r *UserPreferencesRepository) mapToPreferences(row map[string]interface{}) *domain.UserPreferences {
	prefs := &domain.UserPreferences{
		UserID:          getString(row, "user_id"),
		Locale:          getString(row, "locale"),
		DefaultServings: getInt(row, "default_servings"),
		AccountDisabled: getBool(row, "account_disabled"),
		UpdatedAt:       time.Now(),
	}

	// Backfill defaults for older rows.
	if prefs.Locale == "" {
		prefs.Locale = "de"
	}
	if prefs.DefaultServings <= 0 {
		prefs.DefaultServings = 4
	}

	if updatedAt := getString(row, "updated_at"); updatedAt != "" {
		if t, err := parseTimestamp(updatedAt); err == nil {
			prefs.UpdatedAt = t
		}
	}

	return prefs
}

func getBool(data map[string]interface{}, key string) bool {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			return v == "true" || v == "1"
		case float64:
			return v != 0
		case int:
			return v != 0
		case int64:
			return v != 0
		}
	}
	return false
}
