package domain

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	CreatedAt    string
	UpdatedAt    string
}

// UserPreferences represents a user's app settings. Locale selects the
// extraction lexicon used for that user's uploads.
type UserPreferences struct {
	UserID          string    `json:"user_id"`
	Locale          string    `json:"locale"`
	DefaultServings int       `json:"default_servings"`
	AccountDisabled bool      `json:"account_disabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UserPreferencesService interface {
	GetPreferences(userID string, token string) (*UserPreferences, error)
	UpdatePreferences(userID string, prefs *UserPreferences, token string) error
}

type UserPreferencesRepository interface {
	GetPreferences(userID string, token string) (*UserPreferences, error)
	UpdatePreferences(prefs *UserPreferences, token string) error
}
