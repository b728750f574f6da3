package domain

import "github.com/supabase-community/supabase-go"

type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)

	// UpdateUserMetadata persists user_metadata changes for the token's user.
	UpdateUserMetadata(token string, data map[string]interface{}) (*SupabaseUser, error)

	GetClientWithToken(token string) (*supabase.Client, error)
}
