package service

import (
	"time"

	"recipe-box-server/internal/domain"
)

type userPreferencesService struct {
	userPreferencesRepo domain.UserPreferencesRepository
	logger              domain.Logger
}

func NewUserPreferencesService(
	userPreferencesRepo domain.UserPreferencesRepository,
	logger domain.Logger,
) domain.UserPreferencesService {
	return &userPreferencesService{
		userPreferencesRepo: userPreferencesRepo,
		logger:              logger,
	}
}

// GetPreferences retrieves user preferences
func (s *userPreferencesService) GetPreferences(userID string, token string) (*domain.UserPreferences, error) {
	return s.userPreferencesRepo.GetPreferences(userID, token)
}

// UpdatePreferences updates user preferences
func (s *userPreferencesService) UpdatePreferences(userID string, prefs *domain.UserPreferences, token string) error {
	if prefs.DefaultServings < 0 {
		return domain.ErrInvalidServings
	}
	prefs.UserID = userID
	prefs.UpdatedAt = time.Now()
	return s.userPreferencesRepo.UpdatePreferences(prefs, token)
}
