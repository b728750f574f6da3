package domain

import "errors"

// Domain errors
var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrEntryNotFound     = errors.New("meal plan entry not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidFile       = errors.New("invalid file")
	ErrTagNotFound       = errors.New("tag not found")
	ErrTagAlreadyExists  = errors.New("tag already exists")
	ErrInvalidServings   = errors.New("invalid servings")
	ErrInvalidPlanRange  = errors.New("invalid plan date range")
	ErrPDFNotFound       = errors.New("pdf not found")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
