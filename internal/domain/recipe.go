package domain

import (
	"context"
	"io"
	"time"
)

// Recipe represents a stored recipe owned by a user.
type Recipe struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Title        string             `json:"title"`
	Ingredients  []ParsedIngredient `json:"ingredients"`
	Instructions []InstructionStep  `json:"instructions"`
	Nutrition    *Nutrition         `json:"nutrition,omitempty"`

	Servings string `json:"servings,omitempty"`
	PrepTime *int   `json:"prep_time,omitempty"` // minutes
	CookTime *int   `json:"cook_time,omitempty"` // minutes

	// PDFPath is the storage object path of the original upload.
	PDFPath string `json:"pdf_path,omitempty"`

	Tags       []string `json:"tags,omitempty"`
	IsFavorite bool     `json:"is_favorite"`

	// Confidence from the extraction run; kept so the UI can keep
	// highlighting low-confidence fields until the user edits them.
	Confidence FieldConfidence `json:"confidence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecipeData is the data transfer representation used by services and handlers.
// Alias to Recipe so they are interchangeable.
type RecipeData = Recipe

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(recipe *Recipe, token string) error
	GetByID(id string, token string) (*Recipe, error)
	GetByUserID(userID string, token string) ([]*Recipe, error)
	Update(recipe *Recipe, token string) error
	Delete(id string, token string) error
	Search(userID, query string, token string) ([]*Recipe, error)
	GetTagsByUserID(userID string, token string) ([]string, error)
	CreateTag(userID string, tagName string, token string) error
	DeleteTag(userID string, tagName string, token string) error

	// Favorites
	SetFavorite(userID string, recipeID string, isFavorite bool, token string) error
}

// RecipeService defines the use-case operations for recipes.
type RecipeService interface {
	GetRecipesByUserID(userID string, token string) ([]*RecipeData, error)
	GetRecipe(recipeID string, token string) (*RecipeData, error)
	DeleteRecipe(userID, recipeID string, token string) error
	SearchRecipes(userID, query string, token string) ([]*RecipeData, error)
	SetFavorite(userID string, recipeID string, isFavorite bool, token string) error
	UpdateRecipe(userID string, recipeID string, update *RecipeUpdate, token string) (*RecipeData, error)
	GetRecipeTags(userID string, token string) ([]string, error)
	CreateTag(userID string, tagName string, token string) error
	DeleteTag(userID string, tagName string, token string) error
	ScaleRecipe(recipeID string, servings int, token string) (*RecipeData, error)
	DownloadPDF(ctx context.Context, userID, recipeID string, token string) (io.ReadCloser, string, error)

	Upload(
		ctx context.Context,
		userID string,
		file io.Reader,
		token string,
		originalName string,
	) (*RecipeData, error)

	// Preview extracts without persisting anything.
	Preview(ctx context.Context, file io.Reader) (*ExtractedRecipe, error)
}

// RecipeUpdate carries the editable fields of a recipe. Nil means unchanged.
type RecipeUpdate struct {
	Title        *string             `json:"title,omitempty"`
	Ingredients  *[]ParsedIngredient `json:"ingredients,omitempty"`
	Instructions *[]InstructionStep  `json:"instructions,omitempty"`
	Nutrition    *Nutrition          `json:"nutrition,omitempty"`
	Servings     *string             `json:"servings,omitempty"`
	PrepTime     *int                `json:"prep_time,omitempty"`
	CookTime     *int                `json:"cook_time,omitempty"`
	Tags         *[]string           `json:"tags,omitempty"`
}
