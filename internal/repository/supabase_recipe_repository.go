package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recipe-box-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// RecipeRepository implements the domain.RecipeRepository interface on
// Supabase. All reads and writes go through a per-request client carrying
// the user's token so row-level security applies.
type RecipeRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewRecipeRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.RecipeRepository {
	return &RecipeRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Create inserts a new recipe row.
func (r *RecipeRepository) Create(recipe *domain.Recipe, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"id":           recipe.ID,
		"user_id":      recipe.UserID,
		"title":        recipe.Title,
		"ingredients":  jsonbValue(recipe.Ingredients, "[]"),
		"instructions": jsonbValue(recipe.Instructions, "[]"),
		"confidence":   jsonbValue(recipe.Confidence, "{}"),
		"servings":     recipe.Servings,
		"pdf_path":     recipe.PDFPath,
		"created_at":   recipe.CreatedAt,
		"updated_at":   recipe.UpdatedAt,
	}
	if recipe.Nutrition != nil {
		row["nutrition"] = jsonbValue(recipe.Nutrition, "{}")
	}
	if recipe.PrepTime != nil {
		row["prep_time"] = *recipe.PrepTime
	}
	if recipe.CookTime != nil {
		row["cook_time"] = *recipe.CookTime
	}

	_, _, err = client.From("recipes").Insert(row, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert recipe in Supabase", err,
			"recipe_id", recipe.ID,
			"user_id", recipe.UserID,
		)
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	r.logger.Info("Recipe created",
		"id", recipe.ID,
		"user_id", recipe.UserID,
	)

	return nil
}

// GetByID retrieves a recipe by ID.
func (r *RecipeRepository) GetByID(id string, token string) (*domain.Recipe, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("recipes").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrRecipeNotFound
	}

	row := rows[0]

	if userID := getString(row, "user_id"); userID != "" {
		if favIDs, favErr := r.favoriteIDsByUser(userID, token); favErr == nil {
			row["is_favorite"] = favIDs[id]
		}
	}
	if tags, tagErr := r.tagsForRecipe(id, token); tagErr == nil {
		row["tags"] = tags
	}

	return r.mapToRecipe(row)
}

// GetByUserID retrieves all recipes for a user. Heavy JSONB columns are
// included; listings are small enough here that a slim projection is not
// worth a second query per recipe.
func (r *RecipeRepository) GetByUserID(userID string, token string) ([]*domain.Recipe, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("recipes").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	var rowsData []map[string]interface{}
	if err := json.Unmarshal(data, &rowsData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	favIDs, favErr := r.favoriteIDsByUser(userID, token)
	if favErr != nil {
		r.logger.Warn("Failed to fetch favorites for user", "error", favErr, "user_id", userID)
	}

	var recipes []*domain.Recipe
	for _, row := range rowsData {
		if favErr == nil {
			if id := getString(row, "id"); id != "" {
				row["is_favorite"] = favIDs[id]
			}
		}
		recipe, err := r.mapToRecipe(row)
		if err != nil {
			r.logger.Error("Failed to map recipe", err, "recipe_id", row["id"])
			continue
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// Update writes the editable recipe columns.
func (r *RecipeRepository) Update(recipe *domain.Recipe, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := map[string]interface{}{
		"title":        recipe.Title,
		"ingredients":  jsonbValue(recipe.Ingredients, "[]"),
		"instructions": jsonbValue(recipe.Instructions, "[]"),
		"confidence":   jsonbValue(recipe.Confidence, "{}"),
		"servings":     recipe.Servings,
		"updated_at":   recipe.UpdatedAt,
	}
	if recipe.Nutrition != nil {
		row["nutrition"] = jsonbValue(recipe.Nutrition, "{}")
	} else {
		row["nutrition"] = nil
	}
	if recipe.PrepTime != nil {
		row["prep_time"] = *recipe.PrepTime
	} else {
		row["prep_time"] = nil
	}
	if recipe.CookTime != nil {
		row["cook_time"] = *recipe.CookTime
	} else {
		row["cook_time"] = nil
	}

	_, _, err = client.From("recipes").
		Update(row, "", "").
		Eq("id", recipe.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if err := r.replaceRecipeTags(recipe, client); err != nil {
		r.logger.Warn("Failed to update recipe tags", "error", err, "recipe_id", recipe.ID)
	}

	return nil
}

// Delete removes a recipe row.
func (r *RecipeRepository) Delete(id string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err = client.From("recipes").
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	return nil
}

// Search filters a user's recipes by title and ingredient names. Postgres
// full-text search is not set up, so filtering happens in memory over the
// user's rows, which stays cheap at personal-collection sizes.
func (r *RecipeRepository) Search(userID, query string, token string) ([]*domain.Recipe, error) {
	recipes, err := r.GetByUserID(userID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}

	queryLower := strings.ToLower(query)
	var matches []*domain.Recipe
	for _, recipe := range recipes {
		if strings.Contains(strings.ToLower(recipe.Title), queryLower) {
			matches = append(matches, recipe)
			continue
		}
		for _, ing := range recipe.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), queryLower) {
				matches = append(matches, recipe)
				break
			}
		}
	}

	return matches, nil
}

// GetTagsByUserID retrieves all tag names for a user from the user_tags table.
func (r *RecipeRepository) GetTagsByUserID(userID string, token string) ([]string, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("user_tags").
		Select("name", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := getString(row, "name"); name != "" {
			tags = append(tags, name)
		}
	}

	return tags, nil
}

// CreateTag creates a new tag for a user in the user_tags table.
func (r *RecipeRepository) CreateTag(userID string, tagName string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	existing, _, err := client.From("user_tags").
		Select("id", "", false).
		Eq("user_id", userID).
		Eq("name", tagName).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to check existing tag: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(existing, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal existing tags: %w", err)
	}
	if len(rows) > 0 {
		return domain.ErrTagAlreadyExists
	}

	row := map[string]interface{}{
		"user_id": userID,
		"name":    tagName,
	}
	_, _, err = client.From("user_tags").
		Insert(row, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}

	r.logger.Info("Tag created", "user_id", userID, "tag_name", tagName)
	return nil
}

// DeleteTag deletes a user's tag and its recipe relationships.
func (r *RecipeRepository) DeleteTag(userID string, tagName string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	tagData, _, err := client.From("user_tags").
		Select("id", "", false).
		Eq("user_id", userID).
		Eq("name", tagName).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to find tag: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(tagData, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal tag data: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrTagNotFound
	}

	tagID := getString(rows[0], "id")
	if tagID == "" {
		return domain.ErrTagNotFound
	}

	// CASCADE covers this, but being explicit keeps orphan rows out even
	// when the constraint is missing.
	_, _, err = client.From("recipe_tags").
		Delete("", "").
		Eq("tag_id", tagID).
		Execute()
	if err != nil {
		r.logger.Warn("Failed to delete recipe_tag relationships", "error", err, "tag_id", tagID)
	}

	_, _, err = client.From("user_tags").
		Delete("", "").
		Eq("id", tagID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	r.logger.Info("Tag deleted", "user_id", userID, "tag_name", tagName)
	return nil
}

// SetFavorite inserts/deletes the favorite relationship for a (user, recipe).
func (r *RecipeRepository) SetFavorite(userID string, recipeID string, isFavorite bool, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	if isFavorite {
		row := map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		}
		// Insert is idempotent on the (user_id, recipe_id) PK; a duplicate
		// insert means the flag is already set.
		_, _, err = client.From("recipe_favorites").Insert(row, false, "", "", "").Execute()
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
				strings.Contains(strings.ToLower(err.Error()), "already exists") {
				return nil
			}
			return fmt.Errorf("failed to set favorite: %w", err)
		}
		return nil
	}

	_, _, err = client.From("recipe_favorites").
		Delete("", "").
		Eq("user_id", userID).
		Eq("recipe_id", recipeID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to unset favorite: %w", err)
	}
	return nil
}

// favoriteIDsByUser returns the set of recipe IDs the user favorited.
func (r *RecipeRepository) favoriteIDsByUser(userID string, token string) (map[string]bool, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("recipe_favorites").
		Select("recipe_id", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(rows))
	for _, row := range rows {
		if id := getString(row, "recipe_id"); id != "" {
			set[id] = true
		}
	}
	return set, nil
}

// tagsForRecipe resolves the tag names attached to one recipe.
func (r *RecipeRepository) tagsForRecipe(recipeID string, token string) ([]string, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From("recipe_tags").
		Select("tag_id", "", false).
		Eq("recipe_id", recipeID).
		Execute()
	if err != nil {
		return nil, err
	}

	var relRows []map[string]interface{}
	if err := json.Unmarshal(data, &relRows); err != nil {
		return nil, err
	}

	var tags []string
	for _, rel := range relRows {
		tagID := getString(rel, "tag_id")
		if tagID == "" {
			continue
		}
		tagData, _, err := client.From("user_tags").
			Select("name", "", false).
			Eq("id", tagID).
			Execute()
		if err != nil {
			continue
		}
		var tagRows []map[string]interface{}
		if err := json.Unmarshal(tagData, &tagRows); err != nil || len(tagRows) == 0 {
			continue
		}
		if name := getString(tagRows[0], "name"); name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// replaceRecipeTags rewrites the recipe_tags relationships to match
// recipe.Tags. Unknown tag names are skipped; tags are created through
// CreateTag, not implicitly here.
func (r *RecipeRepository) replaceRecipeTags(recipe *domain.Recipe, client *supabase.Client) error {
	_, _, err := client.From("recipe_tags").
		Delete("", "").
		Eq("recipe_id", recipe.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}

	for _, tagName := range recipe.Tags {
		if tagName == "" {
			continue
		}
		tagData, _, err := client.From("user_tags").
			Select("id", "", false).
			Eq("user_id", recipe.UserID).
			Eq("name", tagName).
			Execute()
		if err != nil {
			r.logger.Warn("Failed to look up tag", "error", err, "tag_name", tagName)
			continue
		}
		var tagRows []map[string]interface{}
		if err := json.Unmarshal(tagData, &tagRows); err != nil || len(tagRows) == 0 {
			r.logger.Warn("Skipping unknown tag on recipe", "tag_name", tagName, "recipe_id", recipe.ID)
			continue
		}
		tagID := getString(tagRows[0], "id")
		if tagID == "" {
			continue
		}
		rel := map[string]interface{}{
			"recipe_id": recipe.ID,
			"tag_id":    tagID,
		}
		if _, _, err := client.From("recipe_tags").Insert(rel, false, "", "", "").Execute(); err != nil {
			r.logger.Warn("Failed to attach tag to recipe", "error", err, "tag_name", tagName)
		}
	}

	return nil
}

// jsonbValue round-trips a value through JSON so the Supabase client stores
// it as JSONB, falling back to the given literal on marshal failure.
func jsonbValue(v interface{}, fallback string) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte(fallback)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		_ = json.Unmarshal([]byte(fallback), &out)
	}
	return out
}

// mapToRecipe converts a response row to a Recipe struct.
func (r *RecipeRepository) mapToRecipe(row map[string]interface{}) (*domain.Recipe, error) {
	recipe := &domain.Recipe{
		ID:       getString(row, "id"),
		UserID:   getString(row, "user_id"),
		Title:    getString(row, "title"),
		Servings: getString(row, "servings"),
		PDFPath:  getString(row, "pdf_path"),
	}

	if v, ok := row["prep_time"]; ok && v != nil {
		n := getInt(row, "prep_time")
		recipe.PrepTime = &n
	}
	if v, ok := row["cook_time"]; ok && v != nil {
		n := getInt(row, "cook_time")
		recipe.CookTime = &n
	}

	if err := decodeJSONB(row, "ingredients", &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if err := decodeJSONB(row, "instructions", &recipe.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	if err := decodeJSONB(row, "confidence", &recipe.Confidence); err != nil {
		return nil, fmt.Errorf("failed to decode confidence: %w", err)
	}
	if v, ok := row["nutrition"]; ok && v != nil {
		var nutrition domain.Nutrition
		if err := decodeJSONB(row, "nutrition", &nutrition); err == nil {
			recipe.Nutrition = &nutrition
		}
	}

	if val, ok := row["is_favorite"]; ok && val != nil {
		if b, ok := val.(bool); ok {
			recipe.IsFavorite = b
		}
	}
	if val, ok := row["tags"]; ok && val != nil {
		if tags, ok := val.([]string); ok {
			recipe.Tags = tags
		}
	}

	if createdAt := getString(row, "created_at"); createdAt != "" {
		if t, err := parseTimestamp(createdAt); err == nil {
			recipe.CreatedAt = t
		}
	}
	if updatedAt := getString(row, "updated_at"); updatedAt != "" {
		if t, err := parseTimestamp(updatedAt); err == nil {
			recipe.UpdatedAt = t
		}
	}

	return recipe, nil
}

// decodeJSONB decodes a column that may arrive as a JSON string or as an
// already-decoded object/array.
func decodeJSONB(row map[string]interface{}, key string, out interface{}) error {
	val, ok := row[key]
	if !ok || val == nil {
		return nil
	}
	if s, ok := val.(string); ok {
		return json.Unmarshal([]byte(s), out)
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Helper functions for type conversion
func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
