package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"recipe-box-server/internal/domain"
	"recipe-box-server/internal/extract"

	"github.com/google/uuid"
)

// ExtractorFactory returns the extractor for a user's locale. The locale
// picks the lexicon; an empty or unknown locale falls back to German.
type ExtractorFactory func(locale string) domain.RecipeExtractor

// DefaultExtractorFactory builds extractors on the real pipeline.
func DefaultExtractorFactory(logger domain.Logger) ExtractorFactory {
	return func(locale string) domain.RecipeExtractor {
		return extract.NewExtractor(extract.ForLocale(locale), logger)
	}
}

type recipeService struct {
	repo          domain.RecipeRepository
	storage       StorageService
	prefs         domain.UserPreferencesRepository
	extractors    ExtractorFactory
	logger        domain.Logger
	maxFileSize   int64
	defaultLocale string
}

func NewRecipeService(
	repo domain.RecipeRepository,
	storage StorageService,
	prefs domain.UserPreferencesRepository,
	extractors ExtractorFactory,
	logger domain.Logger,
	maxFileSize int64,
	defaultLocale string,
) domain.RecipeService {
	return &recipeService{
		repo:          repo,
		storage:       storage,
		prefs:         prefs,
		extractors:    extractors,
		logger:        logger,
		maxFileSize:   maxFileSize,
		defaultLocale: defaultLocale,
	}
}

func (s *recipeService) GetRecipesByUserID(userID string, token string) ([]*domain.RecipeData, error) {
	recipes, err := s.repo.GetByUserID(userID, token)
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *recipeService) GetRecipe(recipeID string, token string) (*domain.RecipeData, error) {
	recipe, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) DeleteRecipe(userID, recipeID string, token string) error {
	recipe, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return domain.ErrAccessDenied
	}
	return s.repo.Delete(recipeID, token)
}

func (s *recipeService) SearchRecipes(userID, query string, token string) ([]*domain.RecipeData, error) {
	recipes, err := s.repo.Search(userID, query, token)
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *recipeService) SetFavorite(userID string, recipeID string, isFavorite bool, token string) error {
	return s.repo.SetFavorite(userID, recipeID, isFavorite, token)
}

func (s *recipeService) GetRecipeTags(userID string, token string) ([]string, error) {
	tags, err := s.repo.GetTagsByUserID(userID, token)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *recipeService) CreateTag(userID string, tagName string, token string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	return s.repo.CreateTag(userID, tagName, token)
}

func (s *recipeService) DeleteTag(userID string, tagName string, token string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	return s.repo.DeleteTag(userID, tagName, token)
}

func (s *recipeService) UpdateRecipe(
	userID string,
	recipeID string,
	update *domain.RecipeUpdate,
	token string,
) (*domain.RecipeData, error) {
	recipe, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, domain.ErrAccessDenied
	}

	if update.Title != nil {
		recipe.Title = *update.Title
	}
	if update.Ingredients != nil {
		recipe.Ingredients = *update.Ingredients
	}
	if update.Instructions != nil {
		recipe.Instructions = *update.Instructions
	}
	if update.Nutrition != nil {
		recipe.Nutrition = update.Nutrition
	}
	if update.Servings != nil {
		recipe.Servings = *update.Servings
	}
	if update.PrepTime != nil {
		recipe.PrepTime = update.PrepTime
	}
	if update.CookTime != nil {
		recipe.CookTime = update.CookTime
	}
	if update.Tags != nil {
		recipe.Tags = *update.Tags
	}

	recipe.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(recipe, token); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		// If the re-fetch fails, return the in-memory copy we just wrote.
		return recipe, nil
	}
	return updated, nil
}

// ScaleRecipe returns a scaled copy of the recipe without persisting it.
// Ingredient amounts are multiplied by target/base servings; lines without
// a parsed amount pass through unchanged.
func (s *recipeService) ScaleRecipe(recipeID string, servings int, token string) (*domain.RecipeData, error) {
	if servings <= 0 {
		return nil, domain.ErrInvalidServings
	}

	recipe, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		return nil, err
	}

	base := baseServings(recipe.Servings)
	if base <= 0 {
		return nil, domain.ErrInvalidServings
	}

	factor := float64(servings) / float64(base)

	scaled := *recipe
	scaled.Servings = strconv.Itoa(servings)
	scaled.Ingredients = make([]domain.ParsedIngredient, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		out := ing
		if ing.Amount != nil {
			v := *ing.Amount * factor
			out.Amount = &v
		}
		if ing.AmountRange != nil {
			out.AmountRange = &domain.AmountRange{
				Min: ing.AmountRange.Min * factor,
				Max: ing.AmountRange.Max * factor,
			}
		}
		scaled.Ingredients[i] = out
	}

	return &scaled, nil
}

// baseServings reads the lower bound of a stored servings value ("4", "4-6").
func baseServings(servings string) int {
	s := strings.TrimSpace(servings)
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (s *recipeService) DownloadPDF(ctx context.Context, userID, recipeID string, token string) (io.ReadCloser, string, error) {
	recipe, err := s.repo.GetByID(recipeID, token)
	if err != nil {
		return nil, "", err
	}
	if recipe.UserID != userID {
		return nil, "", domain.ErrAccessDenied
	}
	if recipe.PDFPath == "" {
		return nil, "", domain.ErrPDFNotFound
	}

	rc, err := s.storage.Download(ctx, recipe.PDFPath)
	if err != nil {
		return nil, "", err
	}

	name := filepath.Base(recipe.PDFPath)
	return rc, name, nil
}

func (s *recipeService) Upload(
	ctx context.Context,
	userID string,
	file io.Reader,
	token string,
	originalName string,
) (*domain.RecipeData, error) {

	fileBytes, err := s.readLimited(file)
	if err != nil {
		return nil, err
	}

	locale := s.defaultLocale
	if prefs, err := s.prefs.GetPreferences(userID, token); err == nil && prefs != nil && prefs.Locale != "" {
		locale = prefs.Locale
	}

	extracted, err := s.extractors(locale).Extract(fileBytes)
	if err != nil {
		if errors.Is(err, extract.ErrUnreadablePDF) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFile, err)
		}
		return nil, err
	}

	recipeID := uuid.New().String()
	// Path is relative to the bucket, not prefixed with its name.
	path := fmt.Sprintf("%s/%s.pdf", userID, recipeID)

	if err := s.storage.Upload(ctx, path, bytes.NewReader(fileBytes)); err != nil {
		return nil, err
	}

	title := extracted.Title
	if title == "" {
		title = titleFromFilename(originalName)
	}

	now := time.Now().UTC()
	recipe := &domain.Recipe{
		ID:           recipeID,
		UserID:       userID,
		Title:        title,
		Ingredients:  extracted.Ingredients,
		Instructions: extracted.Instructions,
		Nutrition:    extracted.Nutrition,
		Servings:     extracted.Servings,
		PDFPath:      path,
		Confidence:   extracted.Confidence,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(recipe, token); err != nil {
		return nil, err
	}

	s.logger.Info("recipe uploaded",
		"recipe_id", recipeID,
		"user_id", userID,
		"ingredients", len(recipe.Ingredients),
		"steps", len(recipe.Instructions),
		"title_confidence", recipe.Confidence.Title,
	)

	return recipe, nil
}

// Preview extracts without persisting anything. It runs with the configured
// default locale since no user context is attached.
func (s *recipeService) Preview(ctx context.Context, file io.Reader) (*domain.ExtractedRecipe, error) {
	fileBytes, err := s.readLimited(file)
	if err != nil {
		return nil, err
	}
	extracted, err := s.extractors(s.defaultLocale).Extract(fileBytes)
	if err != nil {
		if errors.Is(err, extract.ErrUnreadablePDF) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFile, err)
		}
		return nil, err
	}
	return extracted, nil
}

func (s *recipeService) readLimited(file io.Reader) ([]byte, error) {
	fileBytes, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(fileBytes)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidFile, s.maxFileSize)
	}
	return fileBytes, nil
}

// titleFromFilename falls back to the upload's file name, cleaned up.
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return "Untitled recipe"
	}
	return base
}
