package config

import (
	"recipe-box-server/internal/domain"
	"recipe-box-server/internal/infra/supabase"
	"recipe-box-server/internal/repository"
	"recipe-box-server/internal/service"
	"recipe-box-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient

	RecipeRepository          domain.RecipeRepository
	MealPlanRepository        domain.MealPlanRepository
	UserPreferencesRepository domain.UserPreferencesRepository

	StorageService         service.StorageService
	RecipeService          domain.RecipeService
	MealPlanService        domain.MealPlanService
	UserPreferencesService domain.UserPreferencesService
	AuthService            domain.AuthService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := supabase.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Failed to initialize Supabase client", err)
	}

	// Initialize repositories
	recipeRepo := repository.NewRecipeRepository(supabaseClient, appLogger)
	mealPlanRepo := repository.NewMealPlanRepository(supabaseClient, appLogger)
	preferencesRepo := repository.NewUserPreferencesRepository(supabaseClient, appLogger)

	// Initialize services
	storageService := service.NewStorageService(
		config.GetSupabaseURL(),
		config.GetSupabaseKey(),
		config.GetStorageBucket(),
	)
	recipeService := service.NewRecipeService(
		recipeRepo,
		storageService,
		preferencesRepo,
		service.DefaultExtractorFactory(appLogger),
		appLogger,
		config.GetMaxFileSize(),
		config.GetDefaultLocale(),
	)
	mealPlanService := service.NewMealPlanService(mealPlanRepo, recipeRepo, appLogger)
	preferencesService := service.NewUserPreferencesService(preferencesRepo, appLogger)
	authService := service.NewAuthService(supabaseClient, appLogger)

	return &Container{
		Config:         config,
		Logger:         appLogger,
		SupabaseClient: supabaseClient,

		RecipeRepository:          recipeRepo,
		MealPlanRepository:        mealPlanRepo,
		UserPreferencesRepository: preferencesRepo,

		StorageService:         storageService,
		RecipeService:          recipeService,
		MealPlanService:        mealPlanService,
		UserPreferencesService: preferencesService,
		AuthService:            authService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
