package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	recipeHandler *RecipeHandler,
	mealPlanHandler *MealPlanHandler,
	preferenceHandler *PreferenceHandler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"recipe-box-server"}`))
	}).Methods("GET")

	// Admin routes are guarded by X-Admin-Secret, not by user auth.
	api.HandleFunc("/admin/users/{id}/account-disabled", adminHandler.SetAccountDisabled).Methods("PUT")

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	// Auth routes (protected)
	protected.HandleFunc("/auth/profile", authHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/auth/validate", authHandler.ValidateToken).Methods("GET")
	protected.HandleFunc("/auth/account", authHandler.RequestAccountDeletion).Methods("DELETE")

	// Recipe routes (protected). Fixed paths are registered before the
	// {id} routes so "search" and "upload" are not captured as ids.
	protected.HandleFunc("/recipes/search", recipeHandler.SearchRecipes).Methods("GET")
	protected.HandleFunc("/recipes/upload", recipeHandler.UploadRecipe).Methods("POST")
	protected.HandleFunc("/recipes/preview", recipeHandler.PreviewRecipe).Methods("POST")
	protected.HandleFunc("/recipes", recipeHandler.GetRecipes).Methods("GET")
	protected.HandleFunc("/recipes/{id}", recipeHandler.GetRecipe).Methods("GET")
	protected.HandleFunc("/recipes/{id}", recipeHandler.UpdateRecipe).Methods("PUT")
	protected.HandleFunc("/recipes/{id}", recipeHandler.DeleteRecipe).Methods("DELETE")
	protected.HandleFunc("/recipes/{id}/scaled", recipeHandler.GetScaledRecipe).Methods("GET")
	protected.HandleFunc("/recipes/{id}/pdf", recipeHandler.DownloadPDF).Methods("GET")
	protected.HandleFunc("/recipes/{id}/favorite", recipeHandler.SetFavorite).Methods("PUT")

	// Tag routes (protected)
	protected.HandleFunc("/tags", recipeHandler.GetTags).Methods("GET")
	protected.HandleFunc("/tags", recipeHandler.CreateTag).Methods("POST")
	protected.HandleFunc("/tags/{name}", recipeHandler.DeleteTag).Methods("DELETE")

	// Meal plan routes (protected)
	protected.HandleFunc("/mealplan/shopping-list", mealPlanHandler.GetShoppingList).Methods("GET")
	protected.HandleFunc("/mealplan", mealPlanHandler.GetPlan).Methods("GET")
	protected.HandleFunc("/mealplan", mealPlanHandler.AddEntry).Methods("POST")
	protected.HandleFunc("/mealplan/{id}", mealPlanHandler.RemoveEntry).Methods("DELETE")

	// Preference routes (protected)
	protected.HandleFunc("/preferences", preferenceHandler.GetPreferences).Methods("GET")
	protected.HandleFunc("/preferences", preferenceHandler.UpdatePreferences).Methods("PUT")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"http://localhost:4173", // SvelteKit preview
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
			"X-Admin-Secret",
		},
		ExposedHeaders: []string{
			"Link",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
