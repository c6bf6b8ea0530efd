// api/router.go
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Annany2002/recipe-backend/api/handlers"
	"github.com/Annany2002/recipe-backend/api/middleware"
	"github.com/Annany2002/recipe-backend/api/models"
	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/enrichment"
)

// SetupRouter initializes the Gin router and registers the route table.
func SetupRouter(db *sql.DB, cfg *config.Config, titles enrichment.TitleLookup) *gin.Engine {
	models.RegisterValidators()

	router := gin.Default() // Includes Logger and Recovery

	router.Use(middleware.RequestID())
	router.Use(corsMiddleware(cfg))
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst)))
	// Runs after the handlers so it can turn attached errors into responses.
	router.Use(middleware.ErrorHandler())

	userHandler := handlers.NewUserHandler(db, cfg, titles)
	recipeHandler := handlers.NewRecipeHandler(db)
	ingredientHandler := handlers.NewIngredientHandler(db)
	requireAuth := middleware.AuthMiddleware(db, cfg)

	// --- Operational Routes ---
	router.GET("/ping", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Public Routes ---
	router.POST("/users", userHandler.Signup)
	router.POST("/users/login", userHandler.Login)
	router.GET("/recipes", recipeHandler.ListRecipes)
	router.GET("/recipes/ingredients/minmax", ingredientHandler.RecipeByIngredientCount)

	// --- Protected Routes ---
	protected := router.Group("/")
	protected.Use(requireAuth)
	{
		protected.POST("/users/logout", userHandler.Logout)
		protected.POST("/users/logoutAll", userHandler.LogoutAll)
		protected.GET("/users/me", userHandler.Me)
		protected.PATCH("/users/me", userHandler.UpdateMe)
		protected.DELETE("/users/me", userHandler.DeleteMe)

		protected.POST("/recipes", recipeHandler.CreateRecipe)
		protected.GET("/recipes/me", recipeHandler.ListMyRecipes)
		protected.GET("/recipes/:id", recipeHandler.GetRecipe)
		protected.PATCH("/recipe/:id", recipeHandler.UpdateRecipe)
		protected.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
		protected.GET("/recipes/:id/ingredients", recipeHandler.ListIngredients)

		protected.POST("/recipes/:id/ingredients", ingredientHandler.AddIngredient)
		protected.DELETE("/recipes/:id/ingredients/:ingredientId", ingredientHandler.DeleteIngredient)
		protected.POST("/ingredients/:id/add", ingredientHandler.AddIngredients)
		protected.GET("/ingredients/top", ingredientHandler.TopIngredients)
		protected.GET("/recipes/ingredients/search", ingredientHandler.SearchRecipes)
	}

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}
