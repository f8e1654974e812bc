package api

import (
	"net/http"
	"recipehub/meal-planner/internal/domain" // Needed for RoleMiddleware
	"recipehub/meal-planner/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth        service.AuthService
	Recipes     service.RecipeStore
	RecipeImage service.RecipeImageService
	Schedule    service.ScheduleService
	Tracker     service.TrackerService
	Saved       service.SavedRecipeService
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	recipeCacheTTL time.Duration,
	services Services,
) {
	authHandler := NewAuthHandler(services.Auth)
	recipeHandler := NewRecipeHandler(services.Recipes, services.RecipeImage, recipeCacheTTL)
	scheduleHandler := NewScheduleHandler(services.Schedule)
	trackerHandler := NewTrackerHandler(services.Tracker)
	savedHandler := NewSavedHandler(services.Saved)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.GetMe)
		protected.PUT("/me", authHandler.UpdateMe)

		// --- Recipe Routes ---
		recipeGroup := protected.Group("/recipes")
		{
			recipeGroup.GET("", recipeHandler.ListRecipes)
			recipeGroup.GET("/categories", recipeHandler.GetCategories)
			recipeGroup.GET("/:id", recipeHandler.GetRecipe)
			recipeGroup.POST("", recipeHandler.CreateRecipe)
			recipeGroup.PUT("/:id", recipeHandler.UpdateRecipe)

			recipeGroup.POST("/:id/image", recipeHandler.RequestImageUpload)
			recipeGroup.PUT("/:id/image", recipeHandler.ConfirmImageUpload)
			recipeGroup.GET("/:id/image", recipeHandler.GetImageURL)
		}

		// --- Meal Planning Routes ---
		protected.GET("/calendar/:year/:month", scheduleHandler.GetCalendar)
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleHandler.GetMeals)
			scheduleGroup.GET("/day", scheduleHandler.GetDay)
			scheduleGroup.POST("", scheduleHandler.AddMeal)
			scheduleGroup.DELETE("/:id", scheduleHandler.RemoveMeal)
		}

		// --- Tracker Routes ---
		trackerGroup := protected.Group("/tracker")
		{
			trackerGroup.GET("", trackerHandler.GetRecords)
			trackerGroup.GET("/month", trackerHandler.GetMonth)
			trackerGroup.GET("/:date", trackerHandler.GetRecord)
			trackerGroup.PUT("/:date", trackerHandler.PutRecord)
			trackerGroup.POST("/:date/water", trackerHandler.IncrementWater)
			trackerGroup.POST("/:date/calories", trackerHandler.AddCalories)
		}

		// --- Saved Recipe Routes ---
		savedGroup := protected.Group("/saved")
		{
			savedGroup.GET("", savedHandler.ListSaved)
			savedGroup.GET("/:recipeId", savedHandler.IsSaved)
			savedGroup.PUT("/:recipeId", savedHandler.Save)
			savedGroup.DELETE("/:recipeId", savedHandler.Unsave)
			savedGroup.POST("/:recipeId/toggle", savedHandler.Toggle)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/recipes/refresh", recipeHandler.RefreshCache)
			adminGroup.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
		}
	}
}
