package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"recipehub/meal-planner/internal/api"
	"recipehub/meal-planner/internal/config"
	"recipehub/meal-planner/internal/repository"
	"recipehub/meal-planner/internal/repository/memory"
	"recipehub/meal-planner/internal/repository/mongo"
	"recipehub/meal-planner/internal/repository/sqlite"
	"recipehub/meal-planner/internal/service"
	"recipehub/meal-planner/internal/storage"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// repositories is the backend selected by database.driver.
type repositories struct {
	users    repository.UserRepository
	recipes  repository.RecipeRepository
	schedule repository.ScheduleRepository
	tracker  repository.TrackerRepository
	saved    repository.SavedRecipeRepository
	close    func()
}

func openMongo(cfg config.DatabaseConfig) (*repositories, error) {
	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, err
	}
	appDB := dbClient.Database(cfg.Name)
	log.Println("Database connection established.")

	log.Println("Ensuring database indexes...")
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	return &repositories{
		users:    mongo.NewMongoUserRepository(appDB),
		recipes:  mongo.NewMongoRecipeRepository(appDB),
		schedule: mongo.NewMongoScheduleRepository(appDB),
		tracker:  mongo.NewMongoTrackerRepository(appDB),
		saved:    mongo.NewMongoSavedRecipeRepository(appDB),
		close: func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		},
	}, nil
}

func openMemory() *repositories {
	log.Println("WARN: Using the in-memory database driver; data is lost on exit.")
	return &repositories{
		users:    memory.NewUserRepository(),
		recipes:  memory.NewRecipeRepository(),
		schedule: memory.NewScheduleRepository(),
		tracker:  memory.NewTrackerRepository(),
		saved:    memory.NewSavedRecipeRepository(),
		close:    func() {},
	}
}

// @title Recipe Planner API
// @version 1.0
// @description API for recipes, meal scheduling, body tracking and saved recipes.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Recipe Planner Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: jwt.secret (JWT_SECRET) must be set")
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	var repos *repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repos = openMemory()
	default:
		repos, err = openMongo(cfg.Database)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
	}
	defer repos.close()

	// --- Tracker Mirror ---
	var trackerMirror repository.TrackerRepository
	if cfg.Mirror.Enabled {
		mirrorDB, err := sqlite.Open(cfg.Mirror.Path)
		if err != nil {
			log.Fatalf("FATAL: Could not open tracker mirror: %v", err)
		}
		defer mirrorDB.Close()
		trackerMirror = sqlite.NewTrackerRepository(mirrorDB)
	}

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	recipeStore := service.NewRecipeStore(repos.recipes)
	services := api.Services{
		Auth:        service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Auth.AdminEmails),
		Recipes:     recipeStore,
		RecipeImage: service.NewRecipeImageService(repos.recipes, recipeStore, fileStorage),
		Schedule:    service.NewScheduleService(repos.schedule),
		Tracker:     service.NewTrackerService(repos.tracker, trackerMirror, time.Now),
		Saved:       service.NewSavedRecipeService(repos.saved, recipeStore),
	}

	// The first request retries when this fails.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := recipeStore.Refresh(warmCtx); err != nil {
		log.Printf("WARN: Initial recipe cache load failed: %v", err)
	}
	cancelWarm()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Recipes.CacheTTL, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// in-flight requests get 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
