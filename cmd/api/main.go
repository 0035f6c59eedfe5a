package main

import (
	"fmt"
	"net/http"
	"os"
	"plutus/internal/config"
	"plutus/internal/database"
	"plutus/internal/handlers"
	"plutus/internal/logger"
	"plutus/internal/middleware"
	"plutus/internal/repository"
	"plutus/internal/services"
	"plutus/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "plutus/internal/docs" // Import swagger docs
)

// @title           Plutus API
// @version         1.0
// @description     Plutus is a local-first personal finance application. This API covers workspaces, categories, transactions, budgets, savings goals, and portable snapshot backup/restore.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize repository and services
	store := repository.NewGormStore(dbManager.DB())
	cache := services.NewMetaCache(store, appConfig.MetaCacheTTL)

	migrationService := services.NewMigrationService(store)
	workspaceService := services.NewWorkspaceService(store, migrationService)
	backupService := services.NewBackupService(store, cache)
	categoryService := services.NewCategoryService(store)
	transactionService := services.NewTransactionService(store, cache)
	goalService := services.NewGoalService(store, cache)
	contributionService := services.NewGoalContributionService(store)
	budgetService := services.NewBudgetService(store, cache)
	settingsService := services.NewSettingsService(store)

	// Initialize handlers
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	backupHandler := handlers.NewBackupHandler(backupService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	contributionHandler := handlers.NewContributionHandler(contributionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	migrationHandler := handlers.NewMigrationHandler(migrationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("", workspaceHandler.ListWorkspaces)
	workspaces.POST("/:id/unlock", workspaceHandler.UnlockWorkspace)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Snapshot backup routes
	backup := protected.Group("/backup")
	backup.GET("/export", backupHandler.Export)
	backup.POST("/import", backupHandler.Import)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/defaults", transactionHandler.GetTransactionDefaults)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.GET("/:id/contribution", contributionHandler.GetContributionForTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PATCH("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/notified", goalHandler.GetGoalNotified)
	goals.POST("/:id/notified", goalHandler.MarkGoalNotified)
	goals.POST("/:id/contributions", contributionHandler.AddContribution)
	goals.GET("/:id/contributions", contributionHandler.GetContributions)

	// Contribution routes
	contributions := protected.Group("/contributions")
	contributions.GET("/:id", contributionHandler.GetContribution)
	contributions.PATCH("/:id", contributionHandler.UpdateContribution)
	contributions.DELETE("/:id", contributionHandler.DeleteContribution)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/notified", budgetHandler.GetBudgetNotified)
	budgets.POST("/:id/notified", budgetHandler.MarkBudgetNotified)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PATCH("", settingsHandler.UpdateSettings)

	// Migration routes
	migration := protected.Group("/migration")
	migration.GET("/check", migrationHandler.CheckMigration)
	migration.POST("/run", migrationHandler.RunMigration)

	log.Infof("Starting Plutus backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
