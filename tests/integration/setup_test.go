package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plutus/internal/handlers"
	"plutus/internal/logger"
	"plutus/internal/middleware"
	"plutus/internal/models"
	"plutus/internal/repository"
	"plutus/internal/services"
	"plutus/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  repository.Store
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Workspace{},
		&models.Settings{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Goal{},
		&models.GoalContribution{},
		&models.Meta{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	store := repository.NewGormStore(db)
	cache := services.NewMetaCache(store, time.Minute)

	// Services
	migrationService := services.NewMigrationService(store)
	workspaceService := services.NewWorkspaceService(store, migrationService)
	backupService := services.NewBackupService(store, cache)
	categoryService := services.NewCategoryService(store)
	transactionService := services.NewTransactionService(store, cache)
	goalService := services.NewGoalService(store, cache)
	contributionService := services.NewGoalContributionService(store)
	budgetService := services.NewBudgetService(store, cache)
	settingsService := services.NewSettingsService(store)

	// Handlers
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	backupHandler := handlers.NewBackupHandler(backupService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	contributionHandler := handlers.NewContributionHandler(contributionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	migrationHandler := handlers.NewMigrationHandler(migrationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("", workspaceHandler.ListWorkspaces)
	workspaces.POST("/:id/unlock", workspaceHandler.UnlockWorkspace)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	backup := protected.Group("/backup")
	backup.GET("/export", backupHandler.Export)
	backup.POST("/import", backupHandler.Import)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/defaults", transactionHandler.GetTransactionDefaults)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.GET("/:id/contribution", contributionHandler.GetContributionForTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

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

	contributions := protected.Group("/contributions")
	contributions.GET("/:id", contributionHandler.GetContribution)
	contributions.PATCH("/:id", contributionHandler.UpdateContribution)
	contributions.DELETE("/:id", contributionHandler.DeleteContribution)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/notified", budgetHandler.GetBudgetNotified)
	budgets.POST("/:id/notified", budgetHandler.MarkBudgetNotified)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PATCH("", settingsHandler.UpdateSettings)

	migration := protected.Group("/migration")
	migration.GET("/check", migrationHandler.CheckMigration)
	migration.POST("/run", migrationHandler.RunMigration)

	return &testApp{Store: store, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createWorkspace creates and unlocks a workspace, returning the session
// token and workspace id.
func (app *testApp) createWorkspace(t *testing.T, name, passphrase string) (token, workspaceID string) {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"passphrase":%q}`, name, passphrase)
	rec := app.request("POST", "/api/v1/workspaces", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create workspace failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	ws := result["workspace"].(map[string]interface{})
	workspaceID = ws["id"].(string)

	rec = app.request("POST", "/api/v1/workspaces/"+workspaceID+"/unlock",
		fmt.Sprintf(`{"passphrase":%q}`, passphrase), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unlock workspace failed: %d %s", rec.Code, rec.Body.String())
	}
	result = parseJSON(t, rec)
	return result["token"].(string), workspaceID
}
