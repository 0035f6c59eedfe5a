package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plutus/internal/services"
)

// MigrationHandler handles back-reference migration requests.
type MigrationHandler struct {
	migrationService services.MigrationServicer
}

// NewMigrationHandler creates a new MigrationHandler.
func NewMigrationHandler(migrationService services.MigrationServicer) *MigrationHandler {
	return &MigrationHandler{migrationService: migrationService}
}

// CheckMigration handles the read-only back-reference scan.
// @Summary     Check migration
// @Description Report whether transactions are missing goal back-references
// @Tags        migration
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MigrationCheck "Scan result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /migration/check [get]
func (h *MigrationHandler) CheckMigration(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	check, err := h.migrationService.Check(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// RunMigration handles running the back-reference migration.
// @Summary     Run migration
// @Description Backfill missing goal back-references on transactions
// @Tags        migration
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MigrationReport "Migration report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /migration/run [post]
func (h *MigrationHandler) RunMigration(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.migrationService.Migrate(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
