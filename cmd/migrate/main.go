package main

import (
	"fmt"
	"os"
	"strconv"

	"plutus/internal/database"
	"plutus/internal/logger"
	"plutus/internal/repository"
	"plutus/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|version|backfill> [N]")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	command := os.Args[1]

	if command == "backfill" {
		return runBackfill(dbConfig)
	}

	m, err := migrate.New("file://migrations", dbConfig.MigrateDSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version, or backfill)", command)
	}

	return nil
}

// runBackfill populates the transaction back-reference for every workspace.
// Safe to run repeatedly; already-linked rows are left untouched.
func runBackfill(dbConfig *database.Config) error {
	log := logger.Get()

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	store := repository.NewGormStore(dbManager.DB())
	migrationService := services.NewMigrationService(store)

	wss, err := store.Workspaces().List()
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	failed := 0
	for _, ws := range wss {
		report, err := migrationService.Migrate(ws.ID)
		if err != nil {
			failed++
			log.Errorf("Backfill failed for workspace %s: %v", ws.ID, err)
			continue
		}
		if !report.Success {
			failed++
			for _, msg := range report.Errors {
				log.Warnf("Workspace %s: %s", ws.ID, msg)
			}
		}
		log.Infof("Workspace %s: %d contribution(s) backfilled", ws.ID, report.Migrated)
	}

	if failed > 0 {
		return fmt.Errorf("backfill finished with %d failed workspace(s)", failed)
	}
	log.Infof("Backfill completed for %d workspace(s)", len(wss))
	return nil
}
