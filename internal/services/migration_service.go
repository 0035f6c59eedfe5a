package services

import (
	"errors"
	"fmt"
	"strconv"

	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/metakey"
	"plutus/internal/repository"
)

// migrationService backfills Transaction.LinkedGoalID from live linked
// contributions. Older exports carried the link only on the contribution
// side; after the backfill both directions agree and re-running is a no-op.
type migrationService struct {
	store repository.Store
}

// NewMigrationService creates a new MigrationServicer.
func NewMigrationService(store repository.Store) MigrationServicer {
	return &migrationService{store: store}
}

// Check scans the live linked contributions without writing anything and
// reports how many still point at a transaction missing its back-reference.
func (s *migrationService) Check(workspaceID string) (*MigrationCheck, error) {
	linked, err := s.store.Contributions().ListLiveLinked(workspaceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	unmigrated := 0
	for i := range linked {
		c := &linked[i]
		tx, err := s.store.Transactions().GetByID(workspaceID, *c.LinkedTransactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if tx.LinkedGoalID == nil || *tx.LinkedGoalID != c.GoalID {
			unmigrated++
		}
	}
	return &MigrationCheck{Needed: unmigrated > 0, Unmigrated: unmigrated}, nil
}

// Migrate writes the missing back-references. Contributions whose linked
// transaction no longer exists are reported as errors but do not block the
// rest; all fixes apply in one atomic write. On a clean run the workspace's
// schema version marker is advanced.
func (s *migrationService) Migrate(workspaceID string) (*MigrationReport, error) {
	linked, err := s.store.Contributions().ListLiveLinked(workspaceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	report := &MigrationReport{}
	type fix struct {
		transactionID string
		goalID        string
	}
	var fixes []fix

	for i := range linked {
		c := &linked[i]
		tx, err := s.store.Transactions().GetByID(workspaceID, *c.LinkedTransactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				report.Errors = append(report.Errors,
					fmt.Sprintf("contribution %s: linked transaction %s not found", c.ID, *c.LinkedTransactionID))
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if tx.LinkedGoalID != nil && *tx.LinkedGoalID == c.GoalID {
			continue
		}
		fixes = append(fixes, fix{transactionID: tx.ID, goalID: c.GoalID})
	}

	if len(fixes) > 0 {
		err = s.store.Atomic(func(tx repository.Store) error {
			for _, f := range fixes {
				goalID := f.goalID
				if err := tx.Transactions().Update(workspaceID, f.transactionID, map[string]interface{}{"linked_goal_id": &goalID}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	report.Migrated = len(fixes)
	report.Success = len(report.Errors) == 0
	if report.Success {
		key := metakey.SchemaVersion(workspaceID).String()
		if err := s.store.Meta().Set(key, strconv.Itoa(SnapshotSchemaVersion)); err != nil {
			logger.Get().Warnw("failed to record schema version after migration",
				"workspace_id", workspaceID, "error", err)
		}
	}

	logger.Get().Infow("back-reference migration finished",
		"workspace_id", workspaceID,
		"migrated", report.Migrated,
		"errors", len(report.Errors),
	)
	return report, nil
}
