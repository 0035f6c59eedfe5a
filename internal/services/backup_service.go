package services

import (
	"errors"
	"time"

	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/metakey"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// backupService implements snapshot export and import.
type backupService struct {
	store repository.Store
	cache *MetaCache
}

// NewBackupService creates a new BackupServicer.
func NewBackupService(store repository.Store, cache *MetaCache) BackupServicer {
	return &backupService{store: store, cache: cache}
}

// Export builds the portable snapshot for a workspace. Soft-deleted rows are
// included so a restore preserves deletion history; meta keys are filtered
// down to the portable safelist.
func (s *backupService) Export(workspaceID string) (*Snapshot, error) {
	if _, err := s.store.Workspaces().GetByID(workspaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	snap := &Snapshot{
		App:           SnapshotApp,
		SchemaVersion: SnapshotSchemaVersion,
		ExportedAt:    time.Now().UTC(),
		WorkspaceID:   workspaceID,
	}

	settings, err := s.store.Settings().GetByWorkspace(workspaceID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	snap.Data.Settings = settings

	if snap.Data.Categories, err = s.store.Categories().ListAll(workspaceID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if snap.Data.Transactions, err = s.store.Transactions().ListAll(workspaceID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if snap.Data.Budgets, err = s.store.Budgets().ListAll(workspaceID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if snap.Data.Goals, err = s.store.Goals().ListAll(workspaceID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	allMeta, err := s.store.Meta().ListAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	snap.Data.Meta = filterExportableMeta(allMeta, workspaceID)

	return snap, nil
}

func filterExportableMeta(ms []models.Meta, workspaceID string) []models.Meta {
	var out []models.Meta
	for _, m := range ms {
		k := metakey.Parse(m.Key)
		if k.Exportable() && k.WorkspaceID == workspaceID {
			out = append(out, m)
		}
	}
	return out
}

// Import applies a snapshot document to a workspace. The whole apply runs in
// one atomic write; a failure leaves the workspace untouched. The meta cache
// is invalidated afterwards so no pre-import value survives.
func (s *backupService) Import(workspaceID string, raw []byte, mode ImportMode) (*ImportResult, error) {
	if mode != ImportModeReplace && mode != ImportModeMerge {
		return nil, apperrors.WithField(apperrors.ErrValidation, "mode", "mode must be replace or merge")
	}
	if _, err := s.store.Workspaces().GetByID(workspaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	rebindSnapshot(snap, workspaceID)

	var result *ImportResult
	err = s.store.Atomic(func(tx repository.Store) error {
		var applyErr error
		if mode == ImportModeReplace {
			result, applyErr = applyReplace(tx, workspaceID, snap)
		} else {
			result, applyErr = applyMerge(tx, workspaceID, snap)
		}
		return applyErr
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	s.cache.Invalidate()
	logger.Get().Infow("snapshot imported",
		"workspace_id", workspaceID,
		"mode", result.Mode,
		"categories", result.Categories,
		"transactions", result.Transactions,
		"budgets", result.Budgets,
		"goals", result.Goals,
		"meta_keys", result.MetaKeys,
		"remapped_categories", result.RemappedCategories,
	)
	return result, nil
}

// rebindSnapshot rewrites every row to the importing workspace. Snapshots
// carry the exporting device's workspace id, which has no meaning here.
// Non-portable meta keys are dropped even if the document smuggled them in.
func rebindSnapshot(snap *Snapshot, workspaceID string) {
	if snap.Data.Settings != nil {
		snap.Data.Settings.WorkspaceID = workspaceID
	}
	for i := range snap.Data.Categories {
		snap.Data.Categories[i].WorkspaceID = workspaceID
	}
	for i := range snap.Data.Transactions {
		snap.Data.Transactions[i].WorkspaceID = workspaceID
	}
	for i := range snap.Data.Budgets {
		snap.Data.Budgets[i].WorkspaceID = workspaceID
	}
	for i := range snap.Data.Goals {
		snap.Data.Goals[i].WorkspaceID = workspaceID
	}

	var meta []models.Meta
	for _, m := range snap.Data.Meta {
		k := metakey.Parse(m.Key)
		if !k.Exportable() {
			continue
		}
		k.WorkspaceID = workspaceID
		m.Key = k.String()
		meta = append(meta, m)
	}
	snap.Data.Meta = meta
}

// applyReplace wipes the workspace's entity rows and portable meta keys,
// then installs the snapshot's contents. Intra-file category duplicates are
// still collapsed so the resulting live set is clean.
func applyReplace(tx repository.Store, workspaceID string, snap *Snapshot) (*ImportResult, error) {
	dedup := dedupeCategories(nil, snap.Data.Categories)
	remapTransactionCategories(snap.Data.Transactions, dedup.remap)
	remapBudgetCategories(snap.Data.Budgets, dedup.remap)

	if err := tx.Contributions().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if err := tx.Transactions().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if err := tx.Budgets().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if err := tx.Goals().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if err := tx.Categories().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if err := tx.Settings().DeleteByWorkspace(workspaceID); err != nil {
		return nil, err
	}

	allMeta, err := tx.Meta().ListAll()
	if err != nil {
		return nil, err
	}
	var portableKeys []string
	for _, m := range allMeta {
		k := metakey.Parse(m.Key)
		if k.Exportable() && k.WorkspaceID == workspaceID {
			portableKeys = append(portableKeys, m.Key)
		}
	}
	if err := tx.Meta().DeleteKeys(portableKeys); err != nil {
		return nil, err
	}

	if snap.Data.Settings != nil {
		if err := tx.Settings().Upsert(snap.Data.Settings); err != nil {
			return nil, err
		}
	}
	if err := tx.Categories().CreateBatch(dedup.accepted); err != nil {
		return nil, err
	}
	if err := tx.Transactions().UpsertBatch(snap.Data.Transactions); err != nil {
		return nil, err
	}
	if err := tx.Budgets().UpsertBatch(snap.Data.Budgets); err != nil {
		return nil, err
	}
	if err := tx.Goals().UpsertBatch(snap.Data.Goals); err != nil {
		return nil, err
	}
	if err := tx.Meta().UpsertBatch(snap.Data.Meta); err != nil {
		return nil, err
	}

	return &ImportResult{
		Mode:               ImportModeReplace,
		Categories:         len(dedup.accepted),
		Transactions:       len(snap.Data.Transactions),
		Budgets:            len(snap.Data.Budgets),
		Goals:              len(snap.Data.Goals),
		MetaKeys:           len(snap.Data.Meta),
		RemappedCategories: len(dedup.remap),
	}, nil
}

// applyMerge reconciles the snapshot's rows with existing data without
// deleting anything. Transactions, budgets, goals, and meta upsert by id or
// key, so a colliding row takes the snapshot's field values. Only categories
// get the existing-wins treatment: live name collisions are remapped onto
// the existing category instead of inserting a duplicate.
func applyMerge(tx repository.Store, workspaceID string, snap *Snapshot) (*ImportResult, error) {
	existingCats, err := tx.Categories().ListAll(workspaceID)
	if err != nil {
		return nil, err
	}
	dedup := dedupeCategories(existingCats, snap.Data.Categories)
	remapTransactionCategories(snap.Data.Transactions, dedup.remap)
	remapBudgetCategories(snap.Data.Budgets, dedup.remap)

	if snap.Data.Settings != nil {
		if err := tx.Settings().Upsert(snap.Data.Settings); err != nil {
			return nil, err
		}
	}
	if err := tx.Categories().CreateBatch(dedup.accepted); err != nil {
		return nil, err
	}
	if err := tx.Transactions().UpsertBatch(snap.Data.Transactions); err != nil {
		return nil, err
	}
	if err := tx.Budgets().UpsertBatch(snap.Data.Budgets); err != nil {
		return nil, err
	}
	if err := tx.Goals().UpsertBatch(snap.Data.Goals); err != nil {
		return nil, err
	}
	if err := tx.Meta().UpsertBatch(snap.Data.Meta); err != nil {
		return nil, err
	}

	return &ImportResult{
		Mode:               ImportModeMerge,
		Categories:         len(dedup.accepted),
		Transactions:       len(snap.Data.Transactions),
		Budgets:            len(snap.Data.Budgets),
		Goals:              len(snap.Data.Goals),
		MetaKeys:           len(snap.Data.Meta),
		RemappedCategories: len(dedup.remap),
	}, nil
}
