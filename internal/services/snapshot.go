package services

import (
	"encoding/json"
	"time"

	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/models"
)

const (
	// SnapshotApp is the identifier stamped on every exported document.
	SnapshotApp = "plutus"
	// SnapshotSchemaVersion is the current snapshot document version.
	SnapshotSchemaVersion = 1
)

// Snapshot is the portable backup document. The envelope is strict: app and
// schemaVersion must match exactly or the document is rejected. The data
// section is lenient: a collection that fails to decode degrades to empty
// instead of failing the whole import. WorkspaceID records the exporting
// workspace; on import every row is rebound to the target workspace instead.
type Snapshot struct {
	App           string       `json:"app"`
	SchemaVersion int          `json:"schemaVersion"`
	ExportedAt    time.Time    `json:"exportedAt"`
	WorkspaceID   string       `json:"workspaceId"`
	Data          SnapshotData `json:"data"`
}

// SnapshotData holds the exported collections. Contributions are
// intentionally absent; they are derived per-device state and the
// transaction rows carry enough to re-link them.
type SnapshotData struct {
	Settings     *models.Settings     `json:"settings,omitempty"`
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
	Budgets      []models.Budget      `json:"budgets"`
	Goals        []models.Goal        `json:"goals"`
	Meta         []models.Meta        `json:"meta"`
}

// envelope mirrors Snapshot but defers the data section so collections can
// be decoded one by one.
type envelope struct {
	App           string                     `json:"app"`
	SchemaVersion int                        `json:"schemaVersion"`
	ExportedAt    time.Time                  `json:"exportedAt"`
	WorkspaceID   string                     `json:"workspaceId"`
	Data          map[string]json.RawMessage `json:"data"`
}

// DecodeSnapshot parses raw into a Snapshot. The document is rejected with
// FORMAT_ERROR when it is not JSON, does not carry the expected app
// identifier, or carries a different schema version. Individual collections
// that fail to decode are logged and dropped.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSnapshotFormat, err)
	}
	if env.App != SnapshotApp {
		return nil, apperrors.WithMessage(apperrors.ErrSnapshotFormat, "document does not carry the expected app identifier")
	}
	if env.SchemaVersion != SnapshotSchemaVersion {
		return nil, apperrors.WithMessage(apperrors.ErrSnapshotFormat, "unsupported snapshot schema version")
	}

	snap := &Snapshot{
		App:           env.App,
		SchemaVersion: env.SchemaVersion,
		ExportedAt:    env.ExportedAt,
		WorkspaceID:   env.WorkspaceID,
	}

	snap.Data.Settings = decodeCollection[*models.Settings](env.Data, "settings")
	snap.Data.Categories = decodeCollection[[]models.Category](env.Data, "categories")
	snap.Data.Transactions = decodeCollection[[]models.Transaction](env.Data, "transactions")
	snap.Data.Budgets = decodeCollection[[]models.Budget](env.Data, "budgets")
	snap.Data.Goals = decodeCollection[[]models.Goal](env.Data, "goals")
	snap.Data.Meta = decodeCollection[[]models.Meta](env.Data, "meta")

	return snap, nil
}

// decodeCollection parses one collection out of the data section, returning
// the zero value when the key is absent or the payload is malformed.
func decodeCollection[T any](data map[string]json.RawMessage, key string) T {
	var v T
	raw, ok := data[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Get().Warnw("snapshot collection failed to decode, dropping it", "collection", key, "error", err)
		var zero T
		return zero
	}
	return v
}

// EncodeSnapshot renders the document with stable indentation for diff- and
// sync-friendly files.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}
