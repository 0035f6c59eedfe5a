package models

import "time"

// Meta is a process-wide key/value row. Keys are workspace-prefixed by
// convention (see internal/metakey); only safelisted kinds cross the
// snapshot export/import boundary.
type Meta struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
