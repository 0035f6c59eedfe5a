package models

import (
	"time"

	"plutus/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the columns shared by all workspace entities. Rows are
// soft-deleted: DeletedAt marks logical deletion and normal application
// flow never removes rows physically.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
