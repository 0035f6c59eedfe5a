package models

// Budget represents a spending limit, scoped either to a category or to a
// calendar month (YYYY-MM).
type Budget struct {
	Base
	WorkspaceID string  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	CategoryID  *string `gorm:"type:uuid" json:"category_id,omitempty"`
	Month       *string `gorm:"size:7" json:"month,omitempty"`
	Currency    string  `gorm:"size:3;not null" json:"currency"`
	LimitMinor  int64   `gorm:"type:bigint;not null" json:"limit_minor"`
}
