package models

import "strings"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeBoth    CategoryType = "both"
)

// Category represents a transaction category.
//
// For deduplication during snapshot merges, a category's identity is not its
// id but its (type, normalized name) pair: within one workspace's live set,
// at most one category may exist per key after a merge completes.
type Category struct {
	Base
	WorkspaceID string       `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string       `gorm:"not null" json:"name"`
	Type        CategoryType `gorm:"not null" json:"type"`
	SortOrder   int          `json:"order"`
	IsArchived  bool         `json:"is_archived"`
}

// CategoryKey is the dedup identity of a category.
type CategoryKey struct {
	Type CategoryType
	Name string
}

// NormalizeCategoryName trims, lowercases, and collapses internal whitespace.
func NormalizeCategoryName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// DedupKey returns the (type, normalizedName) identity used by the merge engine.
func (c *Category) DedupKey() CategoryKey {
	return CategoryKey{Type: c.Type, Name: NormalizeCategoryName(c.Name)}
}
