package models

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial transaction. Amounts are integers in the
// currency's smallest unit.
//
// LinkedGoalID is a denormalized back-reference to the goal whose
// contribution mirrors this transaction. It is populated only by the
// contribution consistency flow and the back-reference migration, and is not
// itself authoritative; the contribution's LinkedTransactionID is.
type Transaction struct {
	Base
	WorkspaceID  string          `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Type         TransactionType `gorm:"not null" json:"type"`
	AmountMinor  int64           `gorm:"type:bigint;not null" json:"amount_minor"`
	Currency     string          `gorm:"size:3;not null" json:"currency"`
	DateKey      string          `gorm:"size:10;not null;index" json:"date_key"`
	CategoryID   *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Note         *string         `json:"note,omitempty"`
	LinkedGoalID *string         `gorm:"type:uuid;index" json:"linked_goal_id,omitempty"`
}
