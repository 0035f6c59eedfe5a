package models

// GoalContribution records money put toward a goal on a given day.
//
// When LinkedTransactionID is set, the referenced transaction's LinkedGoalID
// must equal this contribution's GoalID, and the transaction's amount, date
// key, and note track the contribution's fields. The contribution side is
// authoritative; a failed propagation leaves the transaction stale rather
// than losing the user's edit.
type GoalContribution struct {
	Base
	WorkspaceID         string  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	GoalID              string  `gorm:"type:uuid;not null;index" json:"goal_id"`
	AmountMinor         int64   `gorm:"type:bigint;not null" json:"amount_minor"`
	Currency            string  `gorm:"size:3;not null" json:"currency"`
	DateKey             string  `gorm:"size:10;not null" json:"date_key"`
	Note                *string `json:"note,omitempty"`
	LinkedTransactionID *string `gorm:"type:uuid;index" json:"linked_transaction_id,omitempty"`
}
