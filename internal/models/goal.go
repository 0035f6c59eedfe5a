package models

// GoalStatus represents the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// Goal represents a savings goal. CurrentAmountMinor is recomputed from the
// goal's live contributions whenever a contribution changes.
type Goal struct {
	Base
	WorkspaceID        string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name               string     `gorm:"not null" json:"name"`
	TargetAmountMinor  int64      `gorm:"type:bigint;not null" json:"target_amount_minor"`
	CurrentAmountMinor int64      `gorm:"type:bigint;not null;default:0" json:"current_amount_minor"`
	Currency           string     `gorm:"size:3;not null" json:"currency"`
	Deadline           *string    `gorm:"size:10" json:"deadline,omitempty"`
	Status             GoalStatus `gorm:"not null;default:active" json:"status"`
	Note               *string    `json:"note,omitempty"`
}
