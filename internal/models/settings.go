package models

// Settings holds per-workspace preferences. There is at most one row per
// workspace; import overwrites it wholesale when the document carries one.
type Settings struct {
	Base
	WorkspaceID  string `gorm:"type:uuid;not null;uniqueIndex" json:"workspace_id"`
	Currency     string `gorm:"size:3;not null;default:USD" json:"currency"`
	Locale       string `gorm:"default:en-US" json:"locale"`
	FirstWeekday int    `json:"first_weekday"`
	Theme        string `gorm:"default:system" json:"theme"`
}
