package models

// Workspace is the tenant root: every other entity carries a WorkspaceID
// referencing one of these rows. A workspace may optionally be protected by
// a local passphrase (bcrypt hash, never serialized).
type Workspace struct {
	Base
	Name           string `gorm:"not null" json:"name"`
	PassphraseHash string `json:"-"`
}
