package models

import "time"

// GitConnectionModel is the persisted link between a project and one GitHub
// identity/token. One row per project, replaced on every successful OAuth
// callback. AccessToken holds either plaintext or the vault's envelope; the
// vault-enabled flag known at read time disambiguates.
type GitConnectionModel struct {
	ID            uint   `gorm:"primarykey"`
	ProjectID     uint   `gorm:"uniqueIndex;not null"`
	ProviderUser  string `gorm:"size:255"`
	ProviderEmail string `gorm:"size:255"`
	AccessToken   string `gorm:"size:2000"`
	Scopes        string `gorm:"size:1000"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (GitConnectionModel) TableName() string {
	return "github_connections"
}
