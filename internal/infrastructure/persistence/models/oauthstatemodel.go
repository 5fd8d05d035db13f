package models

import "time"

// OAuthStateModel is a single-use CSRF nonce binding an authorization
// redirect to the project that initiated it. Rows are deleted on consumption
// or by the TTL purge.
type OAuthStateModel struct {
	ID        uint   `gorm:"primarykey"`
	ProjectID uint   `gorm:"not null"`
	State     string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (OAuthStateModel) TableName() string {
	return "github_oauth_states"
}
