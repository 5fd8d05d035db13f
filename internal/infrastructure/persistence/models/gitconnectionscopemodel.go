package models

// GitConnectionScopeModel is the normalized decomposition of a connection's
// comma-separated scope snapshot. Rows for a connection are always replaced
// as a set, never merged.
type GitConnectionScopeModel struct {
	ID           uint   `gorm:"primarykey"`
	ConnectionID uint   `gorm:"uniqueIndex:idx_connection_scope;not null"`
	Scope        string `gorm:"uniqueIndex:idx_connection_scope;size:255;not null"`
}

// TableName specifies the table name for GORM
func (GitConnectionScopeModel) TableName() string {
	return "github_connection_scopes"
}
