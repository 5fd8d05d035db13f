package models

import "time"

// Import status values for ProjectModel.ImportStatus.
const (
	ImportStatusPending = "PENDING"
	ImportStatusRunning = "RUNNING"
	ImportStatusSuccess = "SUCCESS"
	ImportStatusFailed  = "FAILED"
)

// ProjectModel is the workspace project record. Git identity fields are set
// through the identity endpoint; import fields track the async clone.
type ProjectModel struct {
	ID               uint   `gorm:"primarykey"`
	Name             string `gorm:"size:255;not null"`
	Description      string `gorm:"size:2000"`
	Tags             string `gorm:"size:500"`
	ImportStatus     string `gorm:"size:20"`
	ImportMessage    string `gorm:"size:2000"`
	ImportStartedAt  *time.Time
	ImportFinishedAt *time.Time
	ImportLog        string `gorm:"size:10000"`
	GitUserName      string `gorm:"size:255"`
	GitUserEmail     string `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}
