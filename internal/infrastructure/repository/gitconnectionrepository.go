package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/db"
)

// GitConnectionRepository persists project/GitHub connections and their
// normalized scope rows using GORM.
type GitConnectionRepository struct {
	db *gorm.DB
	tm *db.TransactionManager
}

// NewGitConnectionRepository creates a new GitConnectionRepository.
func NewGitConnectionRepository(gdb *gorm.DB) *GitConnectionRepository {
	return &GitConnectionRepository{
		db: gdb,
		tm: db.NewTransactionManager(gdb),
	}
}

// Upsert stores the latest-known connection for a project. An existing row
// for the project is overwritten in place so the record stays one-per-project.
func (r *GitConnectionRepository) Upsert(ctx context.Context, conn *models.GitConnectionModel) error {
	var existing models.GitConnectionModel
	err := r.db.WithContext(ctx).Where("project_id = ?", conn.ProjectID).First(&existing).Error
	switch {
	case err == nil:
		conn.ID = existing.ID
		conn.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(conn).Error; err != nil {
			return fmt.Errorf("failed to update git connection: %w", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
			return fmt.Errorf("failed to create git connection: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up git connection: %w", err)
	}
}

// FindByProjectID returns the connection for a project, or nil when absent.
func (r *GitConnectionRepository) FindByProjectID(ctx context.Context, projectID uint) (*models.GitConnectionModel, error) {
	var model models.GitConnectionModel
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get git connection: %w", err)
	}
	return &model, nil
}

// FindAll returns every connection. Used by the batch jobs.
func (r *GitConnectionRepository) FindAll(ctx context.Context) ([]*models.GitConnectionModel, error) {
	var conns []*models.GitConnectionModel
	if err := r.db.WithContext(ctx).Find(&conns).Error; err != nil {
		return nil, fmt.Errorf("failed to list git connections: %w", err)
	}
	return conns, nil
}

// UpdateToken rewrites the stored access token for a connection.
func (r *GitConnectionRepository) UpdateToken(ctx context.Context, connectionID uint, token string) error {
	result := r.db.WithContext(ctx).
		Model(&models.GitConnectionModel{}).
		Where("id = ?", connectionID).
		Update("access_token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to update access token: %w", result.Error)
	}
	return nil
}

// ReplaceScopes swaps the scope rows for a connection with the given set in
// one transaction. The set must already be normalized; rows are never merged
// incrementally so they always mirror the CSV snapshot they derive from.
func (r *GitConnectionRepository) ReplaceScopes(ctx context.Context, connectionID uint, scopes []string) error {
	return r.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := r.tm.GetTx(txCtx)
		if err := tx.Where("connection_id = ?", connectionID).
			Delete(&models.GitConnectionScopeModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete scope rows: %w", err)
		}
		for _, scope := range scopes {
			row := models.GitConnectionScopeModel{ConnectionID: connectionID, Scope: scope}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert scope row: %w", err)
			}
		}
		return nil
	})
}

// ScopesForConnection returns the persisted scope rows sorted by scope.
func (r *GitConnectionRepository) ScopesForConnection(ctx context.Context, connectionID uint) ([]string, error) {
	var rows []models.GitConnectionScopeModel
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("scope asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scope rows: %w", err)
	}
	scopes := make([]string, 0, len(rows))
	for _, row := range rows {
		scopes = append(scopes, row.Scope)
	}
	return scopes, nil
}
