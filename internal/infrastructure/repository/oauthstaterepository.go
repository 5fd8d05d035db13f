package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
)

// OAuthStateRepository persists single-use CSRF state records.
type OAuthStateRepository struct {
	db *gorm.DB
}

// NewOAuthStateRepository creates a new OAuthStateRepository.
func NewOAuthStateRepository(db *gorm.DB) *OAuthStateRepository {
	return &OAuthStateRepository{db: db}
}

// Create persists a freshly issued state.
func (r *OAuthStateRepository) Create(ctx context.Context, state *models.OAuthStateModel) error {
	if err := r.db.WithContext(ctx).Create(state).Error; err != nil {
		return fmt.Errorf("failed to create oauth state: %w", err)
	}
	return nil
}

// FindByState returns the record for a state token, or nil when absent.
func (r *OAuthStateRepository) FindByState(ctx context.Context, state string) (*models.OAuthStateModel, error) {
	var model models.OAuthStateModel
	err := r.db.WithContext(ctx).Where("state = ?", state).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oauth state: %w", err)
	}
	return &model, nil
}

// DeleteByState removes a state row. Deleting an already-deleted row is a
// no-op, which keeps consumption and the purge safe to run concurrently.
func (r *OAuthStateRepository) DeleteByState(ctx context.Context, state string) error {
	if err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Delete(&models.OAuthStateModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete oauth state: %w", err)
	}
	return nil
}

// DeleteCreatedBefore removes every state older than the cutoff and returns
// the number of rows deleted.
func (r *OAuthStateRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.OAuthStateModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge oauth states: %w", result.Error)
	}
	return result.RowsAffected, nil
}
