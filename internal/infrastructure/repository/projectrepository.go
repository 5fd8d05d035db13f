package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/errors"
)

// ProjectRepository persists workspace projects using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.ProjectModel) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*models.ProjectModel, error) {
	var model models.ProjectModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &model, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*models.ProjectModel, error) {
	var projects []*models.ProjectModel
	if err := r.db.WithContext(ctx).Order("id asc").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.ProjectModel) error {
	result := r.db.WithContext(ctx).Save(project)
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("project not found")
	}
	return nil
}
