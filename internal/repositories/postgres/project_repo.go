package postgres

import (
	"context"
	"errors"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/utils"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
	ListOpen(ctx context.Context) ([]models.Project, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Where("project_id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *projectRepo) Create(ctx context.Context, p *models.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Update(ctx context.Context, p *models.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", id).
		Delete(&models.Project{}).Error
}

func (r *projectRepo) ListOpen(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := r.db.WithContext(ctx).
		Where("is_open = ?", true).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
