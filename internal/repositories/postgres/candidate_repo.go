package postgres

import (
	"context"
	"errors"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	GetByEmail(ctx context.Context, email string) (*models.Candidate, error)
	Create(ctx context.Context, c *models.Candidate) error
	Upsert(ctx context.Context, c *models.Candidate) error
	ListActive(ctx context.Context) ([]models.Candidate, error)
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", id).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *candidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *candidateRepo) Upsert(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "major", "specialty", "skills", "experience_level", "preferred_topics", "collab_style", "introduction", "updated_at"}),
		}).
		Create(c).Error
}

func (r *candidateRepo) ListActive(ctx context.Context) ([]models.Candidate, error) {
	var out []models.Candidate
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
