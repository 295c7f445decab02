package postgres

import (
	"context"
	"errors"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmbeddingRepository stores the per-owner channel vectors. One row per
// owner, overwritten in place on regeneration.
type EmbeddingRepository interface {
	GetCandidate(ctx context.Context, candidateID string) (*models.CandidateEmbedding, error)
	UpsertCandidate(ctx context.Context, e *models.CandidateEmbedding) error
	DeleteCandidate(ctx context.Context, candidateID string) error

	GetProject(ctx context.Context, projectID string) (*models.ProjectEmbedding, error)
	UpsertProject(ctx context.Context, e *models.ProjectEmbedding) error
	DeleteProject(ctx context.Context, projectID string) error
}

type embeddingRepo struct {
	db *gorm.DB
}

func NewEmbeddingRepo(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepo{db: db}
}

func (r *embeddingRepo) GetCandidate(ctx context.Context, candidateID string) (*models.CandidateEmbedding, error) {
	var e models.CandidateEmbedding
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &e, err
}

func (r *embeddingRepo) UpsertCandidate(ctx context.Context, e *models.CandidateEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tech_vector", "profile_vector", "model", "updated_at"}),
		}).
		Create(e).Error
}

func (r *embeddingRepo) DeleteCandidate(ctx context.Context, candidateID string) error {
	return r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Delete(&models.CandidateEmbedding{}).Error
}

func (r *embeddingRepo) GetProject(ctx context.Context, projectID string) (*models.ProjectEmbedding, error) {
	var e models.ProjectEmbedding
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &e, err
}

func (r *embeddingRepo) UpsertProject(ctx context.Context, e *models.ProjectEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tech_vector", "profile_vector", "model", "updated_at"}),
		}).
		Create(e).Error
}

func (r *embeddingRepo) DeleteProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ProjectEmbedding{}).Error
}
