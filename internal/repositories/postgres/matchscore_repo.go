package postgres

import (
	"context"
	"errors"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchScoreRepository interface {
	GetByPair(ctx context.Context, candidateID, projectID string) (*models.MatchScore, error)
	Upsert(ctx context.Context, m *models.MatchScore) error
	DeleteByCandidate(ctx context.Context, candidateID string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

type matchScoreRepo struct {
	db *gorm.DB
}

func NewMatchScoreRepo(db *gorm.DB) MatchScoreRepository {
	return &matchScoreRepo{db: db}
}

func (r *matchScoreRepo) GetByPair(ctx context.Context, candidateID, projectID string) (*models.MatchScore, error) {
	var m models.MatchScore
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND project_id = ?", candidateID, projectID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &m, err
}

// Upsert writes the record keyed on the (candidate, project) unique index.
// Concurrent computations of the same pair resolve to last-write-wins.
func (r *matchScoreRepo) Upsert(ctx context.Context, m *models.MatchScore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "tech_score", "disposition_score", "experience_score", "explanation", "evaluated_at"}),
		}).
		Create(m).Error
}

func (r *matchScoreRepo) DeleteByCandidate(ctx context.Context, candidateID string) error {
	return r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Delete(&models.MatchScore{}).Error
}

func (r *matchScoreRepo) DeleteByProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.MatchScore{}).Error
}
