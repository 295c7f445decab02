package services

import (
	"context"
	"errors"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/providers/embedding"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/utils"
)

// EmbeddingService resolves the per-channel vectors for an owner, reusing the
// stored row while it is at least as fresh as the owner's profile text and
// regenerating it otherwise.
type EmbeddingService interface {
	CandidateVectors(ctx context.Context, c *models.Candidate) (tech, profile []float32, err error)
	ProjectVectors(ctx context.Context, p *models.Project) (tech, profile []float32, err error)

	// Model identifies the embedding model family behind the vectors.
	Model() string
}

type embeddingService struct {
	provider embedding.Provider
	repo     pgrepo.EmbeddingRepository
	timeout  time.Duration
	log      *logrus.Entry
}

func NewEmbeddingService(provider embedding.Provider, repo pgrepo.EmbeddingRepository, timeout time.Duration, log *logrus.Entry) EmbeddingService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &embeddingService{provider: provider, repo: repo, timeout: timeout, log: log}
}

func (s *embeddingService) CandidateVectors(ctx context.Context, c *models.Candidate) ([]float32, []float32, error) {
	const op = "EmbeddingService.CandidateVectors"

	row, err := s.repo.GetCandidate(ctx, c.ID)
	if err == nil && s.fresh(row.Model, row.UpdatedAt, c.UpdatedAt) {
		return row.TechVector.Slice(), row.ProfileVector.Slice(), nil
	}
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load candidate embedding", err)
	}

	tech, err := s.embedChannel(ctx, c.TechText())
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.embedChannel(ctx, c.ProfileText())
	if err != nil {
		return nil, nil, err
	}

	upserted := &models.CandidateEmbedding{
		CandidateID:   c.ID,
		TechVector:    pgvector.NewVector(tech),
		ProfileVector: pgvector.NewVector(profile),
		Model:         s.provider.Model(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.repo.UpsertCandidate(ctx, upserted); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to store candidate embedding", err)
	}
	return tech, profile, nil
}

func (s *embeddingService) ProjectVectors(ctx context.Context, p *models.Project) ([]float32, []float32, error) {
	const op = "EmbeddingService.ProjectVectors"

	row, err := s.repo.GetProject(ctx, p.ID)
	if err == nil && s.fresh(row.Model, row.UpdatedAt, p.UpdatedAt) {
		return row.TechVector.Slice(), row.ProfileVector.Slice(), nil
	}
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load project embedding", err)
	}

	tech, err := s.embedChannel(ctx, p.TechText())
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.embedChannel(ctx, p.ProfileText())
	if err != nil {
		return nil, nil, err
	}

	upserted := &models.ProjectEmbedding{
		ProjectID:     p.ID,
		TechVector:    pgvector.NewVector(tech),
		ProfileVector: pgvector.NewVector(profile),
		Model:         s.provider.Model(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.repo.UpsertProject(ctx, upserted); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to store project embedding", err)
	}
	return tech, profile, nil
}

func (s *embeddingService) Model() string { return s.provider.Model() }

// fresh reports whether a stored row can be reused: same model family and not
// older than the owner's last profile change.
func (s *embeddingService) fresh(model string, rowUpdated, ownerUpdated time.Time) bool {
	return model == s.provider.Model() && !rowUpdated.Before(ownerUpdated)
}

// embedChannel embeds one channel text under the provider timeout. An empty
// channel yields a zero vector: similarity against it is 0, not an error.
func (s *embeddingService) embedChannel(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, s.provider.Dimension()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).Warn("embedding provider call failed")
		}
		return nil, err
	}
	return vec, nil
}
