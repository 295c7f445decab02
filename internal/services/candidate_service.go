package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adit-wn/teamlane/internal/cache"
	"github.com/adit-wn/teamlane/internal/models"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/utils"
)

type CandidateService interface {
	Get(ctx context.Context, id string) (*models.Candidate, error)

	// UpdateProfile persists the profile and invalidates everything derived
	// from its text: the stored embedding row, every match score referencing
	// the candidate, and the recommendation snapshot. A precompute task is
	// enqueued so fresh scores are ready before the next listing.
	UpdateProfile(ctx context.Context, c *models.Candidate) error
}

type candidateService struct {
	candidates pgrepo.CandidateRepository
	embeddings pgrepo.EmbeddingRepository
	scores     pgrepo.MatchScoreRepository
	snapshots  cache.Cache
	queue      MatchEnqueuer
	log        *logrus.Entry
}

func NewCandidateService(candidates pgrepo.CandidateRepository, embeddings pgrepo.EmbeddingRepository, scores pgrepo.MatchScoreRepository, snapshots cache.Cache, queue MatchEnqueuer, log *logrus.Entry) CandidateService {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &candidateService{
		candidates: candidates,
		embeddings: embeddings,
		scores:     scores,
		snapshots:  snapshots,
		queue:      queue,
		log:        log,
	}
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return c, nil
}

func (s *candidateService) UpdateProfile(ctx context.Context, c *models.Candidate) error {
	const op = "CandidateService.UpdateProfile"

	if c == nil || c.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.candidates.Upsert(ctx, c); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to upsert candidate", err)
	}

	// Hard-delete derived state so the next access recomputes from fresh
	// text, embeddings included.
	if err := s.embeddings.DeleteCandidate(ctx, c.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to invalidate embedding", err)
	}
	if err := s.scores.DeleteByCandidate(ctx, c.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to invalidate match scores", err)
	}
	if s.snapshots != nil {
		if err := s.snapshots.Del(ctx, cache.RecommendationKey(c.ID)); err != nil {
			s.log.WithError(err).Warn("failed to drop recommendation snapshot")
		}
	}

	if s.queue != nil {
		if err := s.queue.EnqueueCandidate(ctx, c.ID); err != nil {
			s.log.WithError(err).Warn("failed to enqueue candidate precompute")
		}
	}
	return nil
}
