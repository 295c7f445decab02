package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adit-wn/teamlane/internal/cache"
	"github.com/adit-wn/teamlane/internal/models"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/utils"
)

type ProjectService interface {
	Get(ctx context.Context, id string) (*models.Project, error)
	ListOpen(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id, requesterID string, admin bool) error
}

type projectService struct {
	projects   pgrepo.ProjectRepository
	embeddings pgrepo.EmbeddingRepository
	scores     pgrepo.MatchScoreRepository
	snapshots  cache.Cache
	queue      MatchEnqueuer
	log        *logrus.Entry
}

func NewProjectService(projects pgrepo.ProjectRepository, embeddings pgrepo.EmbeddingRepository, scores pgrepo.MatchScoreRepository, snapshots cache.Cache, queue MatchEnqueuer, log *logrus.Entry) ProjectService {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &projectService{
		projects:   projects,
		embeddings: embeddings,
		scores:     scores,
		snapshots:  snapshots,
		queue:      queue,
		log:        log,
	}
}

// dropSnapshots clears every candidate's recommendation snapshot. A project
// change can affect any candidate's ranking, and snapshots are keyed per
// candidate, so all of them go.
func (s *projectService) dropSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.DelMatching(ctx, cache.RecommendationKeyPattern()); err != nil {
		s.log.WithError(err).Warn("failed to drop recommendation snapshots")
	}
}

func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	const op = "ProjectService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "project_id is required", nil)
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "project not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get project", err)
	}
	return p, nil
}

func (s *projectService) ListOpen(ctx context.Context) ([]models.Project, error) {
	const op = "ProjectService.ListOpen"

	out, err := s.projects.ListOpen(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list projects", err)
	}
	return out, nil
}

func (s *projectService) Create(ctx context.Context, p *models.Project) error {
	const op = "ProjectService.Create"

	if p == nil || p.OwnerID == "" || p.Title == "" {
		return utils.E(utils.CodeInvalidArgument, op, "owner_id and title are required", nil)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projects.Create(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create project", err)
	}
	s.dropSnapshots(ctx)

	if s.queue != nil {
		if err := s.queue.EnqueueProject(ctx, p.ID); err != nil {
			s.log.WithError(err).Warn("failed to enqueue project precompute")
		}
	}
	return nil
}

func (s *projectService) Update(ctx context.Context, p *models.Project) error {
	const op = "ProjectService.Update"

	if p == nil || p.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "project_id is required", nil)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update project", err)
	}

	if err := s.embeddings.DeleteProject(ctx, p.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to invalidate embedding", err)
	}
	if err := s.scores.DeleteByProject(ctx, p.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to invalidate match scores", err)
	}
	s.dropSnapshots(ctx)

	if s.queue != nil {
		if err := s.queue.EnqueueProject(ctx, p.ID); err != nil {
			s.log.WithError(err).Warn("failed to enqueue project precompute")
		}
	}
	return nil
}

func (s *projectService) Delete(ctx context.Context, id, requesterID string, admin bool) error {
	const op = "ProjectService.Delete"

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !admin && p.OwnerID != requesterID {
		return utils.E(utils.CodeForbidden, op, "only the owner can delete a project", nil)
	}

	// embeddings and match scores cascade with the project row
	if err := s.projects.Delete(ctx, id); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete project", err)
	}
	s.dropSnapshots(ctx)
	return nil
}
