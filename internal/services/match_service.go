package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/adit-wn/teamlane/internal/cache"
	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/providers/embedding"
	"github.com/adit-wn/teamlane/internal/providers/explain"
	mongorepo "github.com/adit-wn/teamlane/internal/repositories/mongo"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/scoring"
	"github.com/adit-wn/teamlane/internal/utils"
)

// InsufficientDataReason is the fixed explanation stored when a pair cannot
// be scored yet. Records carrying it keep score 0 and are retried on the next
// access once profile data exists.
const InsufficientDataReason = "This pair cannot be matched yet: there is not enough profile information to compute a score."

// Recommendation is one ranked entry served to the client.
type Recommendation struct {
	Project          models.Project            `json:"project"`
	Score            float64                   `json:"score"`
	TechScore        int                       `json:"tech_score"`
	DispositionScore int                       `json:"disposition_score"`
	ExperienceScore  int                       `json:"experience_score"`
	Explanation      models.ExplanationPayload `json:"explanation"`
}

// CandidateRecommendation is the reverse listing: one ranked candidate for a
// project, served to the project owner.
type CandidateRecommendation struct {
	Candidate        models.Candidate          `json:"candidate"`
	Score            float64                   `json:"score"`
	TechScore        int                       `json:"tech_score"`
	DispositionScore int                       `json:"disposition_score"`
	ExperienceScore  int                       `json:"experience_score"`
	Explanation      models.ExplanationPayload `json:"explanation"`
}

type MatchService interface {
	// GetOrCreateMatch returns the cached score for the pair, computing and
	// persisting it first if absent or invalid.
	GetOrCreateMatch(ctx context.Context, candidateID, projectID string) (*models.MatchScore, error)

	// Recommend ranks all open projects for the candidate, best first.
	Recommend(ctx context.Context, candidateID string) ([]Recommendation, error)

	// RecommendCandidates ranks all candidates for one project, best first,
	// excluding the project owner.
	RecommendCandidates(ctx context.Context, projectID string) ([]CandidateRecommendation, error)

	// Precompute sweeps run the same per-pair computation out of band.
	PrecomputeForCandidate(ctx context.Context, candidateID string) (int, error)
	PrecomputeForProject(ctx context.Context, projectID string) (int, error)
}

// MatchServiceDeps wires the orchestrator. Explainer, Audit and Snapshots are
// optional; a nil explainer degrades every record to the fallback payload.
type MatchServiceDeps struct {
	Candidates pgrepo.CandidateRepository
	Projects   pgrepo.ProjectRepository
	Scores     pgrepo.MatchScoreRepository
	Embeddings EmbeddingService
	Explainer  explain.Provider
	Audit      mongorepo.AuditRepository
	Snapshots  cache.Cache
	Logger     *logrus.Entry

	ExplainTimeout time.Duration
}

type matchService struct {
	MatchServiceDeps

	mu    sync.Mutex
	pairs map[string]*sync.Mutex
}

func NewMatchService(deps MatchServiceDeps) MatchService {
	if deps.ExplainTimeout <= 0 {
		deps.ExplainTimeout = 30 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = logrus.NewEntry(logrus.New())
	}
	return &matchService{MatchServiceDeps: deps, pairs: make(map[string]*sync.Mutex)}
}

func (s *matchService) GetOrCreateMatch(ctx context.Context, candidateID, projectID string) (*models.MatchScore, error) {
	const op = "MatchService.GetOrCreateMatch"

	if candidateID == "" || projectID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and project_id are required", nil)
	}

	cand, err := s.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	proj, err := s.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "project not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load project", err)
	}

	// Fast path: a valid cached record short-circuits every provider call.
	if rec, ok, err := s.cached(ctx, candidateID, projectID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up match score", err)
	} else if ok {
		return rec, nil
	}

	// One computation per pair per process; the unique upsert still resolves
	// cross-process races to last-write-wins.
	unlock := s.lockPair(candidateID + "|" + projectID)
	defer unlock()

	if rec, ok, err := s.cached(ctx, candidateID, projectID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up match score", err)
	} else if ok {
		return rec, nil
	}

	return s.compute(ctx, cand, proj)
}

// cached returns (record, true) only for valid records; invalid placeholders
// report a miss so they are recomputed.
func (s *matchService) cached(ctx context.Context, candidateID, projectID string) (*models.MatchScore, bool, error) {
	rec, err := s.Scores.GetByPair(ctx, candidateID, projectID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if rec.Valid() {
		return rec, true, nil
	}
	return nil, false, nil
}

func (s *matchService) compute(ctx context.Context, cand *models.Candidate, proj *models.Project) (*models.MatchScore, error) {
	const op = "MatchService.compute"

	log := s.Logger.WithFields(logrus.Fields{
		"candidate_id": cand.ID,
		"project_id":   proj.ID,
	})

	if (cand.TechText() == "" && cand.ProfileText() == "") ||
		(proj.TechText() == "" && proj.ProfileText() == "") {
		log.Info("match skipped: no embeddable profile text")
		return s.storePlaceholder(ctx, cand.ID, proj.ID)
	}

	embedStart := time.Now()
	candTech, candProfile, err := s.Embeddings.CandidateVectors(ctx, cand)
	if err != nil {
		return s.placeholderOrFail(ctx, op, log, cand.ID, proj.ID, err)
	}
	projTech, projProfile, err := s.Embeddings.ProjectVectors(ctx, proj)
	if err != nil {
		return s.placeholderOrFail(ctx, op, log, cand.ID, proj.ID, err)
	}
	embedMS := time.Since(embedStart).Milliseconds()

	res := scoring.Synthesize(candTech, candProfile, projTech, projProfile)

	rec := &models.MatchScore{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		ProjectID:   proj.ID,
		Score:       res.Overall,
		EvaluatedAt: time.Now().UTC(),
	}

	outcome := "computed"
	explainStart := time.Now()
	if out := s.explainMatch(ctx, log, cand, proj, res.Overall); out != nil {
		rec.TechScore = out.TechScore
		rec.DispositionScore = out.DispositionScore
		rec.ExperienceScore = out.ExperienceScore
		rec.Explanation = datatypes.NewJSONType(out.Payload)
	} else {
		// keep the computed score; the fallback payload makes the record
		// valid so an explanation outage does not trigger recompute loops
		outcome = "degraded"
		rec.TechScore, rec.DispositionScore, rec.ExperienceScore = scoring.SubScores(res)
		rec.Explanation = datatypes.NewJSONType(fallbackExplanation())
	}
	explainMS := time.Since(explainStart).Milliseconds()

	if err := s.Scores.Upsert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store match score", err)
	}

	log.WithFields(logrus.Fields{
		"score":      rec.Score,
		"outcome":    outcome,
		"embed_ms":   embedMS,
		"explain_ms": explainMS,
	}).Info("match computed")

	s.auditLog(&mongorepo.MatchAudit{
		CandidateID: cand.ID,
		ProjectID:   proj.ID,
		Outcome:     outcome,
		Score:       rec.Score,
		TechSim:     res.TechSim,
		ProfileSim:  res.ProfileSim,
		EmbedMS:     embedMS,
		ExplainMS:   explainMS,
		EmbedModel:  s.Embeddings.Model(),
		EvaluatedAt: rec.EvaluatedAt,
	})

	return rec, nil
}

// placeholderOrFail degrades provider failures into the insufficient-data
// placeholder and propagates everything else.
func (s *matchService) placeholderOrFail(ctx context.Context, op string, log *logrus.Entry, candidateID, projectID string, err error) (*models.MatchScore, error) {
	if errors.Is(err, embedding.ErrUnavailable) {
		log.WithError(err).Warn("embedding unavailable, storing placeholder")
		return s.storePlaceholder(ctx, candidateID, projectID)
	}
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return nil, err
	}
	return nil, utils.E(utils.CodeInternal, op, "failed to resolve embeddings", err)
}

func (s *matchService) storePlaceholder(ctx context.Context, candidateID, projectID string) (*models.MatchScore, error) {
	const op = "MatchService.storePlaceholder"

	rec := &models.MatchScore{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		ProjectID:   projectID,
		Score:       0,
		Explanation: datatypes.NewJSONType(models.ExplanationPayload{
			Version:       models.ExplanationVersion,
			PrimaryReason: InsufficientDataReason,
		}),
		EvaluatedAt: time.Now().UTC(),
	}
	if err := s.Scores.Upsert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store placeholder score", err)
	}

	s.auditLog(&mongorepo.MatchAudit{
		CandidateID: candidateID,
		ProjectID:   projectID,
		Outcome:     "insufficient",
		EvaluatedAt: rec.EvaluatedAt,
	})
	return rec, nil
}

// explainMatch runs the explanation provider under its timeout. Any failure
// (outage, timeout, malformed response) yields nil and is non-fatal.
func (s *matchService) explainMatch(ctx context.Context, log *logrus.Entry, cand *models.Candidate, proj *models.Project, overall float64) *explain.Result {
	if s.Explainer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.ExplainTimeout)
	defer cancel()

	out, err := s.Explainer.Explain(ctx, explain.Request{
		CandidateSummary: cand.Summary(),
		ProjectSummary:   proj.Summary(),
		OverallScore:     overall,
	})
	if err != nil {
		if errors.Is(err, explain.ErrMalformed) {
			log.WithError(err).Warn("explanation response unparseable, using fallback")
		} else {
			log.WithError(err).Warn("explanation provider failed, using fallback")
		}
		return nil
	}
	return out
}

func fallbackExplanation() models.ExplanationPayload {
	return models.ExplanationPayload{
		Version:           models.ExplanationVersion,
		PrimaryReason:     "A detailed analysis is not available for this match right now.",
		AdditionalReasons: []string{"The score reflects the semantic similarity between both profiles."},
	}
}

func (s *matchService) Recommend(ctx context.Context, candidateID string) ([]Recommendation, error) {
	const op = "MatchService.Recommend"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}

	key := cache.RecommendationKey(candidateID)
	if s.Snapshots != nil {
		var snap []Recommendation
		hit, err := s.Snapshots.GetJSON(ctx, key, &snap)
		if err != nil {
			s.Logger.WithError(err).Warn("recommendation snapshot lookup failed")
		} else if hit {
			return snap, nil
		}
	}

	projects, err := s.Projects.ListOpen(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list open projects", err)
	}

	out := make([]Recommendation, 0, len(projects))
	for i := range projects {
		p := projects[i]
		rec, err := s.GetOrCreateMatch(ctx, candidateID, p.ID)
		if err != nil {
			// one broken pair must not fail the whole listing
			s.Logger.WithError(err).WithField("project_id", p.ID).Warn("skipping project in recommendation sweep")
			continue
		}
		out = append(out, Recommendation{
			Project:          p,
			Score:            rec.Score,
			TechScore:        rec.TechScore,
			DispositionScore: rec.DispositionScore,
			ExperienceScore:  rec.ExperienceScore,
			Explanation:      rec.Explanation.Data(),
		})
	}

	// descending by score; stable so equal scores keep enumeration order
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if s.Snapshots != nil {
		if err := s.Snapshots.SetJSON(ctx, key, out, cache.RecommendationTTL); err != nil {
			s.Logger.WithError(err).Warn("failed to store recommendation snapshot")
		}
	}
	return out, nil
}

// RecommendCandidates is not snapshot-cached: per-pair scores already are,
// and any candidate's profile change would stale a project-side snapshot.
func (s *matchService) RecommendCandidates(ctx context.Context, projectID string) ([]CandidateRecommendation, error) {
	const op = "MatchService.RecommendCandidates"

	if projectID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "project_id is required", nil)
	}
	proj, err := s.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "project not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load project", err)
	}

	candidates, err := s.Candidates.ListActive(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}

	out := make([]CandidateRecommendation, 0, len(candidates))
	for i := range candidates {
		cand := candidates[i]
		if cand.ID == proj.OwnerID {
			continue
		}
		rec, err := s.GetOrCreateMatch(ctx, cand.ID, projectID)
		if err != nil {
			s.Logger.WithError(err).WithField("candidate_id", cand.ID).Warn("skipping candidate in recommendation sweep")
			continue
		}
		out = append(out, CandidateRecommendation{
			Candidate:        cand,
			Score:            rec.Score,
			TechScore:        rec.TechScore,
			DispositionScore: rec.DispositionScore,
			ExperienceScore:  rec.ExperienceScore,
			Explanation:      rec.Explanation.Data(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *matchService) PrecomputeForCandidate(ctx context.Context, candidateID string) (int, error) {
	const op = "MatchService.PrecomputeForCandidate"

	projects, err := s.Projects.ListOpen(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list open projects", err)
	}

	done := 0
	for i := range projects {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.GetOrCreateMatch(ctx, candidateID, projects[i].ID); err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"candidate_id": candidateID,
				"project_id":   projects[i].ID,
			}).Warn("precompute pair failed")
			continue
		}
		done++
	}
	return done, nil
}

func (s *matchService) PrecomputeForProject(ctx context.Context, projectID string) (int, error) {
	const op = "MatchService.PrecomputeForProject"

	candidates, err := s.Candidates.ListActive(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}

	done := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.GetOrCreateMatch(ctx, candidates[i].ID, projectID); err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"candidate_id": candidates[i].ID,
				"project_id":   projectID,
			}).Warn("precompute pair failed")
			continue
		}
		done++
	}
	return done, nil
}

func (s *matchService) auditLog(a *mongorepo.MatchAudit) {
	if s.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Audit.Insert(ctx, a); err != nil {
		s.Logger.WithError(err).Warn("match audit write failed")
	}
}

// lockPair serializes computation of one pair within this process. Entries
// are kept for the process lifetime; the map is bounded by the pair count.
func (s *matchService) lockPair(key string) func() {
	s.mu.Lock()
	m, ok := s.pairs[key]
	if !ok {
		m = &sync.Mutex{}
		s.pairs[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
