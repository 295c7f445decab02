package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mongorepo "github.com/adit-wn/teamlane/internal/repositories/mongo"
	"github.com/adit-wn/teamlane/internal/services"
	"github.com/adit-wn/teamlane/internal/utils"
)

type MatchHandler struct {
	matches  services.MatchService
	projects services.ProjectService
	queue    services.MatchEnqueuer
	audit    mongorepo.AuditRepository
}

func NewMatchHandler(matches services.MatchService, projects services.ProjectService, queue services.MatchEnqueuer, audit mongorepo.AuditRepository) *MatchHandler {
	return &MatchHandler{matches: matches, projects: projects, queue: queue, audit: audit}
}

// Get returns the match between the authenticated candidate and one project,
// computing it on first access.
func (h *MatchHandler) Get(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	projectID := c.Param("project_id")
	if projectID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.Get", "missing project_id", nil))
		return
	}

	rec, err := h.matches.GetOrCreateMatch(c.Request.Context(), candidateID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Recommendations returns all open projects ranked for the candidate.
func (h *MatchHandler) Recommendations(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	out, err := h.matches.Recommend(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": out})
}

// CandidateRecommendations returns all candidates ranked for one project.
// Restricted to the project owner and admins.
func (h *MatchHandler) CandidateRecommendations(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	projectID := c.Param("project_id")
	proj, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	if proj.OwnerID != candidateID && !isAdmin(c) {
		writeError(c, utils.E(utils.CodeForbidden, "MatchHandler.CandidateRecommendations", "only the owner can list candidates for a project", nil))
		return
	}

	out, err := h.matches.RecommendCandidates(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": out})
}

// Precompute enqueues a background sweep for the candidate so the next
// recommendation listing hits warm cache.
func (h *MatchHandler) Precompute(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	if h.queue == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "MatchHandler.Precompute", "task queue is not configured", nil))
		return
	}
	if err := h.queue.EnqueueCandidate(c.Request.Context(), candidateID); err != nil {
		writeError(c, utils.E(utils.CodeInternal, "MatchHandler.Precompute", "failed to enqueue precompute", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// AuditLog exposes the provider-call audit trail for one candidate. Admin
// only; wired behind RequireAdmin in routes.
func (h *MatchHandler) AuditLog(c *gin.Context) {
	if h.audit == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "MatchHandler.AuditLog", "audit store is not configured", nil))
		return
	}

	candidateID := c.Param("candidate_id")
	if candidateID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.AuditLog", "missing candidate_id", nil))
		return
	}

	entries, err := h.audit.ListByCandidate(c.Request.Context(), candidateID, 100)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "MatchHandler.AuditLog", "failed to list audit entries", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
