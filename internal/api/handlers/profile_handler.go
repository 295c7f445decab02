package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adit-wn/teamlane/internal/services"
	"github.com/adit-wn/teamlane/internal/utils"
)

type ProfileHandler struct {
	svc services.CandidateService
}

func NewProfileHandler(svc services.CandidateService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	cand, err := h.svc.Get(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cand)
}

type UpdateProfileRequest struct {
	Name            *string   `json:"name,omitempty"`
	Major           *string   `json:"major,omitempty"`
	Specialty       *string   `json:"specialty,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
	ExperienceLevel *string   `json:"experience_level,omitempty"`
	PreferredTopics *string   `json:"preferred_topics,omitempty"`
	CollabStyle     *string   `json:"collab_style,omitempty"`
	Introduction    *string   `json:"introduction,omitempty"`
}

// Update applies a partial profile update. Any change invalidates the
// candidate's embeddings and cached match scores.
func (h *ProfileHandler) Update(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	existing, err := h.svc.Get(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Major != nil {
		existing.Major = *req.Major
	}
	if req.Specialty != nil {
		existing.Specialty = *req.Specialty
	}
	if req.Skills != nil {
		existing.Skills = *req.Skills
	}
	if req.ExperienceLevel != nil {
		existing.ExperienceLevel = *req.ExperienceLevel
	}
	if req.PreferredTopics != nil {
		existing.PreferredTopics = *req.PreferredTopics
	}
	if req.CollabStyle != nil {
		existing.CollabStyle = *req.CollabStyle
	}
	if req.Introduction != nil {
		existing.Introduction = *req.Introduction
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), existing); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}
