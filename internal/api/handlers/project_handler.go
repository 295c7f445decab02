package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/services"
	"github.com/adit-wn/teamlane/internal/utils"
)

type ProjectHandler struct {
	svc services.ProjectService
}

func NewProjectHandler(svc services.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Goal        string   `json:"goal"`
	TechStack   []string `json:"tech_stack"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProjectHandler.Create", "invalid request body", err))
		return
	}

	p := &models.Project{
		OwnerID:     candidateID,
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		TechStack:   req.TechStack,
		IsOpen:      true,
	}
	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.ListOpen(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type UpdateProjectRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Goal        *string   `json:"goal,omitempty"`
	TechStack   *[]string `json:"tech_stack,omitempty"`
	IsOpen      *bool     `json:"is_open,omitempty"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	existing, err := h.svc.Get(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if existing.OwnerID != candidateID && !isAdmin(c) {
		writeError(c, utils.E(utils.CodeForbidden, "ProjectHandler.Update", "only the owner can update a project", nil))
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProjectHandler.Update", "invalid request body", err))
		return
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Goal != nil {
		existing.Goal = *req.Goal
	}
	if req.TechStack != nil {
		existing.TechStack = *req.TechStack
	}
	if req.IsOpen != nil {
		existing.IsOpen = *req.IsOpen
	}

	if err := h.svc.Update(c.Request.Context(), existing); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("project_id"), candidateID, isAdmin(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
