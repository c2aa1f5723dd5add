package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planhub/internal/httpserver/authctx"
	"planhub/internal/model"
	"planhub/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type createProjectRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	StartDate   *model.Date    `json:"start_date"`
	EndDate     *model.Date    `json:"end_date"`
	Status      string         `json:"status"`
	TeamMembers []string       `json:"team_members"`
	Settings    map[string]any `json:"settings"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      model.TaskStatus(req.Status),
		TeamMembers: req.TeamMembers,
		Settings:    req.Settings,
	}

	created, err := h.projects.Create(c.Request.Context(), p, authctx.Email(c))
	if err != nil {
		h.respondError(c, err, "failed to create project")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProjectHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	projects, err := h.projects.List(c.Request.Context(), authctx.Email(c), skip, limit)
	if err != nil {
		h.respondError(c, err, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"), authctx.Email(c))
	if err != nil {
		h.respondError(c, err, "failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProjectRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	StartDate   *model.Date     `json:"start_date"`
	EndDate     *model.Date     `json:"end_date"`
	Status      *string         `json:"status"`
	TeamMembers *[]string       `json:"team_members"`
	Settings    *map[string]any `json:"settings"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.projects.Update(c.Request.Context(), c.Param("id"), authctx.Email(c), func(p *model.Project) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.StartDate != nil {
			p.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			p.EndDate = req.EndDate
		}
		if req.Status != nil {
			p.Status = model.TaskStatus(*req.Status)
		}
		if req.TeamMembers != nil {
			p.TeamMembers = *req.TeamMembers
		}
		if req.Settings != nil {
			p.Settings = *req.Settings
		}
	})
	if err != nil {
		h.respondError(c, err, "failed to update project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id"), authctx.Email(c)); err != nil {
		h.respondError(c, err, "failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ProjectHandler) Stats(c *gin.Context) {
	st, err := h.projects.Stats(c.Request.Context(), c.Param("id"), authctx.Email(c), time.Now())
	if err != nil {
		h.respondError(c, err, "failed to compute project stats")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ProjectHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err), zap.String("project_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
