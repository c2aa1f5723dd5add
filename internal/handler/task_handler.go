package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planhub/internal/httpserver/authctx"
	"planhub/internal/model"
	"planhub/internal/service"
	"planhub/internal/taskfilter"
	"planhub/internal/timeline"
)

type TaskHandler struct {
	tasks  *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type createTaskRequest struct {
	Name                 string         `json:"name" binding:"required"`
	Description          string         `json:"description"`
	TaskType             string         `json:"task_type"`
	Status               string         `json:"status"`
	Priority             string         `json:"priority"`
	StartDate            *model.Date    `json:"start_date"`
	EndDate              *model.Date    `json:"end_date"`
	DurationDays         *int           `json:"duration_days"`
	EffortHours          *float64       `json:"effort_hours"`
	CompletionPercentage float64        `json:"completion_percentage"`
	AssignedTo           string         `json:"assigned_to"`
	Dependencies         []string       `json:"dependencies"`
	ParentEpic           string         `json:"parent_epic"`
	Tags                 []string       `json:"tags"`
	CustomFields         map[string]any `json:"custom_fields"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := &model.Task{
		Name:                 req.Name,
		Description:          req.Description,
		TaskType:             model.TaskType(req.TaskType),
		Status:               model.TaskStatus(req.Status),
		Priority:             model.Priority(req.Priority),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		DurationDays:         req.DurationDays,
		EffortHours:          req.EffortHours,
		CompletionPercentage: req.CompletionPercentage,
		AssignedTo:           req.AssignedTo,
		Dependencies:         req.Dependencies,
		ParentEpic:           req.ParentEpic,
		Tags:                 req.Tags,
		CustomFields:         req.CustomFields,
	}

	created, err := h.tasks.Create(c.Request.Context(), c.Param("id"), t, authctx.Email(c))
	if err != nil {
		h.respondError(c, err, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List narrows the project's tasks by the query parameters: q (substring over
// name and description), type, status, priority, sort and order.
func (h *TaskHandler) List(c *gin.Context) {
	f, sort, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), c.Param("id"), authctx.Email(c), f, sort)
	if err != nil {
		h.respondError(c, err, "failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.tasks.Get(c.Request.Context(), c.Param("id"), c.Param("taskId"), authctx.Email(c))
	if err != nil {
		h.respondError(c, err, "failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateTaskRequest struct {
	Name                 *string         `json:"name"`
	Description          *string         `json:"description"`
	TaskType             *string         `json:"task_type"`
	Status               *string         `json:"status"`
	Priority             *string         `json:"priority"`
	StartDate            *model.Date     `json:"start_date"`
	EndDate              *model.Date     `json:"end_date"`
	DurationDays         *int            `json:"duration_days"`
	EffortHours          *float64        `json:"effort_hours"`
	CompletionPercentage *float64        `json:"completion_percentage"`
	AssignedTo           *string         `json:"assigned_to"`
	Dependencies         *[]string       `json:"dependencies"`
	ParentEpic           *string         `json:"parent_epic"`
	Tags                 *[]string       `json:"tags"`
	CustomFields         *map[string]any `json:"custom_fields"`
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), c.Param("id"), c.Param("taskId"), authctx.Email(c), func(t *model.Task) {
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.TaskType != nil {
			t.TaskType = model.TaskType(*req.TaskType)
		}
		if req.Status != nil {
			t.Status = model.TaskStatus(*req.Status)
		}
		if req.Priority != nil {
			t.Priority = model.Priority(*req.Priority)
		}
		if req.StartDate != nil {
			t.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			t.EndDate = req.EndDate
		}
		if req.DurationDays != nil {
			t.DurationDays = req.DurationDays
		}
		if req.EffortHours != nil {
			t.EffortHours = req.EffortHours
		}
		if req.CompletionPercentage != nil {
			t.CompletionPercentage = *req.CompletionPercentage
		}
		if req.AssignedTo != nil {
			t.AssignedTo = *req.AssignedTo
		}
		if req.Dependencies != nil {
			t.Dependencies = *req.Dependencies
		}
		if req.ParentEpic != nil {
			t.ParentEpic = *req.ParentEpic
		}
		if req.Tags != nil {
			t.Tags = *req.Tags
		}
		if req.CustomFields != nil {
			t.CustomFields = *req.CustomFields
		}
	})
	if err != nil {
		h.respondError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Complete(c *gin.Context) {
	t, err := h.tasks.Complete(c.Request.Context(), c.Param("id"), c.Param("taskId"), authctx.Email(c))
	if err != nil {
		h.respondError(c, err, "failed to complete task")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id"), c.Param("taskId"), authctx.Email(c)); err != nil {
		h.respondError(c, err, "failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Timeline returns the Gantt view: range, axis buckets and bar geometry for
// the filtered tasks.
func (h *TaskHandler) Timeline(c *gin.Context) {
	f, _, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := timeline.ParseViewMode(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.tasks.Timeline(c.Request.Context(), c.Param("id"), authctx.Email(c), f, mode, time.Now())
	if err != nil {
		h.respondError(c, err, "failed to compute timeline")
		return
	}
	c.JSON(http.StatusOK, view)
}

func parseFilter(c *gin.Context) (taskfilter.Filter, taskfilter.Sort, error) {
	f := taskfilter.Filter{Query: c.Query("q")}

	if v := c.Query("type"); v != "" {
		t, err := model.ParseTaskType(v)
		if err != nil {
			return f, taskfilter.Sort{}, err
		}
		f.TaskType = t
	}
	if v := c.Query("status"); v != "" {
		st, err := model.ParseTaskStatus(v)
		if err != nil {
			return f, taskfilter.Sort{}, err
		}
		f.Status = st
	}
	if v := c.Query("priority"); v != "" {
		p, err := model.ParsePriority(v)
		if err != nil {
			return f, taskfilter.Sort{}, err
		}
		f.Priority = p
	}

	sort := taskfilter.Sort{
		Field:     taskfilter.SortField(c.Query("sort")),
		Direction: taskfilter.SortDirection(c.DefaultQuery("order", "asc")),
	}
	return f, sort, nil
}

func (h *TaskHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg,
			zap.Error(err),
			zap.String("project_id", c.Param("id")),
			zap.String("task_id", c.Param("taskId")),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
