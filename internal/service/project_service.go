package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/internal/mq"
	"planhub/internal/stats"
	"planhub/pkg/metrics"
)

type ProjectService struct {
	projects  ProjectStore
	tasks     TaskStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewProjectService(projects ProjectStore, tasks TaskStore, publisher EventPublisher, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects:  projects,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, p *model.Project, ownerEmail string) (*model.Project, error) {
	p.Owner = ownerEmail
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if err := s.projects.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.publish(mq.RoutingProjectCreated, mq.ProjectEvent{
		ProjectID: p.ID,
		Name:      p.Name,
		Owner:     p.Owner,
		Occurred:  time.Now(),
	})
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, email string, skip, limit int) ([]model.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.projects.ListForUser(ctx, email, skip, limit)
}

func (s *ProjectService) Get(ctx context.Context, projectID, email string) (*model.Project, error) {
	p, err := s.projects.FindByIDForUser(ctx, projectID, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update applies the changed fields. Only the owner may update; a project the
// caller cannot update reads as not found.
func (s *ProjectService) Update(ctx context.Context, projectID, email string, apply func(*model.Project)) (*model.Project, error) {
	p, err := s.Get(ctx, projectID, email)
	if err != nil {
		return nil, err
	}

	apply(p)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	updated, err := s.projects.Update(ctx, p, email)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}
	return p, nil
}

// Delete removes the project and all of its tasks. The cascade is explicit:
// tasks go first so a failure never leaves them orphaned without a project.
func (s *ProjectService) Delete(ctx context.Context, projectID, email string) error {
	p, err := s.Get(ctx, projectID, email)
	if err != nil {
		return err
	}
	if p.Owner != email {
		return ErrNotFound
	}

	if _, err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	deleted, err := s.projects.Delete(ctx, projectID, email)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.publish(mq.RoutingProjectDeleted, mq.ProjectEvent{
		ProjectID: p.ID,
		Name:      p.Name,
		Owner:     p.Owner,
		Occurred:  time.Now(),
	})
	return nil
}

// Stats recomputes the project's completion figures from the current task
// snapshot.
type ProjectStats struct {
	ProjectID            string           `json:"project_id"`
	CompletionPercentage int              `json:"completion_percentage"`
	Counts               stats.TaskCounts `json:"counts"`
	Epics                []EpicRollup     `json:"epics"`
}

type EpicRollup struct {
	EpicID               string `json:"epic_id"`
	Name                 string `json:"name"`
	ChildCount           int    `json:"child_count"`
	CompletionPercentage int    `json:"completion_percentage"`
}

func (s *ProjectService) Stats(ctx context.Context, projectID, email string, now time.Time) (*ProjectStats, error) {
	if _, err := s.Get(ctx, projectID, email); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := &ProjectStats{
		ProjectID:            projectID,
		CompletionPercentage: stats.ProjectCompletion(tasks),
		Counts:               stats.CountTasks(tasks, now),
		Epics:                []EpicRollup{},
	}

	ix := model.NewTaskIndex(tasks)
	for _, t := range tasks {
		if t.TaskType != model.TypeEpic {
			continue
		}
		children := ix.ChildrenOf(tasks, t.ID)
		out.Epics = append(out.Epics, EpicRollup{
			EpicID:               t.ID,
			Name:                 t.Name,
			ChildCount:           len(children),
			CompletionPercentage: stats.AverageCompletion(children),
		})
	}
	return out, nil
}

func (s *ProjectService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		metrics.IncrementEventPublished(routingKey, "failed")
		s.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return
	}
	metrics.IncrementEventPublished(routingKey, "success")
}
