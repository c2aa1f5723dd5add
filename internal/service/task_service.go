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
	"planhub/internal/taskfilter"
	"planhub/internal/timeline"
	"planhub/pkg/metrics"
)

type TaskService struct {
	projects  ProjectStore
	tasks     TaskStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewTaskService(projects ProjectStore, tasks TaskStore, publisher EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		projects:  projects,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger,
	}
}

// checkAccess confirms the caller can see the project. Missing and forbidden
// are both ErrNotFound, same as the project reads.
func (s *TaskService) checkAccess(ctx context.Context, projectID, email string) error {
	_, err := s.projects.FindByIDForUser(ctx, projectID, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, projectID string, t *model.Task, email string) (*model.Task, error) {
	if err := s.checkAccess(ctx, projectID, email); err != nil {
		return nil, err
	}

	t.ProjectID = projectID
	t.CreatedBy = email
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	snapshot, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(t, snapshot); err != nil {
		return nil, err
	}

	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	metrics.IncrementTaskCreated(string(t.TaskType))
	s.publish(mq.RoutingTaskCreated, taskEvent(t, email))
	return t, nil
}

// List returns the project's tasks narrowed and ordered by the given filter
// and sort spec.
func (s *TaskService) List(ctx context.Context, projectID, email string, f taskfilter.Filter, sort taskfilter.Sort) ([]model.Task, error) {
	if err := s.checkAccess(ctx, projectID, email); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return taskfilter.Apply(tasks, f, sort), nil
}

func (s *TaskService) Get(ctx context.Context, projectID, taskID, email string) (*model.Task, error) {
	if err := s.checkAccess(ctx, projectID, email); err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByID(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, projectID, taskID, email string, apply func(*model.Task)) (*model.Task, error) {
	t, err := s.Get(ctx, projectID, taskID, email)
	if err != nil {
		return nil, err
	}

	apply(t)
	t.ID = taskID
	t.ProjectID = projectID
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	snapshot, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(t, snapshot); err != nil {
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}

	s.publish(mq.RoutingTaskUpdated, taskEvent(t, email))
	return t, nil
}

// Complete is the quick action: status becomes completed and the completion
// percentage is forced to 100.
func (s *TaskService) Complete(ctx context.Context, projectID, taskID, email string) (*model.Task, error) {
	t, err := s.Get(ctx, projectID, taskID, email)
	if err != nil {
		return nil, err
	}

	t.Status = model.StatusCompleted
	t.CompletionPercentage = 100

	updated, err := s.tasks.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}

	s.publish(mq.RoutingTaskCompleted, taskEvent(t, email))
	return t, nil
}

// Delete removes the task after scrubbing every dependency and parent_epic
// reference that points at it, so no sibling is left with a dangling id.
func (s *TaskService) Delete(ctx context.Context, projectID, taskID, email string) error {
	t, err := s.Get(ctx, projectID, taskID, email)
	if err != nil {
		return err
	}

	if err := s.tasks.ClearReferences(ctx, projectID, taskID); err != nil {
		return err
	}

	deleted, err := s.tasks.Delete(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.publish(mq.RoutingTaskDeleted, taskEvent(t, email))
	return nil
}

// checkReferences validates parent_epic and dependency ids against the
// project snapshot. Dangling references are rejected here, at the write
// boundary; reads tolerate them instead.
func (s *TaskService) checkReferences(t *model.Task, snapshot []model.Task) error {
	ix := model.NewTaskIndex(snapshot)

	if t.ParentEpic != "" {
		parent, ok := ix[t.ParentEpic]
		if !ok {
			return fmt.Errorf("%w: parent epic %s does not exist", ErrInvalid, t.ParentEpic)
		}
		if parent.TaskType != model.TypeEpic {
			return fmt.Errorf("%w: parent task %s is not an epic", ErrInvalid, t.ParentEpic)
		}
	}

	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return fmt.Errorf("%w: task cannot depend on itself", ErrInvalid)
		}
		if _, ok := ix[dep]; !ok {
			return fmt.Errorf("%w: dependency %s does not exist in this project", ErrInvalid, dep)
		}
	}
	return nil
}

// TimelineEntry pairs a task with its bar geometry. A nil bar means the task
// has no complete date range and gets a placeholder row.
type TimelineEntry struct {
	Task model.Task    `json:"task"`
	Bar  *timeline.Bar `json:"bar,omitempty"`
}

type DependencyEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type TimelineView struct {
	ProjectID    string            `json:"project_id"`
	View         timeline.ViewMode `json:"view"`
	Range        timeline.Range    `json:"range"`
	Buckets      []model.Date      `json:"buckets"`
	Tasks        []TimelineEntry   `json:"tasks"`
	Milestones   []TimelineEntry   `json:"milestones"`
	Dependencies []DependencyEdge  `json:"dependencies"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Timeline assembles the Gantt view for a project: the covering range, the
// axis buckets for the requested view mode, and a bar per positionable task.
// Tasks whose end precedes their start are excluded with a warning instead of
// producing a negative-width bar.
func (s *TaskService) Timeline(ctx context.Context, projectID, email string, f taskfilter.Filter, mode timeline.ViewMode, now time.Time) (*TimelineView, error) {
	if err := s.checkAccess(ctx, projectID, email); err != nil {
		return nil, err
	}

	snapshot, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() {
		metrics.TimelineComputeDuration.Observe(time.Since(started).Seconds())
	}()

	tasks := taskfilter.Apply(snapshot, f, taskfilter.Sort{})
	r := timeline.CalculateRange(tasks, now)

	view := &TimelineView{
		ProjectID:    projectID,
		View:         mode,
		Range:        r,
		Buckets:      timeline.Grid(r, mode),
		Tasks:        []TimelineEntry{},
		Milestones:   []TimelineEntry{},
		Dependencies: []DependencyEdge{},
	}

	ix := model.NewTaskIndex(tasks)
	for _, t := range tasks {
		bar, err := timeline.TaskPosition(t, r)
		if err != nil {
			s.logger.Warn("Excluding task with inconsistent dates from timeline",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			view.Warnings = append(view.Warnings, fmt.Sprintf("task %s: %v", t.ID, err))
			continue
		}

		entry := TimelineEntry{Task: t, Bar: bar}
		if t.TaskType == model.TypeMilestone {
			view.Milestones = append(view.Milestones, entry)
		} else {
			view.Tasks = append(view.Tasks, entry)
		}

		// Dangling dependency ids are dropped here rather than surfaced:
		// the edge list only ever references tasks present in the view.
		for _, dep := range ix.Dependencies(t) {
			view.Dependencies = append(view.Dependencies, DependencyEdge{
				From: dep.ID,
				To:   t.ID,
			})
		}
	}
	return view, nil
}

func taskEvent(t *model.Task, actor string) mq.TaskEvent {
	return mq.TaskEvent{
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
		Name:      t.Name,
		TaskType:  string(t.TaskType),
		Status:    string(t.Status),
		Actor:     actor,
		Occurred:  time.Now(),
	}
}

func (s *TaskService) publish(routingKey string, payload any) {
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
