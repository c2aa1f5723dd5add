package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

type Task struct {
	ID                   string         `json:"id"`
	ProjectID            string         `json:"project_id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	TaskType             TaskType       `json:"task_type"`
	Status               TaskStatus     `json:"status"`
	Priority             Priority       `json:"priority"`
	StartDate            *Date          `json:"start_date,omitempty"`
	EndDate              *Date          `json:"end_date,omitempty"`
	DurationDays         *int           `json:"duration_days,omitempty"`
	EffortHours          *float64       `json:"effort_hours,omitempty"`
	CompletionPercentage float64        `json:"completion_percentage"`
	AssignedTo           string         `json:"assigned_to,omitempty"`
	Dependencies         []string       `json:"dependencies"`
	ParentEpic           string         `json:"parent_epic,omitempty"`
	Tags                 []string       `json:"tags"`
	CustomFields         map[string]any `json:"custom_fields"`
	CreatedBy            string         `json:"created_by"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// Validate normalizes the task in place and checks every invariant that does
// not require looking at other tasks (cross-task reference checks live in the
// service layer, which has the project snapshot).
func (t *Task) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return errors.New("task name must not be empty")
	}
	if len(t.Name) > MaxNameLength {
		return fmt.Errorf("task name must be at most %d characters", MaxNameLength)
	}
	if len(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("task description must be at most %d characters", MaxDescriptionLength)
	}
	if t.TaskType == "" {
		t.TaskType = TypeTask
	}
	if !t.TaskType.Valid() {
		return fmt.Errorf("unknown task type %q", t.TaskType)
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q", t.Status)
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", t.Priority)
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return errors.New("task end date must not precede start date")
	}
	if t.DurationDays != nil && *t.DurationDays < 0 {
		return errors.New("duration days must not be negative")
	}
	if t.EffortHours != nil && *t.EffortHours < 0 {
		return errors.New("effort hours must not be negative")
	}
	if t.CompletionPercentage < 0 || t.CompletionPercentage > 100 {
		return errors.New("completion percentage must be between 0 and 100")
	}
	// Epics and milestones form a single level: they cannot be nested under
	// another epic.
	if t.ParentEpic != "" && t.TaskType != TypeTask {
		return fmt.Errorf("%s tasks cannot have a parent epic", t.TaskType)
	}
	for _, dep := range t.Dependencies {
		if dep == t.ID && t.ID != "" {
			return errors.New("task cannot depend on itself")
		}
	}
	t.Tags = dedupeTags(t.Tags)
	return nil
}

// dedupeTags keeps the first occurrence of each tag, preserving order.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
