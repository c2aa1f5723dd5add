// Package taskfilter narrows and orders task snapshots for list and timeline
// views. Filters combine with AND semantics; an unset field matches
// everything. The functions never mutate their input, so the UI can re-apply
// them on every keystroke against the same snapshot.
package taskfilter

import (
	"sort"
	"strings"
	"time"

	"planhub/internal/model"
)

type Filter struct {
	Query    string
	TaskType model.TaskType
	Status   model.TaskStatus
	Priority model.Priority
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByStatus    SortField = "status"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "created_at"
	SortByEndDate   SortField = "end_date"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByStatus, SortByPriority, SortByCreatedAt, SortByEndDate:
		return true
	}
	return false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type Sort struct {
	Field     SortField
	Direction SortDirection
}

// Apply filters and sorts the snapshot, returning a new slice. Ties keep
// their original relative order (stable sort), and an empty sort spec leaves
// the snapshot order untouched.
func Apply(tasks []model.Task, f Filter, s Sort) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}

	if !s.Field.Valid() {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if s.Direction == Descending {
			return lessByField(out[j], out[i], s.Field)
		}
		return lessByField(out[i], out[j], s.Field)
	})
	return out
}

func (f Filter) Matches(t model.Task) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.TaskType != "" && t.TaskType != f.TaskType {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

func lessByField(a, b model.Task, field SortField) bool {
	switch field {
	case SortByName:
		return a.Name < b.Name
	case SortByStatus:
		return a.Status < b.Status
	case SortByPriority:
		return a.Priority < b.Priority
	case SortByCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortByEndDate:
		return sortableDate(a.EndDate).Before(sortableDate(b.EndDate))
	}
	return false
}

// sortableDate maps a missing date to the zero time, so undated tasks sort as
// the oldest.
func sortableDate(d *model.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
