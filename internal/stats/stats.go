// Package stats derives the completion figures shown on dashboards and
// project cards. Nothing here is cached: consumers recompute from the current
// snapshot after any mutation.
package stats

import (
	"math"
	"time"

	"planhub/internal/model"
)

// ProjectCompletion is the share of completed tasks, rounded to a whole
// percent. Empty input yields 0.
func ProjectCompletion(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// AverageCompletion rolls up per-task completion percentages, rounded to a
// whole percent. Used for epics, where the per-task figure is more telling
// than a binary completed/not split. Empty input yields 0.
func AverageCompletion(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tasks {
		sum += t.CompletionPercentage
	}
	return int(math.Round(sum / float64(len(tasks))))
}

type TaskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	NotStarted int `json:"not_started"`
	Overdue    int `json:"overdue"`
}

// CountTasks tallies the status buckets shown on the project detail screen.
// A task is overdue when its end date has passed and it is neither completed
// nor cancelled.
func CountTasks(tasks []model.Task, now time.Time) TaskCounts {
	c := TaskCounts{Total: len(tasks)}
	today := model.DateOf(now)
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			c.Completed++
		case model.StatusInProgress:
			c.InProgress++
		case model.StatusNotStarted:
			c.NotStarted++
		}
		if t.EndDate != nil && t.EndDate.Before(today) &&
			t.Status != model.StatusCompleted && t.Status != model.StatusCancelled {
			c.Overdue++
		}
	}
	return c
}
