package timeline

import (
	"fmt"

	"planhub/internal/model"
)

type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewMonth, ViewWeek:
		return ViewMode(s), nil
	case "":
		return ViewMonth, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Grid returns the bucket-start dates labeling the axis, stepping one
// calendar month or seven days from r.Start while inside the range. Month
// buckets are always whole because the range is month-aligned; in week mode
// the final bucket may cover fewer than seven days.
func Grid(r Range, mode ViewMode) []model.Date {
	var buckets []model.Date
	current := r.Start
	for !current.After(r.End) {
		buckets = append(buckets, current)
		if mode == ViewWeek {
			current = model.NewDate(current.Year(), current.Month(), current.Day()+7)
		} else {
			current = model.NewDate(current.Year(), current.Month()+1, current.Day())
		}
	}
	return buckets
}
