package timeline

import (
	"errors"

	"planhub/internal/model"
)

// ErrInvalidRange marks a task whose end date precedes its start date. Such a
// task is excluded from rendering rather than drawn with a negative width.
var ErrInvalidRange = errors.New("task end date precedes start date")

// Bar is the horizontal geometry of one task row, as percentages of the full
// axis width.
type Bar struct {
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

// TaskPosition projects a task's dates onto the range. It returns (nil, nil)
// when either date is missing: the task has no bar and the caller renders a
// placeholder. Milestones get the same projection as any other task; drawing
// them as point markers is the renderer's concern.
//
// The clamps guarantee left in [0,100], width >= 0 and left+width <= 100 even
// for dates outside the range, so a bar can never overflow the axis.
func TaskPosition(t model.Task, r Range) (*Bar, error) {
	if t.StartDate == nil || t.EndDate == nil {
		return nil, nil
	}
	if t.EndDate.Before(*t.StartDate) {
		return nil, ErrInvalidRange
	}

	totalDays := r.TotalDays()
	startOffset := r.Start.DaysUntil(*t.StartDate)
	if startOffset < 0 {
		startOffset = 0
	}
	// Duration counts both endpoints, so a same-day task is one day wide.
	duration := t.StartDate.DaysUntil(*t.EndDate) + 1

	left := float64(startOffset) / float64(totalDays) * 100
	if left > 100 {
		left = 100
	}
	width := float64(duration) / float64(totalDays) * 100
	if width > 100-left {
		width = 100 - left
	}
	if width < 0 {
		width = 0
	}

	return &Bar{LeftPercent: left, WidthPercent: width}, nil
}
