// Package timeline computes the shared date axis for the Gantt view: the
// covering date range, the axis buckets, and the percentage-based bar
// geometry of each task. Everything here is a pure function of its inputs;
// the reference instant is always passed in, never read from a clock.
package timeline

import (
	"time"

	"planhub/internal/model"
)

// Range is the date window covering all visible tasks. Start is always the
// first day of a month and End the last day of a month, so the month grid has
// no partial first or last column.
type Range struct {
	Start model.Date `json:"start"`
	End   model.Date `json:"end"`
}

// TotalDays is the whole-day span End - Start, the denominator for bar
// positioning. Always positive because Start and End sit on month boundaries.
func (r Range) TotalDays() int {
	return r.Start.DaysUntil(r.End)
}

// CalculateRange derives the covering window for the given tasks. With no
// dated tasks it falls back to a three-month window anchored at the current
// month of now.
func CalculateRange(tasks []model.Task, now time.Time) Range {
	var dates []model.Date
	for _, t := range tasks {
		if t.StartDate != nil {
			dates = append(dates, *t.StartDate)
		}
		if t.EndDate != nil {
			dates = append(dates, *t.EndDate)
		}
	}

	if len(dates) == 0 {
		return Range{
			Start: monthStart(model.DateOf(now)),
			End:   monthEnd(model.NewDate(now.Year(), now.Month()+2, 1)),
		}
	}

	min, max := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}

	return Range{Start: monthStart(min), End: monthEnd(max)}
}

func monthStart(d model.Date) model.Date {
	return model.NewDate(d.Year(), d.Month(), 1)
}

// monthEnd relies on time.Date normalizing day 0 of the next month to the
// last day of this one.
func monthEnd(d model.Date) model.Date {
	return model.NewDate(d.Year(), d.Month()+1, 0)
}
