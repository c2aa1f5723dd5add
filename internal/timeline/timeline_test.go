package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/internal/model"
	"planhub/internal/timeline"
)

func datePtr(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	return &d
}

func datedTask(start, end *model.Date) model.Task {
	return model.Task{
		Name:      "task",
		TaskType:  model.TypeTask,
		Status:    model.StatusNotStarted,
		Priority:  model.PriorityMedium,
		StartDate: start,
		EndDate:   end,
	}
}

func TestCalculateRange_EmptyFallsBackToThreeMonths(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

	r := timeline.CalculateRange(nil, now)

	assert.Equal(t, model.NewDate(2024, time.May, 1), r.Start)
	assert.Equal(t, model.NewDate(2024, time.July, 31), r.End)
}

func TestCalculateRange_UndatedTasksFallBackToDefault(t *testing.T) {
	now := time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{datedTask(nil, nil), datedTask(nil, nil)}

	r := timeline.CalculateRange(tasks, now)

	assert.Equal(t, model.NewDate(2024, time.November, 1), r.Start)
	// Three-month window crossing the year boundary.
	assert.Equal(t, model.NewDate(2025, time.January, 31), r.End)
}

func TestCalculateRange_RoundsToMonthBoundaries(t *testing.T) {
	tasks := []model.Task{
		datedTask(datePtr(2024, time.January, 5), datePtr(2024, time.January, 15)),
		datedTask(datePtr(2024, time.February, 1), datePtr(2024, time.February, 10)),
	}

	r := timeline.CalculateRange(tasks, time.Now())

	assert.Equal(t, model.NewDate(2024, time.January, 1), r.Start)
	assert.Equal(t, model.NewDate(2024, time.February, 29), r.End)
}

func TestCalculateRange_Invariants(t *testing.T) {
	cases := []struct {
		name  string
		tasks []model.Task
	}{
		{
			name: "single dated task",
			tasks: []model.Task{
				datedTask(datePtr(2023, time.July, 14), datePtr(2023, time.July, 14)),
			},
		},
		{
			name: "start only",
			tasks: []model.Task{
				datedTask(datePtr(2024, time.December, 31), nil),
			},
		},
		{
			name: "end only",
			tasks: []model.Task{
				datedTask(nil, datePtr(2022, time.March, 3)),
			},
		},
		{
			name: "spread across years",
			tasks: []model.Task{
				datedTask(datePtr(2023, time.November, 20), datePtr(2024, time.February, 2)),
				datedTask(datePtr(2024, time.June, 9), datePtr(2024, time.June, 30)),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := timeline.CalculateRange(tc.tasks, time.Now())

			assert.False(t, r.End.Before(r.Start))
			assert.Equal(t, 1, r.Start.Day(), "range start must be the 1st of a month")
			next := r.End.AddDate(0, 0, 1)
			assert.Equal(t, 1, next.Day(), "range end must be the last day of a month")
			assert.Greater(t, r.TotalDays(), 0)
		})
	}
}

func TestGrid_MonthMode(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.January, 1),
		End:   model.NewDate(2024, time.March, 31),
	}

	buckets := timeline.Grid(r, timeline.ViewMonth)

	require.Len(t, buckets, 3)
	assert.Equal(t, model.NewDate(2024, time.January, 1), buckets[0])
	assert.Equal(t, model.NewDate(2024, time.February, 1), buckets[1])
	assert.Equal(t, model.NewDate(2024, time.March, 1), buckets[2])
}

func TestGrid_WeekMode(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.January, 1),
		End:   model.NewDate(2024, time.January, 31),
	}

	buckets := timeline.Grid(r, timeline.ViewWeek)

	// Jan 1, 8, 15, 22, 29; the last bucket covers only three days.
	require.Len(t, buckets, 5)
	assert.Equal(t, model.NewDate(2024, time.January, 29), buckets[4])
}

func TestGrid_NeverEmpty(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.June, 1),
		End:   model.NewDate(2024, time.June, 30),
	}

	assert.Len(t, timeline.Grid(r, timeline.ViewMonth), 1)
	assert.NotEmpty(t, timeline.Grid(r, timeline.ViewWeek))
}

func TestParseViewMode(t *testing.T) {
	mode, err := timeline.ParseViewMode("week")
	require.NoError(t, err)
	assert.Equal(t, timeline.ViewWeek, mode)

	mode, err = timeline.ParseViewMode("")
	require.NoError(t, err)
	assert.Equal(t, timeline.ViewMonth, mode)

	_, err = timeline.ParseViewMode("quarter")
	assert.Error(t, err)
}

func TestTaskPosition_MissingDatesIsUnpositionable(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.January, 1),
		End:   model.NewDate(2024, time.March, 31),
	}

	for _, task := range []model.Task{
		datedTask(nil, nil),
		datedTask(datePtr(2024, time.January, 5), nil),
		datedTask(nil, datePtr(2024, time.January, 5)),
	} {
		bar, err := timeline.TaskPosition(task, r)
		require.NoError(t, err)
		assert.Nil(t, bar)
	}
}

func TestTaskPosition_RejectsInvertedDates(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.January, 1),
		End:   model.NewDate(2024, time.March, 31),
	}
	task := datedTask(datePtr(2024, time.February, 10), datePtr(2024, time.February, 1))

	bar, err := timeline.TaskPosition(task, r)

	assert.ErrorIs(t, err, timeline.ErrInvalidRange)
	assert.Nil(t, bar)
}

func TestTaskPosition_EndToEndScenario(t *testing.T) {
	taskA := datedTask(datePtr(2024, time.January, 5), datePtr(2024, time.January, 15))
	taskB := datedTask(datePtr(2024, time.February, 1), datePtr(2024, time.February, 10))

	r := timeline.CalculateRange([]model.Task{taskA, taskB}, time.Now())
	require.Equal(t, model.NewDate(2024, time.January, 1), r.Start)
	require.Equal(t, model.NewDate(2024, time.February, 29), r.End)

	total := float64(r.TotalDays())
	require.Equal(t, 59.0, total)

	barA, err := timeline.TaskPosition(taskA, r)
	require.NoError(t, err)
	require.NotNil(t, barA)
	// Four days offset, eleven days wide (both endpoints inclusive).
	assert.InDelta(t, 4.0/total*100, barA.LeftPercent, 1e-9)
	assert.InDelta(t, 11.0/total*100, barA.WidthPercent, 1e-9)

	barB, err := timeline.TaskPosition(taskB, r)
	require.NoError(t, err)
	require.NotNil(t, barB)
	assert.InDelta(t, 31.0/total*100, barB.LeftPercent, 1e-9)
	assert.InDelta(t, 10.0/total*100, barB.WidthPercent, 1e-9)
}

func TestTaskPosition_ClampsToAxis(t *testing.T) {
	r := timeline.Range{
		Start: model.NewDate(2024, time.February, 1),
		End:   model.NewDate(2024, time.February, 29),
	}

	cases := []struct {
		name string
		task model.Task
	}{
		{
			name: "starts before the range",
			task: datedTask(datePtr(2024, time.January, 1), datePtr(2024, time.February, 10)),
		},
		{
			name: "ends after the range",
			task: datedTask(datePtr(2024, time.February, 20), datePtr(2024, time.April, 30)),
		},
		{
			name: "fully outside the range",
			task: datedTask(datePtr(2025, time.January, 1), datePtr(2025, time.June, 30)),
		},
		{
			name: "single day milestone",
			task: datedTask(datePtr(2024, time.February, 15), datePtr(2024, time.February, 15)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bar, err := timeline.TaskPosition(tc.task, r)
			require.NoError(t, err)
			require.NotNil(t, bar)

			assert.GreaterOrEqual(t, bar.LeftPercent, 0.0)
			assert.LessOrEqual(t, bar.LeftPercent, 100.0)
			assert.GreaterOrEqual(t, bar.WidthPercent, 0.0)
			assert.LessOrEqual(t, bar.LeftPercent+bar.WidthPercent, 100.0)
		})
	}
}
