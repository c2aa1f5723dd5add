package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/internal/model"
)

func validTask() model.Task {
	return model.Task{
		Name:     "Implement search",
		TaskType: model.TypeTask,
		Status:   model.StatusNotStarted,
		Priority: model.PriorityMedium,
	}
}

func TestTaskValidate_DefaultsEmptyEnums(t *testing.T) {
	task := model.Task{Name: "bare"}

	require.NoError(t, task.Validate())

	assert.Equal(t, model.TypeTask, task.TaskType)
	assert.Equal(t, model.StatusNotStarted, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
}

func TestTaskValidate_TrimsName(t *testing.T) {
	task := validTask()
	task.Name = "  padded  "

	require.NoError(t, task.Validate())
	assert.Equal(t, "padded", task.Name)
}

func TestTaskValidate_Rejections(t *testing.T) {
	start := model.NewDate(2024, time.March, 10)
	end := model.NewDate(2024, time.March, 1)
	negDuration := -1
	negEffort := -0.5

	cases := []struct {
		name   string
		mutate func(*model.Task)
	}{
		{"empty name", func(task *model.Task) { task.Name = "   " }},
		{"name too long", func(task *model.Task) { task.Name = strings.Repeat("x", model.MaxNameLength+1) }},
		{"description too long", func(task *model.Task) { task.Description = strings.Repeat("x", model.MaxDescriptionLength+1) }},
		{"unknown type", func(task *model.Task) { task.TaskType = "story" }},
		{"unknown status", func(task *model.Task) { task.Status = "done" }},
		{"unknown priority", func(task *model.Task) { task.Priority = "urgent" }},
		{"end before start", func(task *model.Task) { task.StartDate, task.EndDate = &start, &end }},
		{"negative duration", func(task *model.Task) { task.DurationDays = &negDuration }},
		{"negative effort", func(task *model.Task) { task.EffortHours = &negEffort }},
		{"completion below range", func(task *model.Task) { task.CompletionPercentage = -1 }},
		{"completion above range", func(task *model.Task) { task.CompletionPercentage = 101 }},
		{"epic with parent epic", func(task *model.Task) { task.TaskType = model.TypeEpic; task.ParentEpic = "e1" }},
		{"milestone with parent epic", func(task *model.Task) { task.TaskType = model.TypeMilestone; task.ParentEpic = "e1" }},
		{"self dependency", func(task *model.Task) { task.ID = "t1"; task.Dependencies = []string{"t1"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			assert.Error(t, task.Validate())
		})
	}
}

func TestTaskValidate_SingleDayRangeIsFine(t *testing.T) {
	day := model.NewDate(2024, time.March, 10)
	task := validTask()
	task.StartDate, task.EndDate = &day, &day

	assert.NoError(t, task.Validate())
}

func TestTaskValidate_DedupesTags(t *testing.T) {
	task := validTask()
	task.Tags = []string{"backend", "urgent", "backend", "  ", "api"}

	require.NoError(t, task.Validate())
	assert.Equal(t, []string{"backend", "urgent", "api"}, task.Tags)
}

func TestEnumParsing(t *testing.T) {
	status, err := model.ParseTaskStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, status)

	_, err = model.ParseTaskStatus("done")
	assert.Error(t, err)

	prio, err := model.ParsePriority("critical")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityCritical, prio)

	_, err = model.ParsePriority("urgent")
	assert.Error(t, err)

	typ, err := model.ParseTaskType("milestone")
	require.NoError(t, err)
	assert.Equal(t, model.TypeMilestone, typ)

	_, err = model.ParseTaskType("story")
	assert.Error(t, err)
}

func TestTaskIndex_ResolutionSkipsDanglingReferences(t *testing.T) {
	tasks := []model.Task{
		{ID: "e1", Name: "epic", TaskType: model.TypeEpic},
		{ID: "t1", Name: "child", TaskType: model.TypeTask, ParentEpic: "e1", Dependencies: []string{"t2", "ghost"}},
		{ID: "t2", Name: "dep", TaskType: model.TypeTask, ParentEpic: "gone"},
		{ID: "t3", Name: "bad parent", TaskType: model.TypeTask, ParentEpic: "t2"},
	}
	ix := model.NewTaskIndex(tasks)

	parent, ok := ix.ParentEpic(tasks[1])
	require.True(t, ok)
	assert.Equal(t, "e1", parent.ID)

	// Dangling parent id.
	_, ok = ix.ParentEpic(tasks[2])
	assert.False(t, ok)

	// Parent exists but is not an epic.
	_, ok = ix.ParentEpic(tasks[3])
	assert.False(t, ok)

	deps := ix.Dependencies(tasks[1])
	require.Len(t, deps, 1)
	assert.Equal(t, "t2", deps[0].ID)

	children := ix.ChildrenOf(tasks, "e1")
	require.Len(t, children, 1)
	assert.Equal(t, "t1", children[0].ID)
}
