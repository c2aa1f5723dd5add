package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/internal/mq"
	"planhub/internal/service"
)

func newProjectFixture() (*service.ProjectService, *fakeProjectStore, *fakeTaskStore, *fakePublisher) {
	projects := newFakeProjectStore()
	tasks := &fakeTaskStore{}
	publisher := &fakePublisher{}
	return service.NewProjectService(projects, tasks, publisher, zap.NewNop()), projects, tasks, publisher
}

func TestProjectCreate(t *testing.T) {
	svc, _, _, publisher := newProjectFixture()

	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, ownerEmail, p.Owner)
	assert.Equal(t, []string{mq.RoutingProjectCreated}, publisher.keys())
}

func TestProjectCreate_RejectsEmptyName(t *testing.T) {
	svc, _, _, _ := newProjectFixture()

	_, err := svc.Create(context.Background(), &model.Project{Name: "  "}, ownerEmail)

	assert.ErrorIs(t, err, service.ErrInvalid)
}

func TestProjectGet_VisibilityRules(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{
		Name:        "Apollo",
		TeamMembers: []string{memberEmail},
	}, ownerEmail)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), p.ID, ownerEmail)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), p.ID, memberEmail)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), p.ID, outsiderEmail)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProjectUpdate(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), p.ID, ownerEmail, func(p *model.Project) {
		p.Name = "Artemis"
		p.Status = model.StatusInProgress
	})

	require.NoError(t, err)
	assert.Equal(t, "Artemis", updated.Name)

	got, err := svc.Get(context.Background(), p.ID, ownerEmail)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestProjectUpdate_ValidationFailureLeavesStoreUntouched(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p.ID, ownerEmail, func(p *model.Project) {
		p.Name = ""
	})
	assert.ErrorIs(t, err, service.ErrInvalid)

	got, err := svc.Get(context.Background(), p.ID, ownerEmail)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)
}

func TestProjectDelete_CascadesTasks(t *testing.T) {
	svc, _, tasks, publisher := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	for _, name := range []string{"a", "b"} {
		task := model.Task{ProjectID: p.ID, Name: name, TaskType: model.TypeTask}
		require.NoError(t, tasks.Insert(context.Background(), &task))
	}

	require.NoError(t, svc.Delete(context.Background(), p.ID, ownerEmail))

	left, err := tasks.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = svc.Get(context.Background(), p.ID, ownerEmail)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Contains(t, publisher.keys(), mq.RoutingProjectDeleted)
}

func TestProjectDelete_MemberCannotDelete(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{
		Name:        "Apollo",
		TeamMembers: []string{memberEmail},
	}, ownerEmail)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), p.ID, memberEmail)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Get(context.Background(), p.ID, ownerEmail)
	assert.NoError(t, err)
}

func TestProjectStats(t *testing.T) {
	svc, _, tasks, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	past := model.NewDate(2024, time.June, 1)

	fixture := []model.Task{
		{ID: "e1", ProjectID: p.ID, Name: "epic", TaskType: model.TypeEpic, Status: model.StatusInProgress},
		{ID: "c1", ProjectID: p.ID, Name: "child one", TaskType: model.TypeTask, Status: model.StatusCompleted, ParentEpic: "e1", CompletionPercentage: 100},
		{ID: "c2", ProjectID: p.ID, Name: "child two", TaskType: model.TypeTask, Status: model.StatusInProgress, ParentEpic: "e1", CompletionPercentage: 50, EndDate: &past},
		{ID: "t1", ProjectID: p.ID, Name: "loose", TaskType: model.TypeTask, Status: model.StatusNotStarted},
	}
	for i := range fixture {
		require.NoError(t, tasks.Insert(context.Background(), &fixture[i]))
	}

	got, err := svc.Stats(context.Background(), p.ID, ownerEmail, now)
	require.NoError(t, err)

	// One of four tasks completed.
	assert.Equal(t, 25, got.CompletionPercentage)
	assert.Equal(t, 4, got.Counts.Total)
	assert.Equal(t, 1, got.Counts.Completed)
	assert.Equal(t, 1, got.Counts.Overdue)

	require.Len(t, got.Epics, 1)
	assert.Equal(t, "e1", got.Epics[0].EpicID)
	assert.Equal(t, 2, got.Epics[0].ChildCount)
	assert.Equal(t, 75, got.Epics[0].CompletionPercentage)
}

func TestProjectStats_EmptyProject(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	got, err := svc.Stats(context.Background(), p.ID, ownerEmail, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, got.CompletionPercentage)
	assert.Equal(t, 0, got.Counts.Total)
	assert.Empty(t, got.Epics)
}

func TestProjectList_ClampsPagination(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	_, err := svc.Create(context.Background(), &model.Project{Name: "Apollo"}, ownerEmail)
	require.NoError(t, err)

	got, err := svc.List(context.Background(), ownerEmail, -5, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(context.Background(), outsiderEmail, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
