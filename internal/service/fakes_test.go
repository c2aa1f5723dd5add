package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"planhub/internal/model"
)

// In-memory stand-ins for the pgx repositories. They mirror the access rules
// the SQL predicates enforce: a project is visible to its owner and team
// members, and only the owner may update or delete it.

type fakeProjectStore struct {
	projects map[string]*model.Project
	seq      int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (s *fakeProjectStore) Insert(_ context.Context, p *model.Project) error {
	s.seq++
	p.ID = fmt.Sprintf("p%d", s.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *fakeProjectStore) ListForUser(_ context.Context, email string, skip, limit int) ([]model.Project, error) {
	var out []model.Project
	for _, p := range s.projects {
		if p.Owner == email || p.IsMember(email) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) FindByIDForUser(_ context.Context, id, email string) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok || (p.Owner != email && !p.IsMember(email)) {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProjectStore) Update(_ context.Context, p *model.Project, ownerEmail string) (bool, error) {
	existing, ok := s.projects[p.ID]
	if !ok || existing.Owner != ownerEmail {
		return false, nil
	}
	cp := *p
	cp.UpdatedAt = time.Now()
	s.projects[p.ID] = &cp
	return true, nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id, ownerEmail string) (bool, error) {
	p, ok := s.projects[id]
	if !ok || p.Owner != ownerEmail {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

type fakeTaskStore struct {
	tasks []model.Task
	seq   int
}

func (s *fakeTaskStore) Insert(_ context.Context, t *model.Task) error {
	s.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("t%d", s.seq)
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.tasks = append(s.tasks, *t)
	return nil
}

func (s *fakeTaskStore) ListByProject(_ context.Context, projectID string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) FindByID(_ context.Context, projectID, taskID string) (*model.Task, error) {
	for _, t := range s.tasks {
		if t.ProjectID == projectID && t.ID == taskID {
			cp := t
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeTaskStore) Update(_ context.Context, t *model.Task) (bool, error) {
	for i := range s.tasks {
		if s.tasks[i].ProjectID == t.ProjectID && s.tasks[i].ID == t.ID {
			cp := *t
			cp.UpdatedAt = time.Now()
			s.tasks[i] = cp
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, projectID, taskID string) (bool, error) {
	for i := range s.tasks {
		if s.tasks[i].ProjectID == projectID && s.tasks[i].ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTaskStore) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	var kept []model.Task
	var removed int64
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	return removed, nil
}

func (s *fakeTaskStore) ClearReferences(_ context.Context, projectID, taskID string) error {
	for i := range s.tasks {
		if s.tasks[i].ProjectID != projectID {
			continue
		}
		if s.tasks[i].ParentEpic == taskID {
			s.tasks[i].ParentEpic = ""
		}
		var deps []string
		for _, dep := range s.tasks[i].Dependencies {
			if dep != taskID {
				deps = append(deps, dep)
			}
		}
		s.tasks[i].Dependencies = deps
	}
	return nil
}

type fakeUserStore struct {
	users map[string]*model.User
	seq   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	s.seq++
	u.ID = fmt.Sprintf("u%d", s.seq)
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, u *model.User) error {
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

type recordedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	events []recordedEvent
	err    error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{routingKey: routingKey, payload: payload})
	return nil
}

func (p *fakePublisher) keys() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.routingKey
	}
	return out
}

type fakeDenylist struct {
	revoked map[string]time.Duration
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (d *fakeDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	d.revoked[token] = ttl
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := d.revoked[token]
	return ok, nil
}
