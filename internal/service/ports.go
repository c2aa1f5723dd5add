package service

import (
	"context"
	"time"

	"planhub/internal/model"
)

// Store interfaces are declared on the consumer side so tests can substitute
// in-memory fakes for the pgx repositories.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
}

type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) error
	ListForUser(ctx context.Context, email string, skip, limit int) ([]model.Project, error)
	FindByIDForUser(ctx context.Context, id, email string) (*model.Project, error)
	Update(ctx context.Context, p *model.Project, ownerEmail string) (bool, error)
	Delete(ctx context.Context, id, ownerEmail string) (bool, error)
}

type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) (bool, error)
	Delete(ctx context.Context, projectID, taskID string) (bool, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	ClearReferences(ctx context.Context, projectID, taskID string) error
}

// EventPublisher fans lifecycle events out to the topic exchange. Publishing
// is best-effort; callers log failures and move on.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// TokenDenylist backs logout: revoked tokens stay listed until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
