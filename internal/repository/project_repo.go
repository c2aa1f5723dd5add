package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/pkg/metrics"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project",
		zap.String("owner", p.Owner),
		zap.String("name", p.Name),
	)
	start := time.Now()
	query := `
        INSERT INTO projects (name, description, start_date, end_date, status, owner, team_members, settings, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Description,
		dateArg(p.StartDate),
		dateArg(p.EndDate),
		p.Status,
		p.Owner,
		jsonStrings(p.TeamMembers),
		jsonMap(p.Settings),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "projects", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}
	r.logger.Info("Project inserted successfully",
		zap.String("project_id", p.ID),
		zap.String("owner", p.Owner),
	)
	return nil
}

// ListForUser returns projects the user owns or belongs to, most recently
// updated first.
func (r *ProjectRepository) ListForUser(ctx context.Context, email string, skip, limit int) ([]model.Project, error) {
	r.logger.Debug("Listing projects for user", zap.String("email", email))
	start := time.Now()
	query := `
        SELECT id, name, description, start_date, end_date, status, owner, team_members, settings, created_at, updated_at
        FROM projects
        WHERE owner = $1 OR team_members @> to_jsonb($1::text)
        ORDER BY updated_at DESC
        OFFSET $2 LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, email, skip, limit)
	metrics.RecordDBQueryDuration("select", "projects", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err), zap.String("email", email))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	r.logger.Info("Projects listed successfully",
		zap.String("email", email),
		zap.Int("count", len(projects)),
	)
	return projects, rows.Err()
}

// FindByIDForUser returns the project only when the user owns it or is a
// team member, mirroring the access rule applied on every project read.
func (r *ProjectRepository) FindByIDForUser(ctx context.Context, id, email string) (*model.Project, error) {
	query := `
        SELECT id, name, description, start_date, end_date, status, owner, team_members, settings, created_at, updated_at
        FROM projects
        WHERE id = $1 AND (owner = $2 OR team_members @> to_jsonb($2::text))
    `
	row := r.db.QueryRow(ctx, query, id, email)
	p, err := scanProject(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update persists the mutable project fields. Only the owner may update, so
// the owner email is part of the predicate; zero rows affected means "not
// found or not yours".
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project, ownerEmail string) (bool, error) {
	r.logger.Debug("Updating project", zap.String("project_id", p.ID))
	query := `
        UPDATE projects
        SET name = $3, description = $4, start_date = $5, end_date = $6, status = $7,
            team_members = $8, settings = $9, updated_at = NOW()
        WHERE id = $1 AND owner = $2
    `
	tag, err := r.db.Exec(ctx, query,
		p.ID,
		ownerEmail,
		p.Name,
		p.Description,
		dateArg(p.StartDate),
		dateArg(p.EndDate),
		p.Status,
		jsonStrings(p.TeamMembers),
		jsonMap(p.Settings),
	)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Error(err), zap.String("project_id", p.ID))
		return false, err
	}
	updated := tag.RowsAffected() > 0
	if updated {
		r.logger.Info("Project updated", zap.String("project_id", p.ID))
	}
	return updated, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id, ownerEmail string) (bool, error) {
	r.logger.Debug("Deleting project", zap.String("project_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND owner = $2`, id, ownerEmail)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.String("project_id", id))
		return false, err
	}
	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Info("Project deleted", zap.String("project_id", id))
	}
	return deleted, nil
}
