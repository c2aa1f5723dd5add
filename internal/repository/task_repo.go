package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/pkg/metrics"
)

const taskColumns = `
        id, project_id, name, description, task_type, status, priority,
        start_date, end_date, duration_days, effort_hours, completion_percentage,
        assigned_to, dependencies, parent_epic, tags, custom_fields,
        created_by, created_at, updated_at`

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("project_id", t.ProjectID),
		zap.String("name", t.Name),
		zap.String("task_type", string(t.TaskType)),
	)
	start := time.Now()
	query := `
        INSERT INTO tasks (project_id, name, description, task_type, status, priority,
                           start_date, end_date, duration_days, effort_hours, completion_percentage,
                           assigned_to, dependencies, parent_epic, tags, custom_fields,
                           created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15, $16, $17, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ProjectID,
		t.Name,
		t.Description,
		t.TaskType,
		t.Status,
		t.Priority,
		dateArg(t.StartDate),
		dateArg(t.EndDate),
		t.DurationDays,
		t.EffortHours,
		t.CompletionPercentage,
		t.AssignedTo,
		jsonStrings(t.Dependencies),
		t.ParentEpic,
		jsonStrings(t.Tags),
		jsonMap(t.CustomFields),
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("project_id", t.ProjectID),
		)
		return err
	}
	r.logger.Info("Task inserted successfully",
		zap.String("task_id", t.ID),
		zap.String("project_id", t.ProjectID),
	)
	return nil
}

// ListByProject returns the project's tasks in creation order, the snapshot
// every derived computation starts from.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	r.logger.Debug("Listing tasks for project", zap.String("project_id", projectID))
	start := time.Now()
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	metrics.RecordDBQueryDuration("select", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("project_id", projectID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	r.logger.Info("Tasks listed successfully",
		zap.String("project_id", projectID),
		zap.Int("count", len(tasks)),
	)
	return tasks, rows.Err()
}

func (r *TaskRepository) FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE id = $1 AND project_id = $2
    `
	row := r.db.QueryRow(ctx, query, taskID, projectID)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) (bool, error) {
	r.logger.Debug("Updating task", zap.String("task_id", t.ID))
	query := `
        UPDATE tasks
        SET name = $3, description = $4, task_type = $5, status = $6, priority = $7,
            start_date = $8, end_date = $9, duration_days = $10, effort_hours = $11,
            completion_percentage = $12, assigned_to = $13, dependencies = $14,
            parent_epic = NULLIF($15, ''), tags = $16, custom_fields = $17, updated_at = NOW()
        WHERE id = $1 AND project_id = $2
    `
	tag, err := r.db.Exec(ctx, query,
		t.ID,
		t.ProjectID,
		t.Name,
		t.Description,
		t.TaskType,
		t.Status,
		t.Priority,
		dateArg(t.StartDate),
		dateArg(t.EndDate),
		t.DurationDays,
		t.EffortHours,
		t.CompletionPercentage,
		t.AssignedTo,
		jsonStrings(t.Dependencies),
		t.ParentEpic,
		jsonStrings(t.Tags),
		jsonMap(t.CustomFields),
	)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.String("task_id", t.ID))
		return false, err
	}
	updated := tag.RowsAffected() > 0
	if updated {
		r.logger.Info("Task updated", zap.String("task_id", t.ID))
	}
	return updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, projectID, taskID string) (bool, error) {
	r.logger.Debug("Deleting task", zap.String("task_id", taskID))
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND project_id = $2`, taskID, projectID)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.String("task_id", taskID))
		return false, err
	}
	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Info("Task deleted", zap.String("task_id", taskID))
	}
	return deleted, nil
}

// DeleteByProject removes every task of a project, used by the project delete
// cascade.
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, projectID)
	if err != nil {
		r.logger.Error("Failed to delete project tasks",
			zap.Error(err),
			zap.String("project_id", projectID),
		)
		return 0, err
	}
	r.logger.Info("Project tasks deleted",
		zap.String("project_id", projectID),
		zap.Int64("count", tag.RowsAffected()),
	)
	return tag.RowsAffected(), nil
}

// ClearReferences removes the task id from sibling dependency lists and
// parent_epic pointers. The id lists have no foreign keys, so this is where
// referential integrity for task deletion is enforced.
func (r *TaskRepository) ClearReferences(ctx context.Context, projectID, taskID string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE tasks
        SET dependencies = dependencies - $2, updated_at = NOW()
        WHERE project_id = $1 AND dependencies ? $2
    `, projectID, taskID)
	if err != nil {
		r.logger.Error("Failed to clear task dependencies",
			zap.Error(err),
			zap.String("task_id", taskID),
		)
		return err
	}

	_, err = r.db.Exec(ctx, `
        UPDATE tasks
        SET parent_epic = NULL, updated_at = NOW()
        WHERE project_id = $1 AND parent_epic = $2
    `, projectID, taskID)
	if err != nil {
		r.logger.Error("Failed to clear parent epic references",
			zap.Error(err),
			zap.String("task_id", taskID),
		)
		return err
	}
	return nil
}
