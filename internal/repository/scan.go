package repository

import (
	"encoding/json"
	"time"

	"planhub/internal/model"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// dateArg converts an optional model date into a driver argument, NULL when
// absent.
func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func toDate(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}

// jsonStrings encodes a string list for a JSONB column, normalizing nil to an
// empty array so the column never holds SQL NULL.
func jsonStrings(v []string) []byte {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return b
}

func jsonMap(v map[string]any) []byte {
	if v == nil {
		v = map[string]any{}
	}
	b, _ := json.Marshal(v)
	return b
}

func scanProject(row rowScanner) (model.Project, error) {
	var (
		p                     model.Project
		startDate, endDate    *time.Time
		teamMembers, settings []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&startDate,
		&endDate,
		&p.Status,
		&p.Owner,
		&teamMembers,
		&settings,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, err
	}
	p.StartDate = toDate(startDate)
	p.EndDate = toDate(endDate)
	if err := json.Unmarshal(teamMembers, &p.TeamMembers); err != nil {
		return model.Project{}, err
	}
	if err := json.Unmarshal(settings, &p.Settings); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t                        model.Task
		startDate, endDate       *time.Time
		parentEpic, assignedTo   *string
		deps, tags, customFields []byte
	)
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Name,
		&t.Description,
		&t.TaskType,
		&t.Status,
		&t.Priority,
		&startDate,
		&endDate,
		&t.DurationDays,
		&t.EffortHours,
		&t.CompletionPercentage,
		&assignedTo,
		&deps,
		&parentEpic,
		&tags,
		&customFields,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	t.StartDate = toDate(startDate)
	t.EndDate = toDate(endDate)
	if assignedTo != nil {
		t.AssignedTo = *assignedTo
	}
	if parentEpic != nil {
		t.ParentEpic = *parentEpic
	}
	if err := json.Unmarshal(deps, &t.Dependencies); err != nil {
		return model.Task{}, err
	}
	if err := json.Unmarshal(tags, &t.Tags); err != nil {
		return model.Task{}, err
	}
	if err := json.Unmarshal(customFields, &t.CustomFields); err != nil {
		return model.Task{}, err
	}
	return t, nil
}
