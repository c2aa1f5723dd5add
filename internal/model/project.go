package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StartDate   *Date          `json:"start_date,omitempty"`
	EndDate     *Date          `json:"end_date,omitempty"`
	Status      TaskStatus     `json:"status"`
	Owner       string         `json:"owner"`
	TeamMembers []string       `json:"team_members"`
	Settings    map[string]any `json:"settings"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Validate normalizes the project in place and checks its invariants.
func (p *Project) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("project name must not be empty")
	}
	if len(p.Name) > MaxNameLength {
		return fmt.Errorf("project name must be at most %d characters", MaxNameLength)
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", p.Status)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return errors.New("project end date must not precede start date")
	}
	for _, m := range p.TeamMembers {
		if !strings.Contains(m, "@") {
			return fmt.Errorf("invalid team member email %q", m)
		}
	}
	return nil
}

// IsMember reports whether the user owns the project or is on its team.
func (p *Project) IsMember(email string) bool {
	if p.Owner == email {
		return true
	}
	for _, m := range p.TeamMembers {
		if m == email {
			return true
		}
	}
	return false
}
