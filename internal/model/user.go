package model

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	u.FullName = strings.TrimSpace(u.FullName)
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email address")
	}
	if len(u.FullName) < 2 {
		return errors.New("full name must be at least 2 characters")
	}
	return nil
}
