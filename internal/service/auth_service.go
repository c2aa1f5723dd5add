package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/internal/util"
)

type AuthService struct {
	users     UserStore
	denylist  TokenDenylist
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users UserStore, denylist TokenDenylist, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		denylist:  denylist,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, email, fullName, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalid)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		FullName:     fullName,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

// Login checks user credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, u.Email, s.jwtSecret)
	if err != nil {
		return "", err
	}

	s.logger.Info("User logged in", zap.String("user_id", u.ID))
	return token, nil
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the user's display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, fullName string) (*model.User, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.FullName = fullName
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User profile updated", zap.String("user_id", u.ID))
	return u, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := util.ParseJWT(token, s.jwtSecret)
	if err != nil {
		return ErrInvalidCredentials
	}
	ttl := time.Until(claims.ExpiresAt)
	if err := s.denylist.Revoke(ctx, token, ttl); err != nil {
		return err
	}
	s.logger.Info("Token revoked", zap.String("user_id", claims.UserID))
	return nil
}
