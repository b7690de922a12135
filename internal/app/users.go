package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/types"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// Register creates an account and signs the caller in.
func (s *Service) Register(ctx context.Context, in types.RegisterInput) (types.AuthResponse, error) {
	email := model.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "" || email == "":
		return types.AuthResponse{}, fmt.Errorf("%w: name and email are required", model.ErrInvalidInput)
	case len(in.Password) < MinPasswordLen:
		return types.AuthResponse{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, MinPasswordLen)
	case !in.Role.Valid():
		return types.AuthResponse{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.AuthResponse{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, model.ErrConflict) {
			metrics.RecordAuthAttempt("register", "conflict")
			return types.AuthResponse{}, fmt.Errorf("email already registered: %w", model.ErrConflict)
		}
		return types.AuthResponse{}, err
	}
	metrics.RecordAuthAttempt("register", "success")
	s.logger.Info(ctx, "user registered", logger.String("user_id", u.ID), logger.String("role", string(u.Role)))
	return s.authResponse(u)
}

// Login checks credentials. An unknown email and a wrong password fail the
// same way.
func (s *Service) Login(ctx context.Context, email, password string) (types.AuthResponse, error) {
	u, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			metrics.RecordAuthAttempt("login", "failure")
			return types.AuthResponse{}, model.ErrInvalidCredentials
		}
		return types.AuthResponse{}, err
	}
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return types.AuthResponse{}, err
	}
	if !ok {
		metrics.RecordAuthAttempt("login", "failure")
		return types.AuthResponse{}, model.ErrInvalidCredentials
	}
	metrics.RecordAuthAttempt("login", "success")
	return s.authResponse(u)
}

// User returns the account of userID.
func (s *Service) User(ctx context.Context, userID string) (types.UserView, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return types.UserView{}, err
	}
	return types.NewUserView(u), nil
}

func (s *Service) authResponse(u model.User) (types.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return types.AuthResponse{}, err
	}
	return types.AuthResponse{Token: token, User: types.NewUserView(u)}, nil
}

// requireRole loads the user and checks its role.
func (s *Service) requireRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: unknown user", model.ErrForbidden)
		}
		return model.User{}, err
	}
	if u.Role != role {
		return model.User{}, fmt.Errorf("%w: requires role %s", model.ErrForbidden, role)
	}
	return u, nil
}
