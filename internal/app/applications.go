package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/jobmatch/internal/adapters/mq/broker"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// StatusChangedEvent is published when an employer moves an application.
type StatusChangedEvent struct {
	ApplicationID string                  `json:"application_id"`
	JobID         string                  `json:"job_id"`
	UserID        string                  `json:"user_id"`
	From          model.ApplicationStatus `json:"from"`
	To            model.ApplicationStatus `json:"to"`
}

// Apply submits the job seeker's application to a job. The latest resume,
// if any, is attached.
func (s *Service) Apply(ctx context.Context, userID, jobID, coverLetter string) (model.Application, error) {
	if _, err := s.requireRole(ctx, userID, model.RoleJobSeeker); err != nil {
		return model.Application{}, err
	}
	if _, err := s.repo.JobByID(ctx, jobID); err != nil {
		return model.Application{}, err
	}

	now := s.now().UTC()
	a := model.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		UserID:      userID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      model.ApplicationApplied,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch res, err := s.repo.LatestResume(ctx, userID); {
	case err == nil:
		a.ResumeID = res.ID
	case !errors.Is(err, model.ErrNotFound):
		return model.Application{}, err
	}

	if err := s.repo.CreateApplication(ctx, a); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Application{}, fmt.Errorf("already applied to job %s: %w", jobID, model.ErrConflict)
		}
		return model.Application{}, err
	}
	metrics.RecordApplicationCreated()
	s.logger.Info(ctx, "application submitted",
		logger.String("application_id", a.ID),
		logger.String("job_id", jobID),
		logger.String("user_id", userID),
	)
	s.publish(ctx, broker.ApplicationSubmitted, a)
	return a, nil
}

// MyApplications lists the caller's applications, oldest first.
func (s *Service) MyApplications(ctx context.Context, userID string) ([]model.Application, error) {
	return s.repo.ApplicationsByUser(ctx, userID)
}

// JobApplications lists the applications to a job owned by employerID.
func (s *Service) JobApplications(ctx context.Context, employerID, jobID string) ([]model.Application, error) {
	if _, err := s.ownedJob(ctx, employerID, jobID); err != nil {
		return nil, err
	}
	return s.repo.ApplicationsByJob(ctx, jobID)
}

// UpdateApplicationStatus moves an application along its lifecycle. Only
// the employer owning the job may do so; invalid moves are conflicts.
func (s *Service) UpdateApplicationStatus(ctx context.Context, employerID, applicationID string, next model.ApplicationStatus) (model.Application, error) {
	if !next.Valid() {
		return model.Application{}, fmt.Errorf("%w: unknown status %q", model.ErrInvalidInput, next)
	}
	a, err := s.repo.ApplicationByID(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	if _, err := s.ownedJob(ctx, employerID, a.JobID); err != nil {
		return model.Application{}, err
	}
	if !a.Status.CanTransition(next) {
		return model.Application{}, fmt.Errorf("%w: cannot move application from %s to %s", model.ErrConflict, a.Status, next)
	}

	prev := a.Status
	a.Status = next
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveApplication(ctx, a); err != nil {
		return model.Application{}, err
	}
	s.publish(ctx, broker.ApplicationStatusChanged, StatusChangedEvent{
		ApplicationID: a.ID, JobID: a.JobID, UserID: a.UserID, From: prev, To: next,
	})
	return a, nil
}

func (s *Service) ownedJob(ctx context.Context, employerID, jobID string) (model.Job, error) {
	j, err := s.repo.JobByID(ctx, jobID)
	if err != nil {
		return model.Job{}, err
	}
	if j.EmployerID != employerID {
		return model.Job{}, fmt.Errorf("%w: job belongs to another employer", model.ErrForbidden)
	}
	return j, nil
}
