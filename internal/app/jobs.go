package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/jobmatch/internal/adapters/mq/broker"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/skills"
	"github.com/okian/jobmatch/internal/domain/types"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// CreateJob posts a job for an employer.
func (s *Service) CreateJob(ctx context.Context, employerID string, in types.JobInput) (model.Job, error) {
	if _, err := s.requireRole(ctx, employerID, model.RoleEmployer); err != nil {
		return model.Job{}, err
	}
	return s.postJob(ctx, employerID, in)
}

func (s *Service) postJob(ctx context.Context, employerID string, in types.JobInput) (model.Job, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" {
		return model.Job{}, fmt.Errorf("%w: title and company are required", model.ErrInvalidInput)
	}
	j := model.Job{
		ID:           uuid.NewString(),
		EmployerID:   employerID,
		Title:        strings.TrimSpace(in.Title),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Description:  in.Description,
		Requirements: in.Requirements,
		CreatedAt:    s.now().UTC(),
	}
	extracted := s.vocab.Extract(j.SkillText())
	j.Skills = s.vocab.Merge(extracted, in.Skills)
	metrics.RecordSkillsExtracted("job", len(extracted))

	if err := s.repo.SaveJob(ctx, j); err != nil {
		return model.Job{}, err
	}
	metrics.RecordJobPosted()
	s.logger.Info(ctx, "job posted",
		logger.String("job_id", j.ID),
		logger.String("employer_id", employerID),
		logger.Int("skills", len(j.Skills)),
	)
	s.publish(ctx, broker.JobPosted, j)
	return j, nil
}

// ListJobs returns jobs newest first, optionally filtered by title or company.
func (s *Service) ListJobs(ctx context.Context, query string) ([]model.Job, error) {
	return s.repo.ListJobs(ctx, query)
}

// Job loads one job.
func (s *Service) Job(ctx context.Context, id string) (model.Job, error) {
	return s.repo.JobByID(ctx, id)
}

// profile returns the candidate's skills and whether a profile exists.
func (s *Service) profile(ctx context.Context, userID string) ([]string, bool, error) {
	p, err := s.repo.ProfileByUser(ctx, userID)
	switch {
	case err == nil:
		return p.Skills, true, nil
	case errors.Is(err, model.ErrNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Recommend ranks every job against the job seeker's profile.
func (s *Service) Recommend(ctx context.Context, userID string) (types.RecommendationsResponse, error) {
	start := time.Now()
	if _, err := s.requireRole(ctx, userID, model.RoleJobSeeker); err != nil {
		return types.RecommendationsResponse{}, err
	}
	candidate, hasProfile, err := s.profile(ctx, userID)
	if err != nil {
		return types.RecommendationsResponse{}, err
	}
	var jobs []model.Job
	if hasProfile {
		if jobs, err = s.repo.ListJobs(ctx, ""); err != nil {
			return types.RecommendationsResponse{}, err
		}
	}

	result := skills.Rank(candidate, hasProfile, jobs, model.JobSkills)
	metrics.RecordRecommendation(string(result.Status), float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "recommendations ranked",
		logger.String("user_id", userID),
		logger.String("status", string(result.Status)),
		logger.Int("jobs", len(jobs)),
		logger.Int("matches", len(result.Matches)),
	)
	return types.NewRecommendationsResponse(result), nil
}

// MatchJob scores the caller's profile against one job. Jobs under the
// recommendation threshold are still reported.
func (s *Service) MatchJob(ctx context.Context, userID, jobID string) (types.MatchResponse, error) {
	j, err := s.repo.JobByID(ctx, jobID)
	if err != nil {
		return types.MatchResponse{}, err
	}
	candidate, hasProfile, err := s.profile(ctx, userID)
	if err != nil {
		return types.MatchResponse{}, err
	}
	if !hasProfile {
		return types.MatchResponse{
			JobID:          j.ID,
			Status:         skills.StatusNoProfile,
			MatchingSkills: []string{},
			MissingSkills:  append([]string{}, j.Skills...),
		}, nil
	}
	m := skills.Evaluate(candidate, j, model.JobSkills)
	return types.MatchResponse{
		JobID:          j.ID,
		Status:         skills.StatusOK,
		Score:          m.Score,
		Percentage:     m.Percentage,
		MatchingSkills: m.Matching,
		MissingSkills:  m.Missing,
	}, nil
}
