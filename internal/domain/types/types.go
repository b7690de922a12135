// Package types contains the JSON shapes returned by the API.
package types

import (
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/skills"
)

// UserView is a user without credentials.
type UserView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUserView strips the password hash.
func NewUserView(u model.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Recommendation is one ranked job.
type Recommendation struct {
	Job            model.Job `json:"job"`
	Score          float64   `json:"score"`
	Percentage     int       `json:"percentage"`
	MatchingSkills []string  `json:"matching_skills"`
	MissingSkills  []string  `json:"missing_skills"`
}

// NewRecommendation converts a ranker match.
func NewRecommendation(m skills.Match[model.Job]) Recommendation {
	return Recommendation{
		Job:            m.Item,
		Score:          m.Score,
		Percentage:     m.Percentage,
		MatchingSkills: m.Matching,
		MissingSkills:  m.Missing,
	}
}

// RecommendationsResponse is the body of GET /api/recommendations.
type RecommendationsResponse struct {
	Status          skills.Status    `json:"status"`
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}

// NewRecommendationsResponse converts a ranker result and explains empty lists.
func NewRecommendationsResponse(r skills.Result[model.Job]) RecommendationsResponse {
	resp := RecommendationsResponse{
		Status:          r.Status,
		Recommendations: make([]Recommendation, 0, len(r.Matches)),
	}
	for _, m := range r.Matches {
		resp.Recommendations = append(resp.Recommendations, NewRecommendation(m))
	}
	switch {
	case r.Status == skills.StatusNoProfile:
		resp.Message = "upload a resume or set your skills to get recommendations"
	case len(resp.Recommendations) == 0:
		resp.Message = "no jobs match your skills yet"
	default:
		resp.Message = "jobs ranked by skill overlap"
	}
	return resp
}

// MatchResponse is the body of GET /api/jobs/{id}/match.
type MatchResponse struct {
	JobID          string        `json:"job_id"`
	Status         skills.Status `json:"status"`
	Score          float64       `json:"score"`
	Percentage     int           `json:"percentage"`
	MatchingSkills []string      `json:"matching_skills"`
	MissingSkills  []string      `json:"missing_skills"`
}

// ResumeResponse wraps a resume with the duplicate flag of an upload.
type ResumeResponse struct {
	Resume    model.Resume `json:"resume"`
	Duplicate bool         `json:"duplicate"`
}

// SkillsResponse lists the vocabulary.
type SkillsResponse struct {
	Skills []string `json:"skills"`
	Count  int      `json:"count"`
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// JobInput is a new posting.
type JobInput struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements string
	// Skills are added to the ones found in the text.
	Skills []string
}

// UploadInput is a resume file sent by a job seeker.
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
}
