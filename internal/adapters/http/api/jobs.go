package api

import (
	"net/http"

	"github.com/okian/jobmatch/internal/domain/types"
)

// handleListJobs handles GET /api/jobs?q=.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_jobs"
	jobs, err := s.deps.ListJobs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// handleCreateJob handles POST /api/jobs.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_job"
	var req createJobRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.fail(w, r, op, err)
		return
	}
	j, err := s.deps.CreateJob(r.Context(), principal(r).UserID, types.JobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		Skills:       req.Skills,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

// handleGetJob handles GET /api/jobs/{id}.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	j, err := s.deps.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// handleMatchJob handles GET /api/jobs/{id}/match.
func (s *Server) handleMatchJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_job"
	m, err := s.deps.MatchJob(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleRecommendations handles GET /api/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendations"
	resp, err := s.deps.Recommend(r.Context(), principal(r).UserID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSkills handles GET /api/skills.
func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	entries := s.deps.Vocabulary().Entries()
	writeJSON(w, http.StatusOK, types.SkillsResponse{Skills: entries, Count: len(entries)})
}
