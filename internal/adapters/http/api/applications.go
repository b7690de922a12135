package api

import (
	"net/http"

	"github.com/okian/jobmatch/internal/domain/model"
)

// handleApply handles POST /api/jobs/{id}/apply. The body is optional.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	const op = "api.apply"
	var req applyRequest
	if err := s.decode(w, r, &req, true); err != nil {
		s.fail(w, r, op, err)
		return
	}
	a, err := s.deps.Apply(r.Context(), principal(r).UserID, r.PathValue("id"), req.CoverLetter)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleJobApplications handles GET /api/jobs/{id}/applications.
func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	const op = "api.job_applications"
	list, err := s.deps.JobApplications(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleMyApplications handles GET /api/applications.
func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	const op = "api.my_applications"
	list, err := s.deps.MyApplications(r.Context(), principal(r).UserID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleUpdateApplication handles PATCH /api/applications/{id}.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_application"
	var req statusRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.fail(w, r, op, err)
		return
	}
	a, err := s.deps.UpdateApplicationStatus(r.Context(), principal(r).UserID, r.PathValue("id"), model.ApplicationStatus(req.Status))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
