package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/types"
)

const (
	resumeField = "resume"
	// multipartOverhead leaves room for headers and boundaries around the file.
	multipartOverhead = 64 << 10
)

// handleUploadResume handles POST /api/resumes with a multipart "resume"
// file. New uploads are accepted for processing; repeats return the
// existing resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_resume"
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, op, WrapKind(op, model.ErrTooLarge, err))
			return
		}
		s.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(resumeField)
	if err != nil {
		s.fail(w, r, op, WrapKind(op, ErrBadRequest, fmt.Errorf("missing %q file field", resumeField)))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		s.fail(w, r, op, NewKind(op, model.ErrTooLarge))
		return
	}
	res, duplicate, err := s.deps.UploadResume(r.Context(), principal(r).UserID, types.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	status := http.StatusAccepted
	if duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, types.ResumeResponse{Resume: res, Duplicate: duplicate})
}

// handleGetResume handles GET /api/resumes/{id}.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_resume"
	res, err := s.deps.Resume(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGetProfile handles GET /api/profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	p, err := s.deps.Profile(r.Context(), principal(r).UserID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateSkills handles PUT /api/profile/skills.
func (s *Server) handleUpdateSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_skills"
	var req skillsRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.fail(w, r, op, err)
		return
	}
	p, err := s.deps.UpdateSkills(r.Context(), principal(r).UserID, req.Skills)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
