package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Collections.
const (
	CollUsers           = "users"
	CollUserEmails      = "user_emails"
	CollJobs            = "jobs"
	CollResumes         = "resumes"
	CollProfiles        = "profiles"
	CollApplications    = "applications"
	CollApplicationKeys = "application_keys"
)

// Repository maps portal records onto a DocStore. Secondary lookups scan a
// collection; unique constraints are guard documents created with Insert.
type Repository struct {
	docs DocStore
}

// New wraps a DocStore.
func New(docs DocStore) *Repository {
	return &Repository{docs: docs}
}

// Docs exposes the underlying store for health checks.
func (r *Repository) Docs() DocStore { return r.docs }

type ref struct {
	ID string `json:"id"`
}

func putDoc(ctx context.Context, s DocStore, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return s.Put(ctx, collection, id, body)
}

func insertDoc(ctx context.Context, s DocStore, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return s.Insert(ctx, collection, id, body)
}

func getDoc[T any](ctx context.Context, s DocStore, collection, id string) (T, error) {
	var v T
	body, err := s.Get(ctx, collection, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return v, nil
}

func listDocs[T any](ctx context.Context, s DocStore, collection string, keep func(T) bool) ([]T, error) {
	bodies, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// CreateUser stores a new user; the email must be unused.
func (r *Repository) CreateUser(ctx context.Context, u model.User) error {
	email := model.NormalizeEmail(u.Email)
	if err := insertDoc(ctx, r.docs, CollUserEmails, email, ref{ID: u.ID}); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		return err
	}
	if err := putDoc(ctx, r.docs, CollUsers, u.ID, u); err != nil {
		_ = r.docs.Delete(ctx, CollUserEmails, email)
		return err
	}
	return nil
}

// UserByID loads a user.
func (r *Repository) UserByID(ctx context.Context, id string) (model.User, error) {
	return getDoc[model.User](ctx, r.docs, CollUsers, id)
}

// UserByEmail loads a user by (case-insensitive) email.
func (r *Repository) UserByEmail(ctx context.Context, email string) (model.User, error) {
	idx, err := getDoc[ref](ctx, r.docs, CollUserEmails, model.NormalizeEmail(email))
	if err != nil {
		return model.User{}, err
	}
	return r.UserByID(ctx, idx.ID)
}

// SaveJob creates or replaces a job.
func (r *Repository) SaveJob(ctx context.Context, j model.Job) error {
	return putDoc(ctx, r.docs, CollJobs, j.ID, j)
}

// JobByID loads a job.
func (r *Repository) JobByID(ctx context.Context, id string) (model.Job, error) {
	return getDoc[model.Job](ctx, r.docs, CollJobs, id)
}

// ListJobs returns jobs newest first. A non-empty query keeps jobs whose
// title or company contains it, ignoring case.
func (r *Repository) ListJobs(ctx context.Context, query string) ([]model.Job, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	jobs, err := listDocs(ctx, r.docs, CollJobs, func(j model.Job) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(j.Title), q) ||
			strings.Contains(strings.ToLower(j.Company), q)
	})
	if err != nil {
		return nil, err
	}
	// Creation order from the store, reversed, then by timestamp so seeded
	// jobs with identical timestamps keep a deterministic order.
	for i, k := 0, len(jobs)-1; i < k; i, k = i+1, k-1 {
		jobs[i], jobs[k] = jobs[k], jobs[i]
	}
	sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].CreatedAt.After(jobs[k].CreatedAt) })
	return jobs, nil
}

// SaveResume creates or replaces a resume.
func (r *Repository) SaveResume(ctx context.Context, res model.Resume) error {
	return putDoc(ctx, r.docs, CollResumes, res.ID, res)
}

// ResumeByID loads a resume.
func (r *Repository) ResumeByID(ctx context.Context, id string) (model.Resume, error) {
	return getDoc[model.Resume](ctx, r.docs, CollResumes, id)
}

// DeleteResume removes a resume document.
func (r *Repository) DeleteResume(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, CollResumes, id)
}

// ResumesByUser returns a user's resumes, oldest first.
func (r *Repository) ResumesByUser(ctx context.Context, userID string) ([]model.Resume, error) {
	return listDocs(ctx, r.docs, CollResumes, func(res model.Resume) bool { return res.UserID == userID })
}

// ResumeByHash finds a user's resume with the given content hash.
func (r *Repository) ResumeByHash(ctx context.Context, userID, sha string) (model.Resume, error) {
	list, err := listDocs(ctx, r.docs, CollResumes, func(res model.Resume) bool {
		return res.UserID == userID && res.SHA256 == sha
	})
	if err != nil {
		return model.Resume{}, err
	}
	if len(list) == 0 {
		return model.Resume{}, notFound(CollResumes, userID+":"+sha)
	}
	return list[len(list)-1], nil
}

// LatestResume returns the most recently uploaded resume of a user.
func (r *Repository) LatestResume(ctx context.Context, userID string) (model.Resume, error) {
	list, err := r.ResumesByUser(ctx, userID)
	if err != nil {
		return model.Resume{}, err
	}
	if len(list) == 0 {
		return model.Resume{}, notFound(CollResumes, "user:"+userID)
	}
	return list[len(list)-1], nil
}

// SaveProfile creates or replaces a user's profile.
func (r *Repository) SaveProfile(ctx context.Context, p model.Profile) error {
	return putDoc(ctx, r.docs, CollProfiles, p.UserID, p)
}

// ProfileByUser loads a profile; ErrNotFound means the user has none.
func (r *Repository) ProfileByUser(ctx context.Context, userID string) (model.Profile, error) {
	return getDoc[model.Profile](ctx, r.docs, CollProfiles, userID)
}

// CreateApplication stores a new application; a user may apply to a job once.
func (r *Repository) CreateApplication(ctx context.Context, a model.Application) error {
	key := a.UniqueKey()
	if err := insertDoc(ctx, r.docs, CollApplicationKeys, key, ref{ID: a.ID}); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("application %s: %w", key, ErrConflict)
		}
		return err
	}
	if err := putDoc(ctx, r.docs, CollApplications, a.ID, a); err != nil {
		_ = r.docs.Delete(ctx, CollApplicationKeys, key)
		return err
	}
	return nil
}

// SaveApplication replaces an existing application.
func (r *Repository) SaveApplication(ctx context.Context, a model.Application) error {
	return putDoc(ctx, r.docs, CollApplications, a.ID, a)
}

// ApplicationByID loads an application.
func (r *Repository) ApplicationByID(ctx context.Context, id string) (model.Application, error) {
	return getDoc[model.Application](ctx, r.docs, CollApplications, id)
}

// ApplicationsByUser returns a user's applications, oldest first.
func (r *Repository) ApplicationsByUser(ctx context.Context, userID string) ([]model.Application, error) {
	return listDocs(ctx, r.docs, CollApplications, func(a model.Application) bool { return a.UserID == userID })
}

// ApplicationsByJob returns the applications to a job, oldest first.
func (r *Repository) ApplicationsByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	return listDocs(ctx, r.docs, CollApplications, func(a model.Application) bool { return a.JobID == jobID })
}

// Counts reports the size of the main collections.
func (r *Repository) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, 5)
	for _, c := range []string{CollUsers, CollJobs, CollResumes, CollProfiles, CollApplications} {
		n, err := r.docs.Count(ctx, c)
		if err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, nil
}
