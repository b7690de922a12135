// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/jobmatch/internal/auth"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/skills"
	"github.com/okian/jobmatch/internal/domain/types"
	"github.com/okian/jobmatch/pkg/logger"
)

const (
	defaultMaxUploadBytes = 5 << 20
	defaultLoginPerMinute = 10
	defaultLoginBurst     = 5
)

// Dependencies required by HTTP handlers. The service implements them; an
// interface keeps the handler layer loosely coupled to it.
type Dependencies interface {
	Register(ctx context.Context, in types.RegisterInput) (types.AuthResponse, error)
	Login(ctx context.Context, email, password string) (types.AuthResponse, error)
	User(ctx context.Context, userID string) (types.UserView, error)

	CreateJob(ctx context.Context, employerID string, in types.JobInput) (model.Job, error)
	ListJobs(ctx context.Context, query string) ([]model.Job, error)
	Job(ctx context.Context, id string) (model.Job, error)
	MatchJob(ctx context.Context, userID, jobID string) (types.MatchResponse, error)
	Recommend(ctx context.Context, userID string) (types.RecommendationsResponse, error)

	UploadResume(ctx context.Context, userID string, in types.UploadInput) (model.Resume, bool, error)
	Resume(ctx context.Context, userID, resumeID string) (model.Resume, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)
	UpdateSkills(ctx context.Context, userID string, list []string) (model.Profile, error)

	Apply(ctx context.Context, userID, jobID, coverLetter string) (model.Application, error)
	MyApplications(ctx context.Context, userID string) ([]model.Application, error)
	JobApplications(ctx context.Context, employerID, jobID string) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, employerID, applicationID string, next model.ApplicationStatus) (model.Application, error)

	Vocabulary() *skills.Vocabulary
	StatsProvider
}

// Server wires HTTP routes for the portal API.
type Server struct {
	deps     Dependencies
	tokens   auth.TokenValidator
	limiter  *ipLimiter
	validate *requestValidator
	logger   logger.Logger

	maxUploadBytes int64
	loginPerMinute int
	loginBurst     int

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes caps resume uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLoginRate sets the per-IP limit of login and register attempts.
func WithLoginRate(perMinute, burst int) Option {
	return func(s *Server) {
		if perMinute > 0 && burst > 0 {
			s.loginPerMinute, s.loginBurst = perMinute, burst
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates an API server. tokens authenticates bearer tokens.
func NewServer(deps Dependencies, tokens auth.TokenValidator, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		tokens:         tokens,
		validate:       newRequestValidator(),
		maxUploadBytes: defaultMaxUploadBytes,
		loginPerMinute: defaultLoginPerMinute,
		loginBurst:     defaultLoginBurst,
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.limiter = newIPLimiter(s.loginPerMinute, s.loginBurst)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}
	authed := func(pattern, endpoint string, h http.HandlerFunc) {
		route(pattern, endpoint, auth.Middleware(s.tokens, s.unauthorized)(h).ServeHTTP)
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	route("GET /api/skills", "skills", s.handleSkills)

	route("POST /api/auth/register", "auth_register", s.rateLimited(s.handleRegister))
	route("POST /api/auth/login", "auth_login", s.rateLimited(s.handleLogin))
	authed("GET /api/auth/me", "auth_me", s.handleMe)

	route("GET /api/jobs", "jobs_list", s.handleListJobs)
	authed("POST /api/jobs", "jobs_create", s.handleCreateJob)
	route("GET /api/jobs/{id}", "jobs_get", s.handleGetJob)
	authed("GET /api/jobs/{id}/match", "jobs_match", s.handleMatchJob)
	authed("POST /api/jobs/{id}/apply", "jobs_apply", s.handleApply)
	authed("GET /api/jobs/{id}/applications", "jobs_applications", s.handleJobApplications)

	authed("POST /api/resumes", "resumes_upload", s.handleUploadResume)
	authed("GET /api/resumes/{id}", "resumes_get", s.handleGetResume)
	authed("GET /api/profile", "profile_get", s.handleGetProfile)
	authed("PUT /api/profile/skills", "profile_skills", s.handleUpdateSkills)

	authed("GET /api/recommendations", "recommendations", s.handleRecommendations)
	authed("GET /api/applications", "applications_list", s.handleMyApplications)
	authed("PATCH /api/applications/{id}", "applications_update", s.handleUpdateApplication)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = publicMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to. Server errors are logged
// and their detail hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if _, wrapped := err.(*Error); !wrapped { //nolint:errorlint // only the outermost error matters
		err = Wrap(op, err)
	}
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, "api.auth", err)
}

// rateLimited rejects callers over their per-IP budget with 429.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := s.limiter.allow(clientIP(r)); !ok {
			w.Header().Set("Retry-After", retryAfter(wait))
			s.fail(w, r, "api.rate_limit", ErrRateLimited)
			return
		}
		next(w, r)
	}
}

// principal returns the caller authenticated by the auth middleware.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
