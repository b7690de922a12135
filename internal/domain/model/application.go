package model

import "time"

// ApplicationStatus is the employer-side state of an application.
type ApplicationStatus string

const (
	ApplicationApplied  ApplicationStatus = "applied"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{ //nolint:gochecknoglobals // static table
	ApplicationApplied:  {ApplicationReviewed, ApplicationAccepted, ApplicationRejected},
	ApplicationReviewed: {ApplicationAccepted, ApplicationRejected},
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationReviewed, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from s to next.
// Accepted and rejected are final.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application links a job seeker to a job. A user applies to a job once.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	UserID      string            `json:"user_id"`
	ResumeID    string            `json:"resume_id,omitempty"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// UniqueKey is the (job, user) pair an application is unique on.
func (a Application) UniqueKey() string {
	return a.JobID + ":" + a.UserID
}
