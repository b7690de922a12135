package model

import "time"

// ResumeStatus tracks the processing pipeline.
type ResumeStatus string

const (
	ResumePending   ResumeStatus = "pending"
	ResumeProcessed ResumeStatus = "processed"
	ResumeFailed    ResumeStatus = "failed"
)

// Resume is an uploaded file and the result of processing it.
type Resume struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	StorageKey  string       `json:"storage_key"`
	SHA256      string       `json:"sha256"`
	Status      ResumeStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	Skills      []string     `json:"skills"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
}

// DedupeKey identifies the same content uploaded by the same user.
func (r Resume) DedupeKey() string {
	return r.UserID + ":" + r.SHA256
}

// ResumeTask is the unit of work handed to resume workers.
type ResumeTask struct {
	ResumeID   string
	UserID     string
	DedupeKey  string
	EnqueuedAt time.Time
}
