package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/okian/jobmatch/internal/adapters/mq/broker"
	"github.com/okian/jobmatch/internal/adapters/mq/queue"
	"github.com/okian/jobmatch/internal/adapters/storage"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/textextract"
	"github.com/okian/jobmatch/internal/domain/types"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// ResumeProcessedEvent is published when a resume has been parsed.
type ResumeProcessedEvent struct {
	ResumeID string   `json:"resume_id"`
	UserID   string   `json:"user_id"`
	Skills   []string `json:"skills"`
}

// UploadResume stores the file, records a pending resume and queues it for
// processing. Uploading content the user already uploaded returns the
// existing resume with duplicate set.
func (s *Service) UploadResume(ctx context.Context, userID string, in types.UploadInput) (model.Resume, bool, error) {
	if _, err := s.requireRole(ctx, userID, model.RoleJobSeeker); err != nil {
		return model.Resume{}, false, err
	}
	if len(in.Data) == 0 {
		return model.Resume{}, false, fmt.Errorf("%w: empty file", model.ErrInvalidInput)
	}
	if int64(len(in.Data)) > s.maxUploadBytes {
		return model.Resume{}, false, fmt.Errorf("%w: limit is %d bytes", model.ErrTooLarge, s.maxUploadBytes)
	}
	contentType := textextract.DetectContentType(in.FileName, in.ContentType)
	if !textextract.Supported(contentType) {
		return model.Resume{}, false, fmt.Errorf("%w: %s", model.ErrUnsupportedMedia, in.ContentType)
	}
	if !s.isStarted() {
		return model.Resume{}, false, fmt.Errorf("%w: service not started", model.ErrBackpressure)
	}

	sum := sha256.Sum256(in.Data)
	res := model.Resume{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    filepath.Base(in.FileName),
		ContentType: contentType,
		Size:        int64(len(in.Data)),
		SHA256:      hex.EncodeToString(sum[:]),
		Status:      model.ResumePending,
		Skills:      []string{},
		UploadedAt:  s.now().UTC(),
	}

	if prev, err := s.repo.ResumeByHash(ctx, userID, res.SHA256); err == nil && prev.Status != model.ResumeFailed {
		metrics.RecordResumeDuplicate()
		return prev, true, nil
	} else if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Resume{}, false, err
	}
	key := res.DedupeKey()
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordResumeDuplicate()
		return model.Resume{}, false, fmt.Errorf("%w: identical upload in progress", model.ErrConflict)
	}

	res.StorageKey = storage.ResumeKey(userID, res.ID, filepath.Ext(res.FileName))
	if err := s.blobs.Put(ctx, res.StorageKey, in.Data, contentType); err != nil {
		s.deduper.Unrecord(ctx, key)
		return model.Resume{}, false, fmt.Errorf("store resume file: %w", err)
	}
	if err := s.repo.SaveResume(ctx, res); err != nil {
		s.deduper.Unrecord(ctx, key)
		_ = s.blobs.Delete(ctx, res.StorageKey)
		return model.Resume{}, false, err
	}

	task := model.ResumeTask{ResumeID: res.ID, UserID: userID, DedupeKey: key}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		s.deduper.Unrecord(ctx, key)
		_ = s.repo.DeleteResume(ctx, res.ID)
		_ = s.blobs.Delete(ctx, res.StorageKey)
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			s.logger.Warn(ctx, "resume queue rejected task", logger.String("resume_id", res.ID), logger.Error(err))
			return model.Resume{}, false, fmt.Errorf("%w: %v", model.ErrBackpressure, err)
		}
		return model.Resume{}, false, err
	}

	metrics.RecordResumeUploaded()
	s.logger.Info(ctx, "resume queued",
		logger.String("resume_id", res.ID),
		logger.String("user_id", userID),
		logger.String("content_type", contentType),
		logger.Int64("size", res.Size),
	)
	return res, false, nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Process runs one resume task: load the file, extract its text and skills,
// and replace the owner's profile. Failures are recorded on the resume.
func (s *Service) Process(ctx context.Context, t model.ResumeTask) error { //nolint:gocritic // task is passed by value
	res, err := s.repo.ResumeByID(ctx, t.ResumeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug(ctx, "resume gone before processing", logger.String("resume_id", t.ResumeID))
			return nil
		}
		return err
	}

	found, err := s.extractResume(ctx, res)
	if err != nil {
		return s.failResume(ctx, res, t.DedupeKey, err)
	}

	now := s.now().UTC()
	res.Status = model.ResumeProcessed
	res.Error = ""
	res.Skills = found
	res.ProcessedAt = &now
	if err := s.repo.SaveResume(ctx, res); err != nil {
		return s.failResume(ctx, res, t.DedupeKey, err)
	}
	profile := model.Profile{UserID: res.UserID, Skills: found, ResumeID: res.ID, UpdatedAt: now}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		res.Skills = nil
		return s.failResume(ctx, res, t.DedupeKey, fmt.Errorf("save profile: %w", err))
	}

	metrics.RecordResumeProcessed()
	metrics.RecordSkillsExtracted("resume", len(found))
	s.publish(ctx, broker.ResumeProcessed, ResumeProcessedEvent{ResumeID: res.ID, UserID: res.UserID, Skills: found})
	return nil
}

func (s *Service) extractResume(ctx context.Context, res model.Resume) ([]string, error) { //nolint:gocritic // read-only copy
	data, err := s.blobs.Get(ctx, res.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load resume file: %w", err)
	}
	text, err := textextract.Extract(res.ContentType, data)
	if err != nil {
		return nil, err
	}
	return s.vocab.Extract(text), nil
}

// failResume marks the resume failed and forgets its dedupe key so the same
// file can be uploaded again.
func (s *Service) failResume(ctx context.Context, res model.Resume, dedupeKey string, cause error) error { //nolint:gocritic // read-only copy
	metrics.RecordResumeFailed()
	if dedupeKey != "" {
		s.deduper.Unrecord(ctx, dedupeKey)
	}
	now := s.now().UTC()
	res.Status = model.ResumeFailed
	res.Error = cause.Error()
	res.ProcessedAt = &now
	if err := s.repo.SaveResume(ctx, res); err != nil {
		return errors.Join(cause, fmt.Errorf("mark resume failed: %w", err))
	}
	return fmt.Errorf("process resume %s: %w", res.ID, cause)
}

// Resume returns one of the caller's resumes.
func (s *Service) Resume(ctx context.Context, userID, resumeID string) (model.Resume, error) {
	res, err := s.repo.ResumeByID(ctx, resumeID)
	if err != nil {
		return model.Resume{}, err
	}
	if res.UserID != userID {
		return model.Resume{}, fmt.Errorf("%w: resume belongs to another user", model.ErrForbidden)
	}
	return res, nil
}

// Profile returns the caller's skill profile or ErrNotFound.
func (s *Service) Profile(ctx context.Context, userID string) (model.Profile, error) {
	return s.repo.ProfileByUser(ctx, userID)
}

// UpdateSkills replaces the job seeker's skills. Setting skills creates the
// profile if there was none.
func (s *Service) UpdateSkills(ctx context.Context, userID string, list []string) (model.Profile, error) {
	if _, err := s.requireRole(ctx, userID, model.RoleJobSeeker); err != nil {
		return model.Profile{}, err
	}
	p, err := s.repo.ProfileByUser(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, err
	}
	p.UserID = userID
	p.Skills = s.vocab.Normalize(list)
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return model.Profile{}, err
	}
	metrics.RecordSkillsExtracted("manual", len(p.Skills))
	s.logger.Debug(ctx, "skills updated", logger.String("user_id", userID), logger.Int("skills", len(p.Skills)))
	return p, nil
}
