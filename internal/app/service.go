// Package service implements the portal's use cases on top of the stores,
// the resume pipeline and the skill matcher.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/jobmatch/internal/adapters/mq/broker"
	"github.com/okian/jobmatch/internal/adapters/mq/queue"
	"github.com/okian/jobmatch/internal/adapters/mq/worker"
	"github.com/okian/jobmatch/internal/adapters/repository"
	"github.com/okian/jobmatch/internal/adapters/storage"
	"github.com/okian/jobmatch/internal/auth"
	"github.com/okian/jobmatch/internal/domain/dedupe"
	"github.com/okian/jobmatch/internal/domain/skills"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

const (
	defaultQueueSize      = 1024
	defaultDedupeSize     = 10_000
	defaultMaxUploadBytes = 5 << 20
	defaultTokenTTL       = 24 * time.Hour
)

// Service implements the API dependencies of the portal.
type Service struct {
	mu sync.RWMutex

	repo   *repository.Repository
	blobs  storage.Store
	events broker.Publisher
	hasher *auth.Hasher
	tokens *auth.TokenService
	vocab  *skills.Vocabulary

	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount    int
	queueSize      int
	dedupeSize     int
	maxUploadBytes int64

	started bool
	now     func() time.Time
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of resume workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the resume task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many upload keys the deduper remembers.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxUploadBytes caps resume uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRepository sets the document repository.
func WithRepository(r *repository.Repository) Option {
	return func(s *Service) {
		if r != nil {
			s.repo = r
		}
	}
}

// WithBlobStore sets where uploaded files are kept.
func WithBlobStore(b storage.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.blobs = b
		}
	}
}

// WithPublisher sets the event publisher.
func WithPublisher(p broker.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithHasher sets the password hasher.
func WithHasher(h *auth.Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithTokens sets the token service.
func WithTokens(t *auth.TokenService) Option {
	return func(s *Service) {
		if t != nil {
			s.tokens = t
		}
	}
}

// WithVocabulary sets the skill vocabulary.
func WithVocabulary(v *skills.Vocabulary) Option {
	return func(s *Service) {
		if v != nil {
			s.vocab = v
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Unset collaborators get in-memory defaults, so
// New() alone yields a working, non-persistent instance.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		maxUploadBytes: defaultMaxUploadBytes,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.repo == nil {
		s.repo = repository.New(repository.Instrument(repository.NewMemoryStore(), repository.DriverMemory))
	}
	if s.blobs == nil {
		s.blobs = storage.NewMemoryStore()
	}
	if s.events == nil {
		s.events = broker.NewLogPublisher(s.logger)
	}
	if s.vocab == nil {
		s.vocab = skills.Default()
	}
	if s.hasher == nil {
		h, err := auth.NewHasher(auth.MinBcryptCost, "")
		if err != nil {
			return nil, err
		}
		s.hasher = h
	}
	if s.tokens == nil {
		t, err := auth.NewTokenService(randomSecret(), defaultTokenTTL)
		if err != nil {
			return nil, err
		}
		s.tokens = t
	}
	return s, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Start creates the queue and deduper and launches the resume workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.ProcessorFunc(s.Process))
	// Workers outlive the request that started the service; Stop ends them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("vocabulary", s.vocab.Len()),
	)
	return nil
}

// Stop closes the queue, lets the workers drain it until ctx expires and
// closes the publisher. The document store belongs to the caller.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping service...")

	_ = s.queue.Close()
	err := s.pool.Shutdown(ctx)
	if cerr := s.events.Close(); cerr != nil && !errors.Is(cerr, broker.ErrClosed) {
		err = errors.Join(err, fmt.Errorf("close publisher: %w", cerr))
	}

	s.started = false
	s.logger.Info(ctx, "service stopped")
	return err
}

// Tokens exposes the token service for the auth middleware.
func (s *Service) Tokens() *auth.TokenService { return s.tokens }

// Vocabulary returns the skill vocabulary in use.
func (s *Service) Vocabulary() *skills.Vocabulary { return s.vocab }

// Ping checks the document store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Docs().Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"vocabularySize": s.vocab.Len(),
	}
	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stats: count documents", logger.Error(err))
	} else {
		stats["documents"] = counts
	}
	return stats
}

// publish sends an event; a failing broker never fails the request.
func (s *Service) publish(ctx context.Context, key string, payload any) {
	if err := s.events.Publish(ctx, key, payload); err != nil {
		s.logger.Warn(ctx, "publish event failed", logger.String("routing_key", key), logger.Error(err))
	}
}
