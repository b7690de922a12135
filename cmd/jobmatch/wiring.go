package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/jobmatch/internal/adapters/http/api"
	"github.com/okian/jobmatch/internal/adapters/http/site"
	"github.com/okian/jobmatch/internal/adapters/http/swagger"
	"github.com/okian/jobmatch/internal/adapters/mq/broker"
	"github.com/okian/jobmatch/internal/adapters/repository"
	"github.com/okian/jobmatch/internal/adapters/storage"
	app "github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/auth"
	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/internal/domain/skills"
	"github.com/okian/jobmatch/pkg/logger"
)

// vocabulary builds the configured skill vocabulary.
func vocabulary(cfg *config.Config) *skills.Vocabulary {
	if len(cfg.SkillVocabulary) > 0 {
		return skills.NewVocabulary(cfg.SkillVocabulary)
	}
	return skills.Default()
}

// publisher returns the AMQP publisher when a broker is configured and the
// log publisher otherwise.
func publisher(cfg *config.Config, l logger.Logger) (broker.Publisher, error) {
	if cfg.AMQPURL == "" {
		return broker.NewLogPublisher(l.Named("events")), nil
	}
	p, err := broker.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect event broker: %w", err)
	}
	return p, nil
}

// buildService opens the stores named by cfg and assembles the service.
// The returned DocStore is owned by the caller.
func buildService(ctx context.Context, cfg *config.Config, l logger.Logger) (*app.Service, repository.DocStore, error) {
	docs, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN, repository.WithMaxConns(cfg.StoreMaxConns))
	if err != nil {
		return nil, nil, fmt.Errorf("open document store: %w", err)
	}
	fail := func(err error) (*app.Service, repository.DocStore, error) {
		_ = docs.Close()
		return nil, nil, err
	}

	blobs, err := storage.Open(ctx, storage.Config{
		Driver:      cfg.BlobDriver,
		Dir:         cfg.UploadDir,
		S3Bucket:    cfg.S3Bucket,
		S3Region:    cfg.S3Region,
		S3Endpoint:  cfg.S3Endpoint,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return fail(fmt.Errorf("open blob store: %w", err))
	}
	hasher, err := auth.NewHasher(cfg.BcryptCost, cfg.PasswordPepper)
	if err != nil {
		return fail(err)
	}
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return fail(err)
	}
	events, err := publisher(cfg, l)
	if err != nil {
		return fail(err)
	}

	svc, err := app.New(
		app.WithLogger(l.Named("service")),
		app.WithRepository(repository.New(docs)),
		app.WithBlobStore(blobs),
		app.WithPublisher(events),
		app.WithHasher(hasher),
		app.WithTokens(tokens),
		app.WithVocabulary(vocabulary(cfg)),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)
	if err != nil {
		_ = events.Close()
		return fail(err)
	}
	return svc, docs, nil
}

// newMux registers the landing page, the docs and the API routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, l logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc.Tokens(),
		api.WithLogger(l.Named("api")),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLoginRate(cfg.LoginRatePerMin, cfg.LoginBurst),
	).Register(ctx, mux)
	return mux
}
