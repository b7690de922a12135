package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS jobmatch_documents (
	seq        BIGSERIAL,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// PostgresStore keeps documents as JSONB rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool to databaseURL and creates the table.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: init schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, body []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobmatch_documents (collection, id, body) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		collection, id, body)
	if err != nil {
		return fmt.Errorf("postgres: put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection, id string, body []byte) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobmatch_documents (collection, id, body) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO NOTHING`,
		collection, id, body)
	if err != nil {
		return fmt.Errorf("postgres: insert %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return conflict(collection, id)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM jobmatch_documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get %s/%s: %w", collection, id, err)
	}
	return body, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM jobmatch_documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("postgres: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT body FROM jobmatch_documents WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", collection, err)
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobmatch_documents WHERE collection = $1`, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", collection, err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
