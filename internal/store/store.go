package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxConns = 10

// Connect opens a pgx connection pool and performs a Ping to ensure connectivity.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	config.MaxConns = maxConns
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Store is the data access layer over vacancies, applications and profiles.
type Store struct {
	pool *pgxpool.Pool
}

// New creates the tables when they are missing.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS vacancies (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	requirements TEXT NOT NULL DEFAULT '',
	skills TEXT[] NOT NULL DEFAULT '{}',
	salary_min INTEGER NOT NULL DEFAULT 0,
	salary_max INTEGER NOT NULL DEFAULT 0,
	work_type TEXT NOT NULL DEFAULT '',
	urgent BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL DEFAULT 'open',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vacancies_owner ON vacancies(owner_id);
CREATE INDEX IF NOT EXISTS idx_vacancies_status ON vacancies(status);

CREATE TABLE IF NOT EXISTS profiles (
	user_id UUID PRIMARY KEY,
	full_name TEXT NOT NULL DEFAULT '',
	skills TEXT[] NOT NULL DEFAULT '{}',
	experience TEXT NOT NULL DEFAULT '',
	education TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS applications (
	id UUID PRIMARY KEY,
	vacancy_id UUID NOT NULL REFERENCES vacancies(id) ON DELETE CASCADE,
	job_seeker_id UUID NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	match_score INTEGER CHECK (match_score IS NULL OR (match_score >= 0 AND match_score <= 100)),
	applied_at TIMESTAMPTZ NOT NULL,
	UNIQUE (vacancy_id, job_seeker_id)
);
CREATE INDEX IF NOT EXISTS idx_applications_seeker ON applications(job_seeker_id);
`)
	return err
}
