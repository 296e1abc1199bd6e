// Package postgres provides a PostgreSQL-backed implementation of the storage.Store
// interface, persisting documents as jsonb.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/groupcal/internal/config"
	"github.com/mmynk/groupcal/internal/storage"
	"github.com/mmynk/groupcal/internal/storage/jsondoc"
)

var _ storage.Store = (*PostgresStore)(nil)

const (
	defaultMinConns        = 2
	defaultMaxConns        = 20
	defaultMaxConnLifetime = 30 * time.Minute
	defaultMaxConnIdleTime = 5 * time.Minute
	defaultHealthCheck     = 30 * time.Second
)

const createDocumentsSQL = `
CREATE TABLE IF NOT EXISTS documents (
  collection text NOT NULL,
  id text NOT NULL,
  data jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (collection, id)
)`

// PostgresStore implements storage.Store on a pgx connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPool opens a pool for databaseURL, tuned by the DB_* environment variables.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	minConns := config.Int("DB_MIN_CONNS", defaultMinConns)
	maxConns := config.Int("DB_MAX_CONNS", defaultMaxConns)
	if minConns < 0 {
		minConns = defaultMinConns
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}

	cfg.MinConns = int32(minConns)
	cfg.MaxConns = int32(maxConns)
	cfg.MaxConnLifetime = config.Duration("DB_MAX_CONN_LIFETIME", defaultMaxConnLifetime)
	cfg.MaxConnIdleTime = config.Duration("DB_MAX_CONN_IDLE_TIME", defaultMaxConnIdleTime)
	cfg.HealthCheckPeriod = config.Duration("DB_HEALTH_CHECK_PERIOD", defaultHealthCheck)

	return pgxpool.NewWithConfig(ctx, cfg)
}

// New connects to databaseURL and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{Pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the documents table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, createDocumentsSQL); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *PostgresStore) Get(ctx context.Context, ref storage.Ref) (storage.Snapshot, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		ref.Collection, ref.ID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("get document %s: %w", ref, err)
	}
	return jsondoc.NewSnapshot(ref.ID, raw), nil
}

func (s *PostgresStore) Create(ctx context.Context, ref storage.Ref, data any) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}
	res, err := s.Pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO NOTHING`,
		ref.Collection, ref.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("create document %s: %w", ref, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, ref)
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, ref storage.Ref, data any) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		ref.Collection, ref.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("set document %s: %w", ref, err)
	}
	return nil
}

// Update locks the row, applies the updates and writes the result back.
func (s *PostgresStore) Update(ctx context.Context, ref storage.Ref, updates ...storage.Update) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		ref.Collection, ref.ID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
		}
		return fmt.Errorf("read document %s: %w", ref, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode document %s: %w", ref, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := jsondoc.Apply(doc, updates...); err != nil {
		return fmt.Errorf("update document %s: %w", ref, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", ref, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE documents SET data = $3, updated_at = now() WHERE collection = $1 AND id = $2`,
		ref.Collection, ref.ID, out,
	); err != nil {
		return fmt.Errorf("write document %s: %w", ref, err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, ref storage.Ref) error {
	if _, err := s.Pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		ref.Collection, ref.ID,
	); err != nil {
		return fmt.Errorf("delete document %s: %w", ref, err)
	}
	return nil
}

// Query compares jsonb field values, so numbers compare numerically and
// strings lexicographically.
func (s *PostgresStore) Query(ctx context.Context, collection string, preds ...storage.Predicate) ([]storage.Snapshot, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)
	args := []any{collection}

	for _, p := range preds {
		if p.Field == "" {
			return nil, fmt.Errorf("query on empty field name")
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("encode query value: %w", err)
		}
		args = append(args, p.Field, string(value))
		field, operand := len(args)-1, len(args)

		switch p.Op {
		case storage.OpEqual:
			fmt.Fprintf(&sb, ` AND data -> $%d::text = $%d::jsonb`, field, operand)
		case storage.OpGreaterEqual, storage.OpLessEqual:
			fmt.Fprintf(&sb, ` AND data -> $%d::text %s $%d::jsonb`, field, p.Op, operand)
		case storage.OpIn:
			fmt.Fprintf(&sb, ` AND data -> $%d::text IN (SELECT jsonb_array_elements($%d::jsonb))`, field, operand)
		default:
			return nil, fmt.Errorf("unsupported query operator %q", p.Op)
		}
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := s.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	snaps := make([]storage.Snapshot, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		snaps = append(snaps, jsondoc.NewSnapshot(id, raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}

func encode(data any) ([]byte, error) {
	doc, err := jsondoc.Encode(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
