// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/groupcal/internal/storage"
	"github.com/mmynk/groupcal/internal/storage/jsondoc"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite, persisting documents as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers, so read-modify-write updates
	// never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get retrieves a single document.
func (s *SQLiteStore) Get(ctx context.Context, ref storage.Ref) (storage.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		ref.Collection, ref.ID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", ref, err)
	}
	return jsondoc.NewSnapshot(ref.ID, []byte(data)), nil
}

// Create inserts a new document, failing if it already exists.
func (s *SQLiteStore) Create(ctx context.Context, ref storage.Ref, data any) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO NOTHING`,
		ref.Collection, ref.ID, raw, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", ref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", ref, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, ref)
	}
	return nil
}

// Set overwrites the document at ref.
func (s *SQLiteStore) Set(ctx context.Context, ref storage.Ref, data any) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		ref.Collection, ref.ID, raw, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set document %s: %w", ref, err)
	}
	return nil
}

// Update applies field updates to an existing document inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, ref storage.Ref, updates ...storage.Update) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		ref.Collection, ref.ID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
	}
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", ref, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", ref, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := jsondoc.Apply(doc, updates...); err != nil {
		return fmt.Errorf("failed to update document %s: %w", ref, err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", ref, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(raw), time.Now().Unix(), ref.Collection, ref.ID,
	); err != nil {
		return fmt.Errorf("failed to write document %s: %w", ref, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a document.
func (s *SQLiteStore) Delete(ctx context.Context, ref storage.Ref) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		ref.Collection, ref.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", ref, err)
	}
	return nil
}

// Query returns the documents in a collection matching all predicates.
func (s *SQLiteStore) Query(ctx context.Context, collection string, preds ...storage.Predicate) ([]storage.Snapshot, error) {
	var sb strings.Builder
	sb.WriteString("SELECT id, data FROM documents WHERE collection = ?")
	args := []any{collection}

	for _, p := range preds {
		path, err := jsonPath(p.Field)
		if err != nil {
			return nil, err
		}

		switch p.Op {
		case storage.OpEqual, storage.OpGreaterEqual, storage.OpLessEqual:
			fmt.Fprintf(&sb, " AND json_extract(data, ?) %s ?", sqlOp(p.Op))
			args = append(args, path, bindValue(p.Value))
		case storage.OpIn:
			values, err := expand(p.Value)
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				return []storage.Snapshot{}, nil
			}
			sb.WriteString(" AND json_extract(data, ?) IN (?" + repeatPlaceholder(len(values)-1) + ")")
			args = append(args, path)
			args = append(args, values...)
		default:
			return nil, fmt.Errorf("unsupported query operator %q", p.Op)
		}
	}
	sb.WriteString(" ORDER BY id")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	snaps := make([]storage.Snapshot, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		snaps = append(snaps, jsondoc.NewSnapshot(id, []byte(data)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return snaps, nil
}

func encode(data any) (string, error) {
	doc, err := jsondoc.Encode(data)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(raw), nil
}

// jsonPath builds a json_extract path for a top-level field.
func jsonPath(field string) (string, error) {
	if field == "" || strings.ContainsAny(field, `"\`) {
		return "", fmt.Errorf("invalid query field %q", field)
	}
	return `$."` + field + `"`, nil
}

func sqlOp(op storage.Op) string {
	if op == storage.OpEqual {
		return "="
	}
	return string(op)
}

// bindValue converts values to what json_extract yields for the same JSON value.
func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

// expand flattens the slice operand of an "in" predicate.
func expand(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("operand of %q must be a slice, got %T", storage.OpIn, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = bindValue(rv.Index(i).Interface())
	}
	return out, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(", ?", n)
}
