// Package storage provides abstractions for persistent data storage.
//
// Data is modeled as collections of documents addressed by a path of
// collection/id segments, e.g. "groups/Roomies/tasks/2024-03-01 Dishes".
// Backends live in sub-packages (sqlite, postgres, firestore).
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned by Create when the document is already present.
	ErrAlreadyExists = errors.New("document already exists")
)

// Store defines the interface for document storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, Firestore)
// without changing the service layer.
//
// No multi-document transactions are assumed. Single-document writes are atomic,
// including the array and counter transforms accepted by Update.
type Store interface {
	// Get retrieves a single document.
	// Returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, ref Ref) (Snapshot, error)

	// Create writes a new document, failing with ErrAlreadyExists if one is
	// already stored under ref.
	Create(ctx context.Context, ref Ref, data any) error

	// Set overwrites the document at ref with data.
	Set(ctx context.Context, ref Ref, data any) error

	// Update merges the given field updates into an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, ref Ref, updates ...Update) error

	// Delete removes the document at ref. Deleting a missing document is not an error.
	// Sub-collections are not removed.
	Delete(ctx context.Context, ref Ref) error

	// Query returns the documents of a collection matching every predicate,
	// ordered by document ID.
	Query(ctx context.Context, collection string, preds ...Predicate) ([]Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}

// Snapshot is a document read from a Store.
type Snapshot interface {
	// ID is the document ID within its collection.
	ID() string

	// DataTo decodes the document fields into v, which must be a pointer to a struct
	// or map.
	DataTo(v any) error
}
