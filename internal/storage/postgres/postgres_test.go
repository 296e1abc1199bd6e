package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nuid"

	"github.com/mmynk/groupcal/internal/storage"
)

type testDoc struct {
	Title     string   `json:"title"`
	Count     int      `json:"count"`
	Completed []string `json:"completed"`
}

// newTestStore connects to GROUPCAL_TEST_DATABASE_URL and isolates the test in
// a unique collection prefix.
func newTestStore(t *testing.T) (*PostgresStore, string) {
	t.Helper()

	url := os.Getenv("GROUPCAL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GROUPCAL_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, "test-" + nuid.Next()
}

func TestPostgresStore(t *testing.T) {
	store, prefix := newTestStore(t)
	ctx := context.Background()

	coll := storage.CollectionPath(prefix)
	ref := storage.Ref{Collection: coll, ID: "doc-1"}

	if _, err := store.Get(ctx, ref); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Create(ctx, ref, testDoc{Title: "Dishes", Completed: []string{}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, ref, testDoc{Title: "Dishes"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	err := store.Update(ctx, ref,
		storage.Update{Field: "completed", Value: storage.ArrayUnion("a", "b")},
		storage.Update{Field: "count", Value: storage.Increment(1)},
	)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	snap, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var got testDoc
	if err := snap.DataTo(&got); err != nil {
		t.Fatalf("DataTo failed: %v", err)
	}
	if got.Count != 1 || len(got.Completed) != 2 {
		t.Errorf("unexpected document after update: %+v", got)
	}

	if err := store.Set(ctx, storage.Ref{Collection: coll, ID: "doc-2"}, testDoc{Title: "Laundry", Count: 5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	snaps, err := store.Query(ctx, coll, storage.Where("title", "Dishes"))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID() != "doc-1" {
		t.Errorf("unexpected equality results: %d", len(snaps))
	}

	snaps, err = store.Query(ctx, coll, storage.Predicate{Field: "count", Op: storage.OpGreaterEqual, Value: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID() != "doc-2" {
		t.Errorf("unexpected range results: %d", len(snaps))
	}

	snaps, err = store.Query(ctx, coll, storage.Predicate{Field: "title", Op: storage.OpIn, Value: []string{"Dishes", "Laundry"}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("expected 2 results for in-query, got %d", len(snaps))
	}

	for _, id := range []string{"doc-1", "doc-2"} {
		if err := store.Delete(ctx, storage.Ref{Collection: coll, ID: id}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}
}
