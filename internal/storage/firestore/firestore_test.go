//go:build emulator

package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nuid"
	"golang.org/x/xerrors"

	"github.com/mmynk/groupcal/internal/storage"
)

type testDoc struct {
	Title     string   `firestore:"title"`
	Count     int64    `firestore:"count"`
	Completed []string `firestore:"completed"`
}

func initStore(t *testing.T) *FirestoreStore {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8000")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(ctx, "testing")
	if err != nil {
		t.Fatalf("failed to initialize firestore client: %+v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFirestore(t *testing.T) {
	store := initStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := storage.CollectionPath("test-" + nuid.Next())
	ref := storage.Ref{Collection: coll, ID: "doc-1"}

	if _, err := store.Get(ctx, ref); !xerrors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %+v", err)
	}

	if err := store.Create(ctx, ref, testDoc{Title: "Dishes", Completed: []string{}}); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := store.Create(ctx, ref, testDoc{Title: "Dishes"}); !xerrors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %+v", err)
	}

	err := store.Update(ctx, ref,
		storage.Update{Field: "completed", Value: storage.ArrayUnion("a", "b")},
		storage.Update{Field: "count", Value: storage.Increment(1)},
	)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	snap, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	var got testDoc
	if err := snap.DataTo(&got); err != nil {
		t.Fatalf("%+v", err)
	}
	if got.Count != 1 || len(got.Completed) != 2 {
		t.Fatalf("unexpected document: %+v", got)
	}

	snaps, err := store.Query(ctx, coll, storage.Where("title", "Dishes"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(snaps) != 1 || snaps[0].ID() != "doc-1" {
		t.Fatalf("unexpected query results: %d", len(snaps))
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("%+v", err)
	}
}
