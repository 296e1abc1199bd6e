// Package firestore provides a Cloud Firestore implementation of the storage.Store
// interface. Array and counter transforms map onto Firestore's native
// ArrayUnion, ArrayRemove and Increment.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mmynk/groupcal/internal/storage"
)

var _ storage.Store = (*FirestoreStore)(nil)

// FirestoreStore implements storage.Store on a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// New creates a client for projectID. FIRESTORE_EMULATOR_HOST is honored by the
// client library.
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to initialize firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close closes the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) doc(ref storage.Ref) (*firestore.DocumentRef, error) {
	d := s.client.Doc(ref.Path())
	if d == nil {
		return nil, xerrors.Errorf("invalid document path: %q", ref.Path())
	}
	return d, nil
}

func (s *FirestoreStore) Get(ctx context.Context, ref storage.Ref) (storage.Snapshot, error) {
	d, err := s.doc(ref)
	if err != nil {
		return nil, err
	}
	snap, err := d.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, xerrors.Errorf("document %s: %w", ref, storage.ErrNotFound)
		}
		return nil, xerrors.Errorf("failed to get document %s: %w", ref, err)
	}
	return snapshot{snap}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, ref storage.Ref, data any) error {
	d, err := s.doc(ref)
	if err != nil {
		return err
	}
	if _, err := d.Create(ctx, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return xerrors.Errorf("document %s: %w", ref, storage.ErrAlreadyExists)
		}
		return xerrors.Errorf("failed to create document %s: %w", ref, err)
	}
	return nil
}

func (s *FirestoreStore) Set(ctx context.Context, ref storage.Ref, data any) error {
	d, err := s.doc(ref)
	if err != nil {
		return err
	}
	if _, err := d.Set(ctx, data); err != nil {
		return xerrors.Errorf("failed to set document %s: %w", ref, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, ref storage.Ref, updates ...storage.Update) error {
	d, err := s.doc(ref)
	if err != nil {
		return err
	}

	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{
			FieldPath: firestore.FieldPath{u.Field},
			Value:     convertValue(u.Value),
		})
	}

	if _, err := d.Update(ctx, fsUpdates); err != nil {
		if status.Code(err) == codes.NotFound {
			return xerrors.Errorf("document %s: %w", ref, storage.ErrNotFound)
		}
		return xerrors.Errorf("failed to update document %s: %w", ref, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, ref storage.Ref) error {
	d, err := s.doc(ref)
	if err != nil {
		return err
	}
	if _, err := d.Delete(ctx); err != nil {
		return xerrors.Errorf("failed to delete document %s: %w", ref, err)
	}
	return nil
}

// Query relies on Firestore's default document-ID ordering.
// Range predicates on more than one field need a composite index.
func (s *FirestoreStore) Query(ctx context.Context, collection string, preds ...storage.Predicate) ([]storage.Snapshot, error) {
	coll := s.client.Collection(collection)
	if coll == nil {
		return nil, xerrors.Errorf("invalid collection path: %q", collection)
	}

	q := coll.Query
	for _, p := range preds {
		switch p.Op {
		case storage.OpEqual, storage.OpGreaterEqual, storage.OpLessEqual, storage.OpIn:
			q = q.Where(p.Field, string(p.Op), p.Value)
		default:
			return nil, xerrors.Errorf("unsupported query operator %q", p.Op)
		}
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	snaps := make([]storage.Snapshot, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("failed to query %s: %w", collection, err)
		}
		snaps = append(snaps, snapshot{doc})
	}
	return snaps, nil
}

func convertValue(v any) any {
	switch t := v.(type) {
	case storage.ArrayUnionTransform:
		return firestore.ArrayUnion(t.Elems...)
	case storage.ArrayRemoveTransform:
		return firestore.ArrayRemove(t.Elems...)
	case storage.IncrementTransform:
		return firestore.Increment(t.N)
	default:
		return v
	}
}

type snapshot struct {
	doc *firestore.DocumentSnapshot
}

func (s snapshot) ID() string {
	return s.doc.Ref.ID
}

func (s snapshot) DataTo(v any) error {
	return s.doc.DataTo(v)
}
