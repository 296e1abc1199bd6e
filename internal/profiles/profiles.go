// Package profiles reads user profile documents and builds the member and
// friend snapshots derived from them.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/storage"
)

// Collection is the users collection.
const Collection = "users"

// Lookup resolves users/{uid} documents.
type Lookup struct {
	store storage.Store
}

// NewLookup creates a Lookup over store.
func NewLookup(store storage.Store) *Lookup {
	return &Lookup{store: store}
}

// Get returns the profile for uid. found is false when no profile document exists.
func (l *Lookup) Get(ctx context.Context, uid string) (user *models.User, found bool, err error) {
	if !storage.ValidID(uid) {
		return nil, false, nil
	}

	snap, err := l.store.Get(ctx, storage.Doc(Collection, uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get user %s: %w", uid, err)
	}

	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return nil, false, fmt.Errorf("failed to decode user %s: %w", uid, err)
	}
	u.ID = snap.ID()
	return &u, true, nil
}

// Member builds the snapshot embedded in a group for uid. A missing profile
// yields the user ID as username and the default picture.
func (l *Lookup) Member(ctx context.Context, uid string) (models.Member, error) {
	u, found, err := l.Get(ctx, uid)
	if err != nil {
		return models.Member{}, err
	}
	if !found {
		return models.Member{UID: uid, Username: uid, ProfilePic: models.DefaultProfilePic}, nil
	}
	return models.Member{
		UID:        uid,
		Username:   orDefault(u.Username, uid),
		ProfilePic: orDefault(u.ProfilePic, models.DefaultProfilePic),
	}, nil
}

// Set writes a profile. Profiles belong to the identity provider; this is used
// by tooling and tests to seed them.
func (l *Lookup) Set(ctx context.Context, u *models.User) error {
	if !storage.ValidID(u.ID) {
		return fmt.Errorf("invalid user id %q", u.ID)
	}
	return l.store.Set(ctx, storage.Doc(Collection, u.ID), u)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
