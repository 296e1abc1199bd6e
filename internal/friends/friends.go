// Package friends keeps the flat friendships collection. A friendship is an
// unordered pair stored as userA/userB, so every lookup checks both orderings.
package friends

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/profiles"
	"github.com/mmynk/groupcal/internal/storage"
)

// Collection is the friendships collection.
const Collection = "friendships"

// namespace seeds the name-based friendship IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://groupcal/friendships"))

// PairID returns the document ID for the pair. It does not depend on order.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return uuid.NewSHA1(namespace, []byte(a+"\x00"+b)).String()
}

// Service manages friendships.
type Service struct {
	store    storage.Store
	profiles *profiles.Lookup
	now      func() time.Time
}

// NewService creates a Service over store.
func NewService(store storage.Store) *Service {
	return &Service{
		store:    store,
		profiles: profiles.NewLookup(store),
		now:      time.Now,
	}
}

func validatePair(op, uid, friend string) error {
	if !storage.ValidID(uid) {
		return apperr.Validationf(op, "invalid user id %q", uid)
	}
	if !storage.ValidID(friend) {
		return apperr.Validationf(op, "invalid friend id %q", friend)
	}
	if uid == friend {
		return apperr.Validationf(op, "cannot befriend yourself")
	}
	return nil
}

// find returns every friendship document for the pair, in either ordering.
func (s *Service) find(ctx context.Context, uid, friend string) ([]*models.Friendship, error) {
	var out []*models.Friendship
	for _, pair := range [][2]string{{uid, friend}, {friend, uid}} {
		snaps, err := s.store.Query(ctx, Collection,
			storage.Where("userA", pair[0]),
			storage.Where("userB", pair[1]),
		)
		if err != nil {
			return nil, err
		}
		for _, snap := range snaps {
			f, err := decode(snap)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func decode(snap storage.Snapshot) (*models.Friendship, error) {
	var f models.Friendship
	if err := snap.DataTo(&f); err != nil {
		return nil, fmt.Errorf("failed to decode friendship %s: %w", snap.ID(), err)
	}
	f.ID = snap.ID()
	return &f, nil
}

// AddFriend links uid and friend. An existing friendship, in either ordering,
// is returned with created=false.
func (s *Service) AddFriend(ctx context.Context, uid, friend string) (f *models.Friendship, created bool, err error) {
	const op = "AddFriend"

	if err := validatePair(op, uid, friend); err != nil {
		return nil, false, err
	}

	existing, err := s.find(ctx, uid, friend)
	if err != nil {
		return nil, false, apperr.Wrap(op, err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	f = &models.Friendship{
		ID:        PairID(uid, friend),
		UserA:     uid,
		UserB:     friend,
		CreatedAt: s.now().UTC(),
	}
	ref := storage.Doc(Collection, f.ID)
	if err := s.store.Create(ctx, ref, f); err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return nil, false, apperr.Wrap(op, err)
		}
		// Lost the race to a concurrent add of the same pair.
		snap, err := s.store.Get(ctx, ref)
		if err != nil {
			return nil, false, apperr.Wrap(op, err)
		}
		f, err = decode(snap)
		if err != nil {
			return nil, false, apperr.Wrap(op, err)
		}
		return f, false, nil
	}
	return f, true, nil
}

// RemoveFriend deletes every friendship document for the pair and returns how
// many were removed.
func (s *Service) RemoveFriend(ctx context.Context, uid, friend string) (int, error) {
	const op = "RemoveFriend"

	if err := validatePair(op, uid, friend); err != nil {
		return 0, err
	}

	existing, err := s.find(ctx, uid, friend)
	if err != nil {
		return 0, apperr.Wrap(op, err)
	}
	for _, f := range existing {
		if err := s.store.Delete(ctx, storage.Doc(Collection, f.ID)); err != nil {
			return 0, apperr.Wrap(op, err)
		}
	}
	return len(existing), nil
}

// AreFriends reports whether a friendship exists for the pair.
func (s *Service) AreFriends(ctx context.Context, uid, friend string) (bool, error) {
	if err := validatePair("AreFriends", uid, friend); err != nil {
		return false, err
	}
	existing, err := s.find(ctx, uid, friend)
	if err != nil {
		return false, apperr.Wrap("AreFriends", err)
	}
	return len(existing) > 0, nil
}

// ListFriends returns the profiles of uid's friends ordered by user ID.
// Friends without a profile document are skipped.
func (s *Service) ListFriends(ctx context.Context, uid string) ([]models.FriendProfile, error) {
	const op = "ListFriends"

	if !storage.ValidID(uid) {
		return nil, apperr.Validationf(op, "invalid user id %q", uid)
	}

	others := make(map[string]bool)
	for _, field := range []string{"userA", "userB"} {
		snaps, err := s.store.Query(ctx, Collection, storage.Where(field, uid))
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		for _, snap := range snaps {
			f, err := decode(snap)
			if err != nil {
				return nil, apperr.Wrap(op, err)
			}
			others[f.Other(uid)] = true
		}
	}

	ids := make([]string, 0, len(others))
	for id := range others {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.FriendProfile, 0, len(ids))
	for _, id := range ids {
		u, found, err := s.profiles.Get(ctx, id)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		if !found {
			continue
		}
		p := models.FriendProfile{UID: id, Username: u.Username, ProfilePic: u.ProfilePic}
		if p.Username == "" {
			p.Username = id
		}
		if p.ProfilePic == "" {
			p.ProfilePic = models.DefaultProfilePic
		}
		out = append(out, p)
	}
	return out, nil
}
