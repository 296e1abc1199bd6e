package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/storage"
)

// maxSuffixAttempts bounds suffix allocation under the Suffix policy.
const maxSuffixAttempts = 64

// CreateGroup registers a group named name. Under Reuse an existing group with
// that name is returned with created=false. Under Suffix a fresh suffixed name
// is allocated instead.
func (s *Service) CreateGroup(ctx context.Context, name, coverPhoto string) (group *models.Group, created bool, err error) {
	const op = "CreateGroup"

	if strings.TrimSpace(name) == "" {
		return nil, false, apperr.Validationf(op, "group name is required")
	}
	if !storage.ValidID(name) {
		return nil, false, apperr.Validationf(op, "group name %q must not contain '/'", name)
	}
	if coverPhoto == "" {
		coverPhoto = models.DefaultCoverPhoto
	}

	g := &models.Group{
		Members:     []models.Member{},
		CoverPhoto:  coverPhoto,
		Completions: 0,
		CreatedAt:   s.now().UTC(),
	}

	switch s.policy {
	case Suffix:
		for attempt := 0; attempt < maxSuffixAttempts; attempt++ {
			candidate := fmt.Sprintf("%s%s%04d", name, models.SEP, s.intn(10000))
			err := s.store.Create(ctx, groupRef(candidate), g)
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				return nil, false, apperr.Wrap(op, err)
			}
			g.ID = candidate
			s.created(ctx, g)
			return g, true, nil
		}
		return nil, false, apperr.Conflictf(op, "no free name for %q after %d attempts", name, maxSuffixAttempts)

	default:
		err := s.store.Create(ctx, groupRef(name), g)
		if errors.Is(err, storage.ErrAlreadyExists) {
			existing, err := s.loadGroup(ctx, op, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		if err != nil {
			return nil, false, apperr.Wrap(op, err)
		}
		g.ID = name
		s.created(ctx, g)
		return g, true, nil
	}
}

func (s *Service) created(ctx context.Context, g *models.Group) {
	s.metrics.GroupCreated()
	s.publish(ctx, events.New(events.GroupCreated, g.ID))
}

// GroupExists reports whether a group document exists.
func (s *Service) GroupExists(ctx context.Context, groupID string) (bool, error) {
	if !storage.ValidID(groupID) {
		return false, nil
	}
	_, err := s.store.Get(ctx, groupRef(groupID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, apperr.Wrap("GroupExists", err)
	}
	return true, nil
}

// GetGroup returns a group with its embedded members.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.loadGroup(ctx, "GetGroup", groupID)
}
