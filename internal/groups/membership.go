package groups

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/storage"
)

// AddMember adds uid to the group. Adding an existing member is a no-op and
// reports added=false.
func (s *Service) AddMember(ctx context.Context, groupID, uid string) (added bool, err error) {
	ids, err := s.addMembers(ctx, "AddMember", groupID, []string{uid})
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// AddMembers adds every uid not already a member, in order, skipping
// duplicates within the batch. It returns the IDs actually added.
func (s *Service) AddMembers(ctx context.Context, groupID string, uids []string) ([]string, error) {
	return s.addMembers(ctx, "AddMembers", groupID, uids)
}

func (s *Service) addMembers(ctx context.Context, op, groupID string, uids []string) ([]string, error) {
	for _, uid := range uids {
		if !storage.ValidID(uid) {
			return nil, apperr.Validationf(op, "invalid user id %q", uid)
		}
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	g, err := s.loadGroup(ctx, op, groupID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(g.Members)+len(uids))
	for _, m := range g.Members {
		seen[m.UID] = true
	}

	var (
		added    []string
		snapshot []any
	)
	for _, uid := range uids {
		if seen[uid] {
			continue
		}
		seen[uid] = true

		m, err := s.profiles.Member(ctx, uid)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		added = append(added, uid)
		snapshot = append(snapshot, m)
	}
	if len(added) == 0 {
		return []string{}, nil
	}

	err = s.store.Update(ctx, groupRef(groupID), storage.Update{
		Field: "members",
		Value: storage.ArrayUnion(snapshot...),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
		}
		return nil, apperr.Wrap(op, err)
	}

	s.metrics.MembersAdded(len(added))
	for _, uid := range added {
		s.publish(ctx, events.New(events.MemberAdded, groupID).WithUser(uid))
	}
	return added, nil
}

// RemoveMember removes uid from the group. When no members remain the group
// and its tasks are deleted and groupDeleted is true. Removing a non-member is
// a no-op.
func (s *Service) RemoveMember(ctx context.Context, groupID, uid string) (removed, groupDeleted bool, err error) {
	const op = "RemoveMember"

	unlock := s.locks.Lock(groupID)
	defer unlock()

	g, err := s.loadGroup(ctx, op, groupID)
	if err != nil {
		return false, false, err
	}

	var entries []any
	for _, m := range g.Members {
		if m.UID == uid {
			entries = append(entries, m)
		}
	}
	if len(entries) == 0 {
		return false, false, nil
	}

	err = s.store.Update(ctx, groupRef(groupID), storage.Update{
		Field: "members",
		Value: storage.ArrayRemove(entries...),
	})
	if err != nil {
		return false, false, apperr.Wrap(op, err)
	}
	s.metrics.MemberRemoved()
	s.publish(ctx, events.New(events.MemberRemoved, groupID).WithUser(uid))

	// Re-read: another replica may have added members since the first read.
	g, err = s.loadGroup(ctx, op, groupID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return true, true, nil
		}
		return true, false, err
	}
	if len(g.Members) > 0 {
		return true, false, nil
	}

	if err := s.deleteGroup(ctx, groupID); err != nil {
		return true, false, apperr.Wrap(op, err)
	}
	return true, true, nil
}

// deleteGroup removes the task sub-collection and then the group document.
// Callers hold the group lock.
func (s *Service) deleteGroup(ctx context.Context, groupID string) error {
	tasks, err := s.store.Query(ctx, tasksPath(groupID))
	if err != nil {
		return err
	}
	for _, snap := range tasks {
		if err := s.store.Delete(ctx, taskRef(groupID, snap.ID())); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, groupRef(groupID)); err != nil {
		return err
	}

	slog.Info("Group deleted after last member left", "group_id", groupID, "tasks_deleted", len(tasks))
	s.metrics.GroupDeleted()
	s.publish(ctx, events.New(events.GroupDeleted, groupID))
	return nil
}

// GetMembers resolves the group's members against their profiles. Members
// whose profile no longer exists are skipped.
func (s *Service) GetMembers(ctx context.Context, groupID string) ([]models.MemberProfile, error) {
	const op = "GetMembers"

	g, err := s.loadGroup(ctx, op, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]models.MemberProfile, 0, len(g.Members))
	for _, m := range g.Members {
		u, found, err := s.profiles.Get(ctx, m.UID)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		if !found {
			continue
		}
		p := models.MemberProfile{
			UID:        m.UID,
			Username:   u.Username,
			Email:      u.Email,
			ProfilePic: u.ProfilePic,
		}
		if p.Username == "" {
			p.Username = m.Username
		}
		if p.ProfilePic == "" {
			p.ProfilePic = models.DefaultProfilePic
		}
		out = append(out, p)
	}
	return out, nil
}

// ListUserGroups returns summaries of every group uid belongs to, ordered by
// group ID. Members are embedded objects, so this scans the collection.
func (s *Service) ListUserGroups(ctx context.Context, uid string) ([]models.GroupSummary, error) {
	snaps, err := s.store.Query(ctx, Collection)
	if err != nil {
		return nil, apperr.Wrap("ListUserGroups", err)
	}

	out := make([]models.GroupSummary, 0)
	for _, snap := range snaps {
		g, err := decodeGroup(snap)
		if err != nil {
			return nil, apperr.Wrap("ListUserGroups", err)
		}
		if g.HasMember(uid) {
			out = append(out, g.Summary())
		}
	}
	return out, nil
}
