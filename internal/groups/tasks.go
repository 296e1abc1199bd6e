package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/storage"
)

const dateLayout = "2006-01-02"

// validateTask checks the fields a task ID is derived from.
func validateTask(op string, t *models.GroupTask) error {
	if strings.TrimSpace(t.Title) == "" {
		return apperr.Validationf(op, "task title is required")
	}
	if strings.TrimSpace(t.Desc) == "" {
		return apperr.Validationf(op, "task desc is required")
	}
	if strings.Contains(t.Title, "/") {
		return apperr.Validationf(op, "task title %q must not contain '/'", t.Title)
	}
	d, err := time.Parse(dateLayout, t.DateISO)
	if err != nil || d.Format(dateLayout) != t.DateISO {
		return apperr.Validationf(op, "dateISO %q is not a YYYY-MM-DD date", t.DateISO)
	}
	return nil
}

// AddTaskToGroup writes a shared task under the group. The ID is derived from
// dateISO and title, so adding the same task twice overwrites it. The group
// lock is held so the task cannot land after the group has been deleted.
func (s *Service) AddTaskToGroup(ctx context.Context, groupID string, task models.GroupTask) (*models.GroupTask, error) {
	const op = "AddTaskToGroup"

	if err := validateTask(op, &task); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	if _, err := s.loadGroup(ctx, op, groupID); err != nil {
		return nil, err
	}

	task.ID = models.TaskID(task.DateISO, task.Title)
	task.CreatedAt = s.now().UTC()
	task.Completed = []string{}
	task.Shared = true

	if err := s.store.Set(ctx, taskRef(groupID, task.ID), &task); err != nil {
		return nil, apperr.Wrap(op, err)
	}

	s.publish(ctx, events.New(events.TaskAdded, groupID).WithTask(task.ID))
	return &task, nil
}

// GetGroupTasks returns every task of the group keyed by task ID.
func (s *Service) GetGroupTasks(ctx context.Context, groupID string) (map[string]*models.GroupTask, error) {
	const op = "GetGroupTasks"

	exists, err := s.GroupExists(ctx, groupID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if !exists {
		return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
	}

	snaps, err := s.store.Query(ctx, tasksPath(groupID))
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	tasks := make(map[string]*models.GroupTask, len(snaps))
	for _, snap := range snaps {
		t, err := decodeTask(snap)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		tasks[t.ID] = t
	}
	return tasks, nil
}

// GetGroupTask returns a single task by its derived ID.
func (s *Service) GetGroupTask(ctx context.Context, groupID, taskID string) (*models.GroupTask, error) {
	return s.loadTask(ctx, "GetGroupTask", groupID, taskID)
}

func (s *Service) loadTask(ctx context.Context, op, groupID, taskID string) (*models.GroupTask, error) {
	if !storage.ValidID(groupID) || !storage.ValidID(taskID) {
		return nil, apperr.NotFoundf(op, "task %q does not exist in group %q", taskID, groupID)
	}
	snap, err := s.store.Get(ctx, taskRef(groupID, taskID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "task %q does not exist in group %q", taskID, groupID)
		}
		return nil, apperr.Wrap(op, err)
	}
	return decodeTask(snap)
}

func decodeTask(snap storage.Snapshot) (*models.GroupTask, error) {
	var t models.GroupTask
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode task %s: %w", snap.ID(), err)
	}
	t.ID = snap.ID()
	if t.Completed == nil {
		t.Completed = []string{}
	}
	return &t, nil
}

// RemoveGroupTask finds the task by dateISO and title, deletes it and
// increments the group's completions counter. It is how fully completed tasks
// are cleared.
func (s *Service) RemoveGroupTask(ctx context.Context, groupID string, ref models.TaskRef) (*models.GroupTask, error) {
	unlock := s.locks.Lock(groupID)
	defer unlock()
	return s.removeGroupTask(ctx, "RemoveGroupTask", groupID, ref)
}

// removeGroupTask expects the group lock to be held.
func (s *Service) removeGroupTask(ctx context.Context, op, groupID string, ref models.TaskRef) (*models.GroupTask, error) {
	if !storage.ValidID(groupID) {
		return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
	}

	snaps, err := s.store.Query(ctx, tasksPath(groupID),
		storage.Where("dateISO", ref.DateISO),
		storage.Where("title", ref.Title),
	)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if len(snaps) == 0 {
		return nil, apperr.NotFoundf(op, "no task %q on %s in group %q", ref.Title, ref.DateISO, groupID)
	}

	t, err := decodeTask(snaps[0])
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if err := s.store.Delete(ctx, taskRef(groupID, t.ID)); err != nil {
		return nil, apperr.Wrap(op, err)
	}

	err = s.store.Update(ctx, groupRef(groupID), storage.Update{
		Field: "completions",
		Value: storage.Increment(1),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
		}
		return nil, apperr.Wrap(op, err)
	}

	s.metrics.TaskCleared()
	s.publish(ctx, events.New(events.TaskCleared, groupID).WithTask(t.ID))
	return t, nil
}

// DeleteGroupTask deletes a task by ID without counting it as completed.
func (s *Service) DeleteGroupTask(ctx context.Context, groupID, taskID string) error {
	const op = "DeleteGroupTask"

	unlock := s.locks.Lock(groupID)
	defer unlock()

	if _, err := s.loadTask(ctx, op, groupID, taskID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, taskRef(groupID, taskID)); err != nil {
		return apperr.Wrap(op, err)
	}

	s.publish(ctx, events.New(events.TaskDeleted, groupID).WithTask(taskID))
	return nil
}
