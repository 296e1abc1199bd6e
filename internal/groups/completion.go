package groups

import (
	"context"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/storage"
)

// Completion is the outcome of CompleteGroupTask.
type Completion struct {
	// Task is the task after the completion was recorded.
	Task *models.GroupTask

	// Cleared is true when every current member had completed the task and it
	// was removed.
	Cleared bool

	// Remaining lists current members who still have to complete the task.
	Remaining []string
}

// CompleteGroupTask records that uid completed the task. Completion is checked
// against the group's current members: once all of them are in the task's
// completed set the task is removed and the group's completions counter goes up.
func (s *Service) CompleteGroupTask(ctx context.Context, groupID, taskID, uid string) (*Completion, error) {
	const op = "CompleteGroupTask"

	if !storage.ValidID(uid) {
		return nil, apperr.Validationf(op, "invalid user id %q", uid)
	}

	unlock := s.locks.Lock(groupID)
	defer unlock()

	task, err := s.loadTask(ctx, op, groupID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.HasCompleted(uid) {
		err := s.store.Update(ctx, taskRef(groupID, taskID), storage.Update{
			Field: "completed",
			Value: storage.ArrayUnion(uid),
		})
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		s.metrics.TaskCompleted()
		s.publish(ctx, events.New(events.TaskCompleted, groupID).WithTask(taskID).WithUser(uid))
	}

	// Both documents are re-read so the decision uses what is stored now.
	task, err = s.loadTask(ctx, op, groupID, taskID)
	if err != nil {
		return nil, err
	}
	g, err := s.loadGroup(ctx, op, groupID)
	if err != nil {
		return nil, err
	}

	remaining := pending(g.MemberIDs(), task.Completed)
	if len(remaining) > 0 {
		return &Completion{Task: task, Remaining: remaining}, nil
	}

	if _, err := s.removeGroupTask(ctx, op, groupID, models.TaskRef{DateISO: task.DateISO, Title: task.Title}); err != nil {
		return nil, err
	}
	return &Completion{Task: task, Cleared: true, Remaining: []string{}}, nil
}

// pending returns members \ completed, in member order.
func pending(members, completed []string) []string {
	done := make(map[string]bool, len(completed))
	for _, uid := range completed {
		done[uid] = true
	}
	out := make([]string, 0, len(members))
	for _, uid := range members {
		if !done[uid] {
			out = append(out, uid)
		}
	}
	return out
}
