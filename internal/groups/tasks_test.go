package groups

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/groupcal/internal/storage"
)

// pausingStore blocks the first write into tasksPath(group) until released.
type pausingStore struct {
	storage.Store
	group   string
	entered chan struct{}
	release chan struct{}
}

func (p *pausingStore) Set(ctx context.Context, ref storage.Ref, data any) error {
	if ref.Collection == tasksPath(p.group) && p.entered != nil {
		close(p.entered)
		p.entered = nil
		<-p.release
	}
	return p.Store.Set(ctx, ref, data)
}

func TestAddTaskToGroup_LastMemberLeavesDuringWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "alice", "Alice")

	paused := &pausingStore{
		Store:   env.store,
		group:   "Roomies",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewService(paused, WithClock(func() time.Time { return testNow }))

	if _, _, err := svc.CreateGroup(ctx, "Roomies", ""); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := svc.AddMember(ctx, "Roomies", "alice"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	entered := paused.entered
	addErr := make(chan error, 1)
	go func() {
		_, err := svc.AddTaskToGroup(ctx, "Roomies", dishes())
		addErr <- err
	}()
	<-entered

	type removal struct {
		deleted bool
		err     error
	}
	removed := make(chan removal, 1)
	go func() {
		_, deleted, err := svc.RemoveMember(ctx, "Roomies", "alice")
		removed <- removal{deleted, err}
	}()

	select {
	case <-removed:
		t.Fatal("RemoveMember finished while a task write was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(paused.release)
	if err := <-addErr; err != nil {
		t.Fatalf("AddTaskToGroup failed: %v", err)
	}
	r := <-removed
	if r.err != nil {
		t.Fatalf("RemoveMember failed: %v", r.err)
	}
	if !r.deleted {
		t.Fatal("expected the group to be deleted")
	}

	left, err := env.store.Query(ctx, tasksPath("Roomies"))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected no tasks under the deleted group, found %d", len(left))
	}

	// A new group with the same name starts empty.
	if _, _, err := svc.CreateGroup(ctx, "Roomies", ""); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	tasks, err := svc.GetGroupTasks(ctx, "Roomies")
	if err != nil {
		t.Fatalf("GetGroupTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("recreated group has %d stale tasks", len(tasks))
	}
}
