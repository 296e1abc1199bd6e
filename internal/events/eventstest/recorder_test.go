package eventstest

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/groupcal/internal/events"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	_ = r.Publish(ctx, events.New(events.GroupCreated, "Office"))
	_ = r.Publish(ctx, events.New(events.TaskAdded, "Office").WithTask("t1"))

	want := []events.Type{events.GroupCreated, events.TaskAdded}
	if diff := cmp.Diff(want, r.Types()); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	got := r.Events()
	got[0].GroupID = "changed"
	if r.Events()[0].GroupID != "Office" {
		t.Error("Events must return a copy")
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Publish(context.Background(), events.New(events.MemberAdded, "Office"))
		}()
	}
	wg.Wait()

	if n := len(r.Events()); n != 20 {
		t.Errorf("expected 20 events, got %d", n)
	}
}
