// Package events publishes group change notifications so that other members'
// clients can refresh without polling.
package events

import (
	"context"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/nats-io/nuid"
)

// Type names a change.
type Type string

const (
	GroupCreated  Type = "group.created"
	GroupDeleted  Type = "group.deleted"
	MemberAdded   Type = "member.added"
	MemberRemoved Type = "member.removed"
	TaskAdded     Type = "task.added"
	TaskCompleted Type = "task.completed"
	TaskCleared   Type = "task.cleared"
	TaskDeleted   Type = "task.deleted"
)

// ShardCount is the number of subject partitions events are spread over.
const ShardCount = 1024

// SubjectPrefix is the root of every event subject.
const SubjectPrefix = "groupcal.event"

// Event describes one committed change to a group.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	GroupID    string    `json:"groupId"`
	TaskID     string    `json:"taskId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event with a fresh ID.
func New(t Type, groupID string) Event {
	return Event{
		ID:         nuid.Next(),
		Type:       t,
		GroupID:    groupID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithTask sets the task ID.
func (e Event) WithTask(taskID string) Event {
	e.TaskID = taskID
	return e
}

// WithUser sets the user ID.
func (e Event) WithUser(userID string) Event {
	e.UserID = userID
	return e
}

// ShardID maps a group ID to its partition.
func ShardID(groupID string) int {
	return int(crc32.ChecksumIEEE([]byte(groupID)) % ShardCount)
}

// Subject returns the subject e is published on:
// groupcal.event.{shard}.{type}
func Subject(e Event) string {
	return fmt.Sprintf("%s.%d.%s", SubjectPrefix, ShardID(e.GroupID), e.Type)
}

// Publisher delivers events. Publishing happens after the store write has
// committed, so a failed publish never rolls anything back.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards events. It is used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
