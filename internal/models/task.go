package models

import (
	"strings"
	"time"
)

// SEP joins the parts of derived identifiers: task IDs and suffixed group names.
// It is a non-breaking space.
const SEP = "\u00a0"

// Task priorities. Priority is free-form; these are the values the client offers.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// GroupTask is a shared to-do item stored under a group's tasks sub-collection.
// Each member completes it independently; it is removed once every current
// member has completed it.
type GroupTask struct {
	// ID is TaskID(DateISO, Title). Changing either field changes the task's identity.
	ID string `json:"-" firestore:"-"`

	Title    string `json:"title" firestore:"title"`
	Desc     string `json:"desc" firestore:"desc"`
	DateISO  string `json:"dateISO" firestore:"dateISO"`
	Priority string `json:"priority" firestore:"priority"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`

	// Completed holds the IDs of users who completed the task, each at most once.
	Completed []string `json:"completed" firestore:"completed"`

	Shared bool `json:"shared" firestore:"shared"`
}

// TaskID derives a task's document ID from its due date and title.
func TaskID(dateISO, title string) string {
	return dateISO + SEP + title
}

// SplitTaskID reverses TaskID. ok is false when id was not derived by TaskID.
func SplitTaskID(id string) (dateISO, title string, ok bool) {
	return strings.Cut(id, SEP)
}

// HasCompleted reports whether uid has completed the task.
func (t *GroupTask) HasCompleted(uid string) bool {
	for _, c := range t.Completed {
		if c == uid {
			return true
		}
	}
	return false
}

// TaskRef identifies a task by content, the way RemoveGroupTask looks it up.
type TaskRef struct {
	DateISO string
	Title   string
}
