package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mmynk/groupcal/internal/storage"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("AddTaskToGroup", "title is required"), Validation},
		{"not found", NotFoundf("AddMember", "group %q does not exist", "Roomies"), NotFound},
		{"conflict", Conflictf("CreateGroup", "no free suffix"), Conflict},
		{"wrapped storage not found", Wrap("GetGroup", fmt.Errorf("get: %w", storage.ErrNotFound)), NotFound},
		{"bare storage not found", storage.ErrNotFound, NotFound},
		{"store failure", Wrap("GetGroup", errors.New("connection reset")), Store},
		{"plain error", errors.New("boom"), Store},
		{"wrapped app error", fmt.Errorf("outer: %w", Validationf("op", "bad")), Validation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap("op", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	orig := NotFoundf("GetGroupTask", "task missing")
	if got := Wrap("CompleteGroupTask", orig); got != orig {
		t.Errorf("Wrap should keep an existing *Error, got %v", got)
	}

	cause := errors.New("disk full")
	err := Wrap("AddTaskToGroup", cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if want := "AddTaskToGroup: store: disk full"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsKindMatching(t *testing.T) {
	err := fmt.Errorf("rpc: %w", NotFoundf("GetGroup", "group %q does not exist", "Office"))
	if !errors.Is(err, &Error{Kind: NotFound}) {
		t.Error("expected errors.Is to match by kind")
	}
	if errors.Is(err, &Error{Kind: Validation}) {
		t.Error("unexpected match on a different kind")
	}
	if !IsKind(err, NotFound) {
		t.Error("IsKind should report NotFound")
	}
	if IsKind(nil, Store) {
		t.Error("IsKind(nil) should be false")
	}
}
