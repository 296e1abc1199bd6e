// Package apperr defines the error kinds surfaced by the group and friendship
// services.
package apperr

import (
	"errors"
	"fmt"

	"github.com/mmynk/groupcal/internal/storage"
)

// Kind classifies an error for callers and for the RPC layer.
type Kind int

const (
	// Store is any underlying transport or storage failure.
	Store Kind = iota
	// Validation means the caller supplied unusable input.
	Validation
	// NotFound means a referenced group, task or user does not exist.
	NotFound
	// Conflict means the operation collided with existing state and no
	// resolution policy applied.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "store"
	}
}

// Error is a classified failure with a human-readable detail.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Kind, so errors.Is(err, &Error{Kind: NotFound})
// works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Validationf builds a Validation error.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: Validation, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(op, format string, args ...any) error {
	return &Error{Kind: NotFound, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error.
func Conflictf(op, format string, args ...any) error {
	return &Error{Kind: Conflict, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Wrap classifies err for op. storage.ErrNotFound becomes NotFound, nil stays nil,
// an existing *Error keeps its kind, anything else is a Store error.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return &Error{Kind: NotFound, Op: op, Err: err}
	}
	return &Error{Kind: Store, Op: op, Err: err}
}

// KindOf classifies any error. Unclassified errors are Store errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, storage.ErrNotFound) {
		return NotFound
	}
	return Store
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
