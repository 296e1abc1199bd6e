package storage

import (
	"fmt"
	"strings"
)

// Ref addresses a single document.
type Ref struct {
	// Collection is the slash-joined collection path, e.g. "groups/Roomies/tasks".
	Collection string
	// ID is the document ID within Collection.
	ID string
}

// Doc builds a Ref from alternating collection/id segments.
// It panics on an odd number of segments; callers build paths from constants.
func Doc(segments ...string) Ref {
	if len(segments) < 2 || len(segments)%2 != 0 {
		panic(fmt.Sprintf("storage: document path needs an even number of segments, got %d", len(segments)))
	}
	return Ref{
		Collection: strings.Join(segments[:len(segments)-1], "/"),
		ID:         segments[len(segments)-1],
	}
}

// CollectionPath joins collection/id/collection segments into a collection path.
func CollectionPath(segments ...string) string {
	if len(segments)%2 != 1 {
		panic(fmt.Sprintf("storage: collection path needs an odd number of segments, got %d", len(segments)))
	}
	return strings.Join(segments, "/")
}

// Path returns the full slash-joined document path.
func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

func (r Ref) String() string {
	return r.Path()
}

// ValidID reports whether s can be used as a single document ID segment.
func ValidID(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.Contains(s, "/")
}

// Op is a query comparison operator.
type Op string

const (
	OpEqual        Op = "=="
	OpGreaterEqual Op = ">="
	OpLessEqual    Op = "<="
	OpIn           Op = "in"
)

// Predicate filters a Query on a named document field.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Where builds an equality predicate.
func Where(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

// Update sets one top-level field. Value is either a plain value or one of the
// transforms returned by ArrayUnion, ArrayRemove and Increment.
type Update struct {
	Field string
	Value any
}

// Transform is an atomic server-side field modification.
type Transform interface {
	transform()
}

// ArrayUnionTransform appends each element not already present in the array.
type ArrayUnionTransform struct{ Elems []any }

// ArrayRemoveTransform removes every occurrence of each element from the array.
type ArrayRemoveTransform struct{ Elems []any }

// IncrementTransform adds N to a numeric field, treating a missing field as 0.
type IncrementTransform struct{ N int64 }

func (ArrayUnionTransform) transform()  {}
func (ArrayRemoveTransform) transform() {}
func (IncrementTransform) transform()   {}

// ArrayUnion returns a transform that adds elems to an array field.
func ArrayUnion(elems ...any) ArrayUnionTransform {
	return ArrayUnionTransform{Elems: elems}
}

// ArrayRemove returns a transform that removes elems from an array field.
func ArrayRemove(elems ...any) ArrayRemoveTransform {
	return ArrayRemoveTransform{Elems: elems}
}

// Increment returns a transform that adds n to a numeric field.
func Increment(n int64) IncrementTransform {
	return IncrementTransform{N: n}
}
