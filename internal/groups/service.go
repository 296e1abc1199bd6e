// Package groups implements group registration, membership, shared tasks,
// completion reconciliation and search on top of a storage.Store.
//
// Membership and completion arrays are only changed with the store's atomic
// array transforms. Sequences that read, decide and then write (removing the
// last member, clearing a fully completed task) run under a per-group lock.
package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mmynk/groupcal/internal/apperr"
	"github.com/mmynk/groupcal/internal/events"
	"github.com/mmynk/groupcal/internal/metrics"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/profiles"
	"github.com/mmynk/groupcal/internal/storage"
)

const (
	// Collection is the groups collection.
	Collection = "groups"

	// TasksCollection is the per-group task sub-collection.
	TasksCollection = "tasks"
)

// CollisionPolicy decides what CreateGroup does when the name is taken.
type CollisionPolicy string

const (
	// Reuse returns the existing group.
	Reuse CollisionPolicy = "reuse"

	// Suffix allocates name + SEP + a random four digit suffix.
	Suffix CollisionPolicy = "suffix"
)

// ParseCollisionPolicy accepts "reuse" or "suffix". Empty means Reuse.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(s)) {
	case "", Reuse:
		return Reuse, nil
	case Suffix:
		return Suffix, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
}

// Service owns groups and their tasks.
type Service struct {
	store     storage.Store
	profiles  *profiles.Lookup
	publisher events.Publisher
	metrics   *metrics.Metrics
	policy    CollisionPolicy
	locks     *keyedMutex
	now       func() time.Time
	intn      func(n int) int
}

// Option configures a Service.
type Option func(*Service)

// WithCollisionPolicy sets the group naming policy.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithPublisher sets where change events go.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the suffix generator. intn returns a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Service) { s.intn = intn }
}

// NewService creates a Service over store.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		profiles:  profiles.NewLookup(store),
		publisher: events.NopPublisher{},
		policy:    Reuse,
		locks:     newKeyedMutex(),
		now:       time.Now,
		intn:      rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured collision policy.
func (s *Service) Policy() CollisionPolicy {
	return s.policy
}

func groupRef(groupID string) storage.Ref {
	return storage.Doc(Collection, groupID)
}

func tasksPath(groupID string) string {
	return storage.CollectionPath(Collection, groupID, TasksCollection)
}

func taskRef(groupID, taskID string) storage.Ref {
	return storage.Doc(Collection, groupID, TasksCollection, taskID)
}

// loadGroup reads a group, mapping a missing document to a NotFound error that
// names the group.
func (s *Service) loadGroup(ctx context.Context, op, groupID string) (*models.Group, error) {
	if !storage.ValidID(groupID) {
		return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
	}
	snap, err := s.store.Get(ctx, groupRef(groupID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "group %q does not exist", groupID)
		}
		return nil, apperr.Wrap(op, err)
	}
	return decodeGroup(snap)
}

func decodeGroup(snap storage.Snapshot) (*models.Group, error) {
	var g models.Group
	if err := snap.DataTo(&g); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", snap.ID(), err)
	}
	g.ID = snap.ID()
	if g.Members == nil {
		g.Members = []models.Member{}
	}
	return &g, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish event",
			"type", e.Type,
			"group_id", e.GroupID,
			"error", err,
		)
	}
}
