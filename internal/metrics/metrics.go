// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the domain counters and RPC instrumentation. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	groupsCreated   prometheus.Counter
	groupsDeleted   prometheus.Counter
	membersAdded    prometheus.Counter
	membersRemoved  prometheus.Counter
	taskCompletions prometheus.Counter
	tasksCleared    prometheus.Counter
	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
}

// New creates a registry with Go and process collectors plus the groupcal metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_groups_created_total",
			Help: "Groups created.",
		}),
		groupsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_groups_deleted_total",
			Help: "Groups deleted after their last member left.",
		}),
		membersAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_members_added_total",
			Help: "Members added to groups.",
		}),
		membersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_members_removed_total",
			Help: "Members removed from groups.",
		}),
		taskCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_task_completions_total",
			Help: "Individual task completions recorded.",
		}),
		tasksCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groupcal_tasks_cleared_total",
			Help: "Tasks removed after every member completed them.",
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groupcal_rpc_requests_total",
			Help: "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "groupcal_rpc_duration_seconds",
			Help:    "RPC latency by procedure.",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	reg.MustRegister(
		m.groupsCreated,
		m.groupsDeleted,
		m.membersAdded,
		m.membersRemoved,
		m.taskCompletions,
		m.tasksCleared,
		m.rpcRequests,
		m.rpcDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) GroupCreated() {
	if m != nil {
		m.groupsCreated.Inc()
	}
}

func (m *Metrics) GroupDeleted() {
	if m != nil {
		m.groupsDeleted.Inc()
	}
}

func (m *Metrics) MembersAdded(n int) {
	if m != nil && n > 0 {
		m.membersAdded.Add(float64(n))
	}
}

func (m *Metrics) MemberRemoved() {
	if m != nil {
		m.membersRemoved.Inc()
	}
}

func (m *Metrics) TaskCompleted() {
	if m != nil {
		m.taskCompletions.Inc()
	}
}

func (m *Metrics) TaskCleared() {
	if m != nil {
		m.tasksCleared.Inc()
	}
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}
