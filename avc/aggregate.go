package avc

import "github.com/secaudit/avc-audit/metrics"

// Stats holds running counters for a capture session.
type Stats struct {
	TotalEvents int
	SlowPath    int
	FastPath    int
	ByClass     map[string]int
}

// Aggregator accumulates canonical events into an append-only session log
// plus running statistics. Nothing is deleted or compacted during a session;
// the log feeds usage correlation and the final report.
type Aggregator struct {
	events []PermissionEvent
	stats  Stats
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		stats: Stats{ByClass: make(map[string]int)},
	}
}

// Add appends one event and updates the counters.
func (a *Aggregator) Add(ev PermissionEvent) {
	a.events = append(a.events, ev)
	a.stats.TotalEvents++
	if ev.FastPath {
		a.stats.FastPath++
		metrics.FastPathEvents.Inc()
	} else {
		a.stats.SlowPath++
		metrics.SlowPathEvents.Inc()
	}
	a.stats.ByClass[ev.Class]++
	metrics.EventsTotal.Inc()
}

// Events returns the session log. Read-only; callers must not mutate it.
func (a *Aggregator) Events() []PermissionEvent {
	return a.events
}

// Stats returns a snapshot of the running counters.
func (a *Aggregator) Stats() Stats {
	snapshot := a.stats
	snapshot.ByClass = make(map[string]int, len(a.stats.ByClass))
	for class, count := range a.stats.ByClass {
		snapshot.ByClass[class] = count
	}
	return snapshot
}
