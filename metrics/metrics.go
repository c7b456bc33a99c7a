// Package metrics exposes session counters over Prometheus plus a small
// JSON status endpoint for watching a live capture.
package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avcaudit_events_total",
		Help: "Total permission events captured",
	})
	FastPathEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avcaudit_fast_path_events_total",
		Help: "Events from the precise LSM hooks (fast path)",
	})
	SlowPathEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avcaudit_slow_path_events_total",
		Help: "Events from the avc_has_perm entry/exit pair (slow path)",
	})
	LostSamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avcaudit_lost_samples_total",
		Help: "Perf buffer samples dropped by the kernel",
	})
	PendingChecks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "avcaudit_pending_checks",
		Help: "Unresolved avc_has_perm entry records",
	})
	FilterSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "avcaudit_pid_filter_size",
		Help: "Process IDs currently in the capture filter",
	})
)

// Serve starts the metrics/status listener. status is polled on each
// /status request; it runs on the HTTP goroutine, so it must only return
// snapshot data, never touch the session's mutable state directly.
func Serve(addr string, status func() interface{}) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return http.ListenAndServe(addr, mux)
}
