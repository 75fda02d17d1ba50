package handler

import (
	"fmt"
	"net/http"

	"github.com/waylink/waylink/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "waylink_parse_total{result=\"valid\"} %d\n", snap.ParseValid)
	writeMetric(w, "waylink_parse_total{result=\"invalid\"} %d\n", snap.ParseInvalid)

	writeMetric(w, "waylink_dispatch_total{status=\"handled\"} %d\n", snap.DispatchHandled)
	writeMetric(w, "waylink_dispatch_total{status=\"failed\"} %d\n", snap.DispatchFailed)
	writeMetric(w, "waylink_dispatch_total{status=\"unknown_handler\"} %d\n", snap.DispatchUnknownHandler)
	writeMetric(w, "waylink_dispatch_duration_seconds_count %d\n", snap.DispatchDurationCount)
	writeMetric(w, "waylink_dispatch_duration_seconds_sum %.6f\n", float64(snap.DispatchDurationTotalNs)/1e9)

	writeMetric(w, "waylink_prefetch_total{result=\"hit\"} %d\n", snap.PrefetchHits)
	writeMetric(w, "waylink_prefetch_total{result=\"miss\"} %d\n", snap.PrefetchMisses)
	writeMetric(w, "waylink_prefetch_duration_seconds_count %d\n", snap.PrefetchDurationCount)
	writeMetric(w, "waylink_prefetch_duration_seconds_sum %.6f\n", float64(snap.PrefetchDurationTotalNs)/1e9)

	writeMetric(w, "waylink_analytics_events_total{kind=\"navigation\"} %d\n", snap.NavigationEvents)
	writeMetric(w, "waylink_analytics_events_total{kind=\"validation_failure\"} %d\n", snap.ValidationFailureEvents)
	writeMetric(w, "waylink_analytics_buffer_len %d\n", snap.EventBufferLen)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
