package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/waylink/waylink/internal/model"
)

// handlerNone buckets events recorded without a matched handler so the
// per-handler breakdown still sums to the total.
const handlerNone = model.HandlerName("none")

// reportFailureLimit is how many recent failures Report lists.
const reportFailureLimit = 5

// Stats aggregates the current log into counts and the average nav time.
func (r *Recorder) Stats() model.DeepLinkStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := model.DeepLinkStats{
		Total:     len(r.events),
		ByHandler: make(map[model.HandlerName]int),
		BySource:  make(map[model.Source]int),
	}
	for _, e := range r.events {
		if e.IsValid {
			stats.Valid++
		} else {
			stats.Invalid++
		}
		handler := e.Handler
		if handler == "" {
			handler = handlerNone
		}
		stats.ByHandler[handler]++
		stats.BySource[e.Source]++
	}
	stats.AvgNavTime = averageNavTime(r.events)
	return stats
}

// Report renders a human-readable summary of the log: totals, per-handler
// and per-source counts, and the most recent failures (newest first). The
// layout is fixed so operators can diff two reports.
func (r *Recorder) Report() string {
	stats := r.Stats()
	failures := r.FailedEvents()

	var b strings.Builder
	b.WriteString("Deep Link Analytics Report\n")
	b.WriteString("==========================\n")
	fmt.Fprintf(&b, "Total events: %d\n", stats.Total)
	fmt.Fprintf(&b, "Valid: %d\n", stats.Valid)
	fmt.Fprintf(&b, "Invalid: %d\n", stats.Invalid)
	fmt.Fprintf(&b, "Avg nav time: %v\n", stats.AvgNavTime)

	b.WriteString("\nBy handler:\n")
	for _, name := range sortedHandlerKeys(stats.ByHandler) {
		fmt.Fprintf(&b, "  %s: %d\n", name, stats.ByHandler[name])
	}

	b.WriteString("\nBy source:\n")
	for _, source := range model.Sources {
		if count, ok := stats.BySource[source]; ok {
			fmt.Fprintf(&b, "  %s: %d\n", source, count)
		}
	}

	b.WriteString("\nRecent failures:\n")
	if len(failures) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	shown := 0
	for i := len(failures) - 1; i >= 0 && shown < reportFailureLimit; i-- {
		f := failures[i]
		location := f.Path
		if location == "" {
			location = f.URL
		}
		fmt.Fprintf(&b, "  %s - %s\n", location, f.ErrorMessage)
		shown++
	}
	return b.String()
}

func sortedHandlerKeys(counts map[model.HandlerName]int) []model.HandlerName {
	keys := make([]model.HandlerName, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
