package analytics

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/waylink/waylink/internal/model"
)

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func validLink(path string) *model.ParsedDeepLink {
	return &model.ParsedDeepLink{
		Scheme:      "acp",
		Path:        path,
		QueryParams: map[string]string{},
		IsValid:     true,
	}
}

func TestNewRecorder_CapacityFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{name: "positive capacity kept", capacity: 10, want: 10},
		{name: "zero falls back to default", capacity: 0, want: DefaultCapacity},
		{name: "negative falls back to default", capacity: -5, want: DefaultCapacity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewRecorder(tt.capacity)
			for i := 0; i < tt.want+20; i++ {
				r.TrackValidationFailure("acp://", "missing path", model.SourceForeground)
			}
			if got := r.Len(); got != tt.want {
				t.Errorf("Len after overflow = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecorder_FIFOEviction(t *testing.T) {
	t.Parallel()

	r := NewRecorder(100)
	for i := 0; i < 150; i++ {
		url := fmt.Sprintf("acp://sessions/s%d", i)
		r.TrackNavigation(url, validLink(fmt.Sprintf("/sessions/s%d", i)), model.HandlerSessionDetail, model.SourceForeground, nil)
	}

	events := r.Events()
	if len(events) > 100 {
		t.Fatalf("retained %d events, want at most 100", len(events))
	}
	if len(events) != 100 {
		t.Fatalf("retained %d events, want exactly 100", len(events))
	}

	// The oldest survivor must be the 51st recorded event; everything
	// before it was evicted in FIFO order.
	if got, want := events[0].URL, "acp://sessions/s50"; got != want {
		t.Errorf("oldest surviving event URL = %q, want %q", got, want)
	}
	if got, want := events[99].URL, "acp://sessions/s149"; got != want {
		t.Errorf("newest event URL = %q, want %q", got, want)
	}
}

func TestRecorder_TrackNavigation(t *testing.T) {
	t.Parallel()

	r := NewRecorder(10)
	link := &model.ParsedDeepLink{
		Scheme:      "acp",
		Path:        "/sessions/abc123",
		QueryParams: map[string]string{"tab": "logs"},
		IsValid:     true,
	}
	r.TrackNavigation("acp://sessions/abc123?tab=logs", link, model.HandlerSessionDetail, model.SourceInitial, durationPtr(120*time.Millisecond))

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" {
		t.Error("event ID is empty")
	}
	if e.Timestamp.IsZero() {
		t.Error("event timestamp is zero")
	}
	if e.URL != "acp://sessions/abc123?tab=logs" {
		t.Errorf("URL = %q", e.URL)
	}
	if e.Path != "/sessions/abc123" {
		t.Errorf("Path = %q, want /sessions/abc123", e.Path)
	}
	if e.QueryParams["tab"] != "logs" {
		t.Errorf("QueryParams = %v", e.QueryParams)
	}
	if e.Handler != model.HandlerSessionDetail {
		t.Errorf("Handler = %q, want session-detail", e.Handler)
	}
	if !e.IsValid {
		t.Error("IsValid = false, want true")
	}
	if e.Source != model.SourceInitial {
		t.Errorf("Source = %q, want initial", e.Source)
	}
	if e.NavTime == nil || *e.NavTime != 120*time.Millisecond {
		t.Errorf("NavTime = %v, want 120ms", e.NavTime)
	}

	// The event must not alias the caller's query map.
	link.QueryParams["tab"] = "mutated"
	if got := r.Events()[0].QueryParams["tab"]; got != "logs" {
		t.Errorf("event aliases caller map: tab = %q", got)
	}
}

func TestRecorder_TrackValidationFailure(t *testing.T) {
	t.Parallel()

	r := NewRecorder(10)
	r.TrackValidationFailure("acp://unknown/path", "Unsupported route: /unknown/path", model.SourceBackground)

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.IsValid {
		t.Error("IsValid = true, want false")
	}
	if !e.IsFailed() {
		t.Error("IsFailed = false, want true")
	}
	if e.Path != "" {
		t.Errorf("Path = %q, want empty", e.Path)
	}
	if e.Handler != "" {
		t.Errorf("Handler = %q, want empty", e.Handler)
	}
	if e.ErrorMessage != "Unsupported route: /unknown/path" {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}
	if e.Source != model.SourceBackground {
		t.Errorf("Source = %q, want background", e.Source)
	}
}

func TestRecorder_FilteredViews(t *testing.T) {
	t.Parallel()

	r := NewRecorder(10)
	r.TrackNavigation("acp://sessions", validLink("/sessions"), model.HandlerSessionsList, model.SourceForeground, nil)
	r.TrackValidationFailure("acp://nope", "Unsupported route: /nope", model.SourceForeground)
	r.TrackNavigation("acp://chat", validLink("/chat"), model.HandlerChat, model.SourceForeground, nil)

	if got := len(r.ValidEvents()); got != 2 {
		t.Errorf("ValidEvents len = %d, want 2", got)
	}
	if got := len(r.FailedEvents()); got != 1 {
		t.Errorf("FailedEvents len = %d, want 1", got)
	}

	// Snapshots are copies, not live views.
	events := r.Events()
	events[0].URL = "tampered"
	if got := r.Events()[0].URL; got != "acp://sessions" {
		t.Errorf("mutating snapshot changed internal state: %q", got)
	}
}

func TestRecorder_AverageNavTime(t *testing.T) {
	t.Parallel()

	r := NewRecorder(10)
	if got := r.AverageNavTime(); got != 0 {
		t.Fatalf("AverageNavTime on empty log = %v, want 0", got)
	}

	// Untimed events must not drag the average down.
	r.TrackNavigation("acp://chat", validLink("/chat"), model.HandlerChat, model.SourceForeground, nil)
	for _, d := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond} {
		r.TrackNavigation("acp://sessions", validLink("/sessions"), model.HandlerSessionsList, model.SourceForeground, durationPtr(d))
	}

	if got, want := r.AverageNavTime(), 200*time.Millisecond; got != want {
		t.Errorf("AverageNavTime = %v, want %v", got, want)
	}
}

func TestRecorder_Clear(t *testing.T) {
	t.Parallel()

	r := NewRecorder(10)
	r.TrackNavigation("acp://chat", validLink("/chat"), model.HandlerChat, model.SourceForeground, nil)
	r.Clear()

	if got := r.Len(); got != 0 {
		t.Errorf("Len after Clear = %d, want 0", got)
	}
	if got := len(r.Events()); got != 0 {
		t.Errorf("Events after Clear = %d, want 0", got)
	}
}

func TestRecorder_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	r := NewRecorder(50)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				r.TrackNavigation("acp://chat", validLink("/chat"), model.HandlerChat, model.SourceForeground, nil)
			} else {
				r.TrackValidationFailure("acp://nope", "Unsupported route: /nope", model.SourceForeground)
			}
		}(i)
	}
	wg.Wait()

	if got := r.Len(); got != 50 {
		t.Fatalf("Len after concurrent appends = %d, want exactly the cap 50", got)
	}
}

func TestRecorder_Stats(t *testing.T) {
	t.Parallel()

	r := NewRecorder(20)
	r.TrackNavigation("acp://sessions/abc", validLink("/sessions/abc"), model.HandlerSessionDetail, model.SourceInitial, durationPtr(100*time.Millisecond))
	r.TrackNavigation("acp://sessions/def", validLink("/sessions/def"), model.HandlerSessionDetail, model.SourceForeground, durationPtr(300*time.Millisecond))
	r.TrackNavigation("acp://notifications", validLink("/notifications"), model.HandlerNotificationsList, model.SourceForeground, nil)
	r.TrackValidationFailure("acp://nope", "Unsupported route: /nope", model.SourceBackground)
	r.TrackValidationFailure("https://links.acp.dev", "missing path", model.SourceForeground)

	stats := r.Stats()
	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Valid != 3 {
		t.Errorf("Valid = %d, want 3", stats.Valid)
	}
	if stats.Invalid != 2 {
		t.Errorf("Invalid = %d, want 2", stats.Invalid)
	}
	if stats.AvgNavTime != 200*time.Millisecond {
		t.Errorf("AvgNavTime = %v, want 200ms", stats.AvgNavTime)
	}

	if got := stats.ByHandler[model.HandlerSessionDetail]; got != 2 {
		t.Errorf("ByHandler[session-detail] = %d, want 2", got)
	}
	if got := stats.ByHandler[model.HandlerNotificationsList]; got != 1 {
		t.Errorf("ByHandler[notifications-list] = %d, want 1", got)
	}

	var handlerSum, sourceSum int
	for _, n := range stats.ByHandler {
		handlerSum += n
	}
	for _, n := range stats.BySource {
		sourceSum += n
	}
	if handlerSum != stats.Total {
		t.Errorf("ByHandler sums to %d, want total %d", handlerSum, stats.Total)
	}
	if sourceSum != stats.Total {
		t.Errorf("BySource sums to %d, want total %d", sourceSum, stats.Total)
	}

	if got := stats.BySource[model.SourceForeground]; got != 3 {
		t.Errorf("BySource[foreground] = %d, want 3", got)
	}
}

func TestRecorder_Report(t *testing.T) {
	t.Parallel()

	r := NewRecorder(20)
	r.TrackNavigation("acp://sessions/abc", validLink("/sessions/abc"), model.HandlerSessionDetail, model.SourceInitial, durationPtr(150*time.Millisecond))
	for i := 0; i < 7; i++ {
		r.TrackValidationFailure(fmt.Sprintf("acp://bad/%d", i), fmt.Sprintf("Unsupported route: /bad/%d", i), model.SourceForeground)
	}

	report := r.Report()

	for _, want := range []string{
		"Deep Link Analytics Report",
		"Total events: 8",
		"Valid: 1",
		"Invalid: 7",
		"By handler:",
		"session-detail: 1",
		"By source:",
		"initial: 1",
		"foreground: 7",
		"Recent failures:",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Only the five most recent failures appear, newest first.
	if strings.Contains(report, "/bad/0 ") || strings.Contains(report, "/bad/1 ") {
		t.Errorf("report lists failures beyond the most recent five:\n%s", report)
	}
	newest := strings.Index(report, "Unsupported route: /bad/6")
	older := strings.Index(report, "Unsupported route: /bad/2")
	if newest == -1 || older == -1 {
		t.Fatalf("report missing expected failures:\n%s", report)
	}
	if newest > older {
		t.Errorf("failures are not newest-first:\n%s", report)
	}
}

func TestRecorder_ReportEmpty(t *testing.T) {
	t.Parallel()

	report := NewRecorder(10).Report()
	for _, want := range []string{"Total events: 0", "(none)"} {
		if !strings.Contains(report, want) {
			t.Errorf("empty report missing %q:\n%s", want, report)
		}
	}
}
