// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/waylink/waylink/internal/analytics"
	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/dispatch"
	"github.com/waylink/waylink/internal/metrics"
	"github.com/waylink/waylink/internal/model"
	"github.com/waylink/waylink/internal/navigation"
)

// Service errors.
var (
	ErrInvalidSource = errors.New("invalid link source")
)

// Resolver runs the resolution pipeline for one incoming link: parse,
// optionally dispatch, record the attempt. Every Resolve call appends
// exactly one analytics event, whether the link was valid or not.
type Resolver struct {
	dispatcher *dispatch.Dispatcher
	prefetcher dispatch.Prefetcher
	analytics  *analytics.Recorder
	metrics    metrics.Recorder
}

// NewResolver creates a new Resolver.
func NewResolver(dispatcher *dispatch.Dispatcher, prefetcher dispatch.Prefetcher, recorder *analytics.Recorder, metricsRecorder metrics.Recorder) *Resolver {
	if metricsRecorder == nil {
		metricsRecorder = metrics.NewNoop()
	}
	return &Resolver{
		dispatcher: dispatcher,
		prefetcher: prefetcher,
		analytics:  recorder,
		metrics:    metricsRecorder,
	}
}

// ResolveInput defines input for resolving a deep link.
type ResolveInput struct {
	URL           string
	Source        model.Source
	Authenticated bool
	Dispatch      bool
}

// ResolveOutput describes one resolution attempt.
type ResolveOutput struct {
	Link    *model.ParsedDeepLink
	Handler model.HandlerName // empty when the link matched no route

	// Dispatched reports the handler outcome; false when dispatch was
	// skipped, the link was invalid, or the handler failed.
	Dispatched bool

	// NavOps are the navigation calls the handler made, in order.
	NavOps []navigation.Op

	// NavTime is zero unless a dispatch was attempted.
	NavTime time.Duration
}

// Resolve parses a raw link, dispatches the matched handler when requested,
// and records the attempt in analytics.
func (s *Resolver) Resolve(ctx context.Context, input ResolveInput) (*ResolveOutput, error) {
	if !input.Source.IsValid() {
		return nil, ErrInvalidSource
	}

	link := s.parse(input.URL)
	if !link.IsValid {
		s.analytics.TrackValidationFailure(input.URL, link.ErrorMessage, input.Source)
		s.recordEventMetrics("validation_failure")
		return &ResolveOutput{Link: link}, nil
	}

	// A valid parse always carries a matched route; a miss here means a
	// route without a registered handler, which Dispatch reports as the
	// unknown-handler outcome.
	handler, _ := deeplink.HandlerNameFor(link.Path)

	out := &ResolveOutput{
		Link:    link,
		Handler: handler,
	}

	var navTime *time.Duration
	if input.Dispatch {
		rec := navigation.NewRecording()
		hctx := dispatch.HandlerContext{
			Nav:           rec,
			Prefetch:      s.prefetcher,
			Authenticated: input.Authenticated,
		}

		start := time.Now()
		out.Dispatched = s.dispatcher.Dispatch(ctx, link, handler, hctx)
		out.NavTime = time.Since(start)
		out.NavOps = rec.Ops()
		navTime = &out.NavTime
	}

	s.analytics.TrackNavigation(input.URL, link, handler, input.Source, navTime)
	s.recordEventMetrics("navigation")

	return out, nil
}

// ParseOutput describes a raw link without acting on it.
type ParseOutput struct {
	Link         *model.ParsedDeepLink
	Handler      model.HandlerName // empty when the link matched no route
	RequiresAuth bool
}

// Parse describes a raw link. It performs no dispatch and records no
// analytics; RequiresAuth is fail-closed true for unmatched paths.
func (s *Resolver) Parse(raw string) *ParseOutput {
	link := s.parse(raw)
	out := &ParseOutput{
		Link:         link,
		RequiresAuth: deeplink.RequiresAuth(link.Path),
	}
	if link.IsValid {
		if handler, ok := deeplink.HandlerNameFor(link.Path); ok {
			out.Handler = handler
		}
	}
	return out
}

// parse wraps deeplink.Parse with the parse-outcome counters.
func (s *Resolver) parse(raw string) *model.ParsedDeepLink {
	link := deeplink.Parse(raw)
	if link.IsValid {
		s.metrics.IncParseValid()
	} else {
		s.metrics.IncParseInvalid()
	}
	return link
}

func (s *Resolver) recordEventMetrics(kind string) {
	s.metrics.IncEventRecorded(kind)
	s.metrics.SetEventBufferLen(int64(s.analytics.Len()))
}
