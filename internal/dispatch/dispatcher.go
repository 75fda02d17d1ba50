package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/waylink/waylink/internal/metrics"
	"github.com/waylink/waylink/internal/model"
)

// handlerFunc is the signature shared by all handlers. A nil error is the
// "handled" outcome of the dispatch contract.
type handlerFunc func(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error

// Dispatcher invokes the handler for a matched deep link inside a failure
// boundary. Dispatch calls are independent; two links arriving in quick
// succession may run concurrently.
type Dispatcher struct {
	source  DataSource
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewDispatcher creates a Dispatcher over the given data source.
func NewDispatcher(source DataSource, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		source:  source,
		logger:  logger.With("component", "dispatch"),
		metrics: recorder,
	}
}

// Dispatch looks up the handler for name and invokes it. It returns false
// when the name has no handler (no side effects performed), when the
// handler returns an error, or when the handler panics. Failures never
// propagate to the caller; the boolean is the only outcome signal.
func (d *Dispatcher) Dispatch(ctx context.Context, link *model.ParsedDeepLink, name model.HandlerName, hctx HandlerContext) bool {
	h := d.handlerFor(name)
	if h == nil {
		// A route resolving to a handler that does not exist is a
		// registration bug, not a link-content problem.
		d.logger.Error("no handler registered", "handler", name.String())
		d.metrics.IncDispatchResult("unknown_handler")
		return false
	}

	start := time.Now()
	err := d.invokeWithRecovery(ctx, h, link, hctx, name)
	d.metrics.ObserveDispatchDuration(time.Since(start))

	if err != nil {
		d.logger.Warn("handler failed",
			"handler", name.String(),
			"path", link.Path,
			"error", err,
		)
		d.metrics.IncDispatchResult("failed")
		return false
	}

	d.metrics.IncDispatchResult("handled")
	return true
}

// handlerFor maps a handler name to its method, nil for anything outside
// the registered set.
func (d *Dispatcher) handlerFor(name model.HandlerName) handlerFunc {
	switch name {
	case model.HandlerSessionDetail:
		return d.handleSessionDetail
	case model.HandlerSessionCreate:
		return d.handleSessionCreate
	case model.HandlerSessionsList:
		return d.handleSessionsList
	case model.HandlerNotificationsList:
		return d.handleNotificationsList
	case model.HandlerSettings:
		return d.handleSettings
	case model.HandlerChat:
		return d.handleChat
	case model.HandlerOAuthCallback:
		return d.handleOAuthCallback
	default:
		return nil
	}
}

// invokeWithRecovery runs one handler inside the dispatch failure boundary.
// Handlers perform I/O that can fail in ways unrelated to the link itself;
// nothing they raise may reach the caller.
func (d *Dispatcher) invokeWithRecovery(ctx context.Context, h handlerFunc, link *model.ParsedDeepLink, hctx HandlerContext, name model.HandlerName) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.Error("handler panic",
				"handler", name.String(),
				"panic", r,
				"stack", string(stack[:n]),
			)
			err = fmt.Errorf("handler panic for %s: %v", name, r)
		}
	}()

	return h(ctx, link, hctx)
}
