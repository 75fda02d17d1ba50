package dispatch

import (
	"context"
	"fmt"

	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/model"
)

// handleSessionDetail re-derives the session id from the path capture, with
// the "id" query parameter as fallback, warms the session cache, then
// navigates to the session screen. Prefetch failure does not block
// navigation; the handler still navigates and reports the degraded outcome.
func (d *Dispatcher) handleSessionDetail(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	id := deeplink.ParamsFor(link.Path)["id"]
	if id == "" {
		id = link.Query("id")
	}
	if !deeplink.IsValidSessionID(id) {
		// Safe default instead of a broken detail screen.
		d.logger.Warn("invalid session id, replacing with sessions default tab", "path", link.Path)
		hctx.Nav.Replace("/sessions")
		return fmt.Errorf("invalid session id in %q", link.Path)
	}

	// TODO: forward tab to the session screen once it accepts an initial tab.
	if tab := link.Query("tab"); tab != "" {
		d.logger.Debug("session tab requested", "session_id", id, "tab", tab)
	}

	prefetchErr := hctx.Prefetch.Prefetch(ctx, "session:"+id, d.source.SessionDetail(id))
	hctx.Nav.Push("/sessions/" + id)
	if prefetchErr != nil {
		d.logger.Warn("session prefetch failed, navigated anyway",
			"session_id", id,
			"error", prefetchErr,
		)
		return fmt.Errorf("prefetch session %s: %w", id, prefetchErr)
	}
	return nil
}

// handleSessionCreate navigates to the creation screen. The creation
// context parameters (repo, workflow, pr) are recognized but not yet
// forwarded to the screen.
func (d *Dispatcher) handleSessionCreate(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	if repo := link.Query("repo"); repo != "" {
		d.logger.Debug("session create context present",
			"repo", repo,
			"workflow", link.Query("workflow"),
			"pr", link.Query("pr"),
		)
	}
	hctx.Nav.Push("/sessions/new")
	return nil
}

// handleSessionsList warms the sessions collection best-effort, then
// navigates. A cold or failing cache is not a failure; it only costs the
// first render a fetch. The filter parameter is recognized but not yet
// applied.
func (d *Dispatcher) handleSessionsList(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	if err := hctx.Prefetch.Prefetch(ctx, "sessions", d.source.Sessions()); err != nil {
		d.logger.Debug("sessions prefetch failed", "error", err)
	}
	if filter := link.Query("filter"); filter != "" {
		d.logger.Debug("sessions filter requested", "filter", filter)
	}
	hctx.Nav.Push("/sessions")
	return nil
}

// handleNotificationsList navigates to the notifications screen. The filter
// parameter is recognized but not yet applied.
func (d *Dispatcher) handleNotificationsList(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	if filter := link.Query("filter"); filter != "" {
		d.logger.Debug("notifications filter requested", "filter", filter)
	}
	hctx.Nav.Push("/notifications")
	return nil
}

// handleSettings navigates to the settings root or to the captured
// subsection.
func (d *Dispatcher) handleSettings(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	if section := deeplink.ParamsFor(link.Path)["section"]; section != "" {
		hctx.Nav.Push("/settings/" + section)
		return nil
	}
	hctx.Nav.Push("/settings")
	return nil
}

// handleChat navigates to the chat screen. The session context parameter is
// recognized but not yet forwarded.
func (d *Dispatcher) handleChat(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	if session := link.Query("session"); session != "" {
		d.logger.Debug("chat session context present", "session", session)
	}
	hctx.Nav.Push("/chat")
	return nil
}

// handleOAuthCallback is intentionally a no-op. The external OAuth flow
// owns this transition; navigating here would race it.
func (d *Dispatcher) handleOAuthCallback(ctx context.Context, link *model.ParsedDeepLink, hctx HandlerContext) error {
	d.logger.Debug("oauth callback received", "path", link.Path)
	return nil
}
