// Package dispatch routes matched deep links to their handlers. The
// handler set is closed: one method per route, selected by an exhaustive
// switch over the typed handler names, so a route without a handler is a
// compile-time hole rather than a silent runtime miss.
package dispatch

import "context"

// Navigator is the navigation capability handed to handlers. Supplied by
// the host; no return value is inspected.
type Navigator interface {
	Push(path string)
	Replace(path string)
}

// LoaderFunc produces the bytes for one cache fill.
type LoaderFunc func(ctx context.Context) ([]byte, error)

// Prefetcher is the cache warm-up capability handed to handlers. Only
// success or failure is inspected, never the cached value.
type Prefetcher interface {
	Prefetch(ctx context.Context, key string, loader LoaderFunc) error
}

// DataSource supplies the loaders handlers prefetch with.
type DataSource interface {
	SessionDetail(id string) LoaderFunc
	Sessions() LoaderFunc
}

// HandlerContext bundles the three externally supplied capabilities a
// handler may use. Authenticated is read-only and set per dispatch call.
type HandlerContext struct {
	Nav           Navigator
	Prefetch      Prefetcher
	Authenticated bool
}
