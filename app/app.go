/*
Package app wires the ledger together: a router of operation handlers
over a cacheable store. Every operation is executed against a cache
wrap that is written back only on success, so a rejected operation has
zero effect on the state. Notifications collected by the handlers are
flushed to the notifier only after the write, never for a rejected
operation.
*/
package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/errors"
)

// App dispatches operations into registered handlers, one at a time.
// The host serializes calls; App performs no locking of its own.
type App struct {
	router   *Router
	db       ghost.CacheableKVStore
	notifier ghost.Notifier
	logger   zerolog.Logger
}

// New creates an application around the given store. The notifier may
// be nil when nobody listens.
func New(db ghost.CacheableKVStore, notifier ghost.Notifier, logger zerolog.Logger) *App {
	return &App{
		router:   NewRouter(),
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// Router exposes the registration side so that extensions can attach
// their handlers.
func (a *App) Router() ghost.Registry {
	return a.router
}

// Check runs the message through its handler without persisting
// anything.
func (a *App) Check(ctx ghost.Context, msg ghost.Msg) (*ghost.CheckResult, error) {
	h, err := a.route(msg)
	if err != nil {
		return nil, err
	}
	cache := a.db.CacheWrap()
	defer cache.Discard()
	return h.Check(ctx, cache, msg)
}

// Deliver executes the message atomically. On success all writes are
// committed and notifications are flushed. On failure the state is
// left byte for byte as it was.
func (a *App) Deliver(ctx ghost.Context, msg ghost.Msg) (*ghost.DeliverResult, error) {
	start := time.Now()

	h, err := a.route(msg)
	if err != nil {
		return nil, err
	}

	cache := a.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, msg)
	if err != nil {
		cache.Discard()
		a.logger.Info().
			Str("path", msg.Path()).
			Dur("took", time.Since(start)).
			Err(err).
			Msg("operation rejected")
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot commit operation")
	}

	if a.notifier != nil {
		for _, n := range res.Notifications {
			a.notifier.Notify(n)
		}
	}

	a.logger.Info().
		Str("path", msg.Path()).
		Dur("took", time.Since(start)).
		Int("notifications", len(res.Notifications)).
		Msg("operation delivered")
	return res, nil
}

func (a *App) route(msg ghost.Msg) (ghost.Handler, error) {
	h := a.router.Route(msg.Path())
	if h == nil {
		return nil, errors.Wrapf(errors.ErrInput, "no handler for path %q", msg.Path())
	}
	return h, nil
}
