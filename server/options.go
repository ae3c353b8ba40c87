package server

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/fileinput-locales/middlewares"
	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
	"github.com/dmitrymomot/fileinput-locales/pkg/health"
)

// Option configures the App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAddress sets the listen address. Defaults to ":8080".
func WithAddress(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.server.Addr = addr
		}
	}
}

// WithReadTimeout sets the HTTP server read timeout. Defaults to 15 seconds.
func WithReadTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.server.ReadTimeout = d
		}
	}
}

// WithWriteTimeout sets the HTTP server write timeout. Defaults to 30 seconds.
func WithWriteTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.server.WriteTimeout = d
		}
	}
}

// WithDefaultLocale sets the code bundles are completed from and served when
// negotiation finds nothing better. Defaults to "en".
func WithDefaultLocale(code string) Option {
	return func(a *App) {
		if code != "" {
			a.defaultLocale = code
		}
	}
}

// WithAliases declares alias codes (e.g. "ua" for "uk") for negotiation and
// the index.
func WithAliases(aliases map[string]string) Option {
	return func(a *App) {
		a.aliases = maps.Clone(aliases)
	}
}

// WithCache sets the store rendered payloads are kept in and their TTL.
// The store is not closed by the App. Without this option an in-memory
// store is used.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(a *App) {
		if store != nil {
			a.store = store
		}
		if ttl != 0 {
			a.cacheTTL = ttl
		}
	}
}

// WithCORS configures cross-origin access to the API and scripts.
func WithCORS(opts ...middlewares.CORSOption) Option {
	return func(a *App) {
		a.corsOptions = opts
	}
}

// WithReadinessCheck adds a named check to /health/ready.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if name != "" && fn != nil {
			a.checks[name] = fn
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithShutdownHook registers a function run after the HTTP server stopped,
// such as closing the Redis client. Hooks run in registration order.
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}
