// Package server exposes a locale registry over HTTP: the bundle index,
// bundles as JSON, single formatted messages and the widget plugin scripts.
package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/fileinput-locales/middlewares"
	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
	"github.com/dmitrymomot/fileinput-locales/pkg/health"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultCacheTTL          = time.Hour
	defaultLocale            = "en"
)

// App serves a locale registry. Configure it through New; it is not
// modified afterwards.
type App struct {
	logger *slog.Logger

	registry      *locale.Registry
	defaultLocale string
	aliases       map[string]string
	match         *locale.Matcher

	store    cache.Store
	cacheTTL time.Duration

	server      *http.Server
	router      chi.Router
	listener    net.Listener
	corsOptions []middlewares.CORSOption
	checks      health.Checks

	shutdownTimeout time.Duration
	shutdownHooks   []func(ctx context.Context) error
	done            chan struct{}
	ready           chan struct{}
}

// New creates an App serving reg.
//
//	app := server.New(reg,
//	    server.WithLogger(log),
//	    server.WithAddress(cfg.Address),
//	    server.WithDefaultLocale(cfg.DefaultLocale),
//	    server.WithAliases(locales.Aliases),
//	    server.WithCache(store, cfg.CacheTTL),
//	)
//	err := app.Run(ctx)
func New(reg *locale.Registry, opts ...Option) *App {
	router := chi.NewRouter()

	a := &App{
		registry:        reg,
		defaultLocale:   defaultLocale,
		cacheTTL:        defaultCacheTTL,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		router:          router,
		checks:          health.Checks{},
		shutdownTimeout: 30 * time.Second,
		done:            make(chan struct{}),
		ready:           make(chan struct{}),
		server: &http.Server{
			Addr:              ":8080",
			Handler:           router,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = cache.NewMemory(cache.WithDefaultTTL(a.cacheTTL))
		a.shutdownHooks = append(a.shutdownHooks, func(context.Context) error {
			return a.store.Close()
		})
	}
	a.checks["locales"] = LocalesCheck(reg, a.defaultLocale)
	a.match = newMatcher(reg, a.defaultLocale, a.aliases)

	a.routes()

	return a
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Addr returns the listening address once Run has started listening.
func (a *App) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Ready is closed once Run is accepting connections.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// newMatcher puts the default code first so it wins when nothing matches.
// Codes registered after New are served by code but not negotiated.
func newMatcher(reg *locale.Registry, def string, aliases map[string]string) *locale.Matcher {
	codes := make([]string, 0, reg.Len()+1)
	codes = append(codes, def)
	for _, c := range reg.Codes() {
		if c != def {
			codes = append(codes, c)
		}
	}
	return locale.NewMatcher(codes, aliases)
}
