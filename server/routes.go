package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/fileinput-locales/middlewares"
	"github.com/dmitrymomot/fileinput-locales/pkg/health"
)

func (a *App) routes() {
	r := a.router

	r.Use(
		middlewares.RequestID(),
		middlewares.Logger(a.logger),
		middlewares.Recover(a.logger, middlewares.WithRecoverHandler(a.recoverHandler)),
		middleware.GetHead,
		middlewares.CORS(a.corsOptions...),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		writeStatus(w, r, http.StatusMethodNotAllowed)
	})

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))

	r.Route("/api/locales", func(r chi.Router) {
		r.Get("/", a.handleIndex)
		r.Get("/{code}", a.handleBundle)
		r.Get("/{code}/messages/{key}", a.handleMessage)
	})

	r.Get("/js/locales/{code}.js", a.handleScript)
	r.With(middlewares.Locale(a.match)).Get("/js/locale.js", a.handleNegotiatedScript)
}
