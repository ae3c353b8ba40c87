// Package middlewares holds the net/http middleware the locale server is
// built from. Every middleware has the func(http.Handler) http.Handler shape
// and plugs into a chi router:
//
//	r := chi.NewRouter()
//	r.Use(
//		middlewares.RequestID(),
//		middlewares.Logger(log),
//		middlewares.Recover(log, middlewares.WithRecoverHandler(writeError)),
//		middlewares.CORS(),
//		middlewares.Locale(matcher),
//	)
//
// RequestIDExtractor and LocaleExtractor feed the request ID and resolved
// locale code into every log record:
//
//	log := logger.New(cfg.Log,
//		middlewares.RequestIDExtractor(),
//		middlewares.LocaleExtractor(),
//	)
package middlewares
