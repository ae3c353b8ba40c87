// Package logger builds the service's slog logger.
//
// Records are written as JSON (or text) to stdout. When SENTRY_DSN is set they
// are mirrored to Sentry: errors create issues, warnings are kept as logs.
// ContextExtractors add request-scoped attributes such as the request ID or
// the resolved locale code to every record:
//
//	log := logger.New(cfg.Log,
//		middlewares.RequestIDExtractor(),
//		middlewares.LocaleExtractor(),
//	)
//
// Sentry initialization failures are logged and ignored; logging continues
// to stdout.
package logger
