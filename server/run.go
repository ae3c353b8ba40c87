package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Run starts the HTTP server and blocks until ctx is done, SIGINT or SIGTERM
// is received, or Stop is called. It then shuts down gracefully and runs the
// shutdown hooks.
//
// Returns nil on clean shutdown, or an error if the server fails to start
// or shutdown fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	a.listener = ln
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("address", ln.Addr().String()),
			slog.Int("locales", a.registry.Len()),
			slog.String("default_locale", a.defaultLocale),
		)
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	close(a.ready)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case <-a.done:
	}

	a.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range a.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		a.logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	a.logger.Info("shutdown completed")
	return nil
}

// Stop triggers graceful shutdown of a running App. Stop is idempotent.
func (a *App) Stop() {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}
