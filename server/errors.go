package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/fileinput-locales/middlewares"
)

var (
	ErrUnknownLocale  = errors.New("server: unknown locale")
	ErrUnknownMessage = errors.New("server: unknown message")
	ErrBadRequest     = errors.New("server: bad request")
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownLocale), errors.Is(err, ErrUnknownMessage):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: middlewares.GetRequestID(r.Context()),
	})
}

// recoverHandler answers after a recovered panic; the panic is already logged.
func (a *App) recoverHandler(w http.ResponseWriter, r *http.Request, _ error) {
	writeStatus(w, r, http.StatusInternalServerError)
}

// writeStatus writes an error body holding only the status text.
func writeStatus(w http.ResponseWriter, r *http.Request, status int) {
	writeJSON(w, status, errorResponse{
		Error:     http.StatusText(status),
		RequestID: middlewares.GetRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
