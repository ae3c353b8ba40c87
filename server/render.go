package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
)

const (
	contentTypeJSON   = "application/json; charset=utf-8"
	contentTypeScript = "application/javascript; charset=utf-8"
)

// cached returns the rendered payload for key. Keys are scoped to the
// registry version, so re-registering any bundle invalidates every payload.
// The version is read before render runs, so render must look bundles up
// itself; a payload is then never older than the version it is stored under.
// A store failure falls back to rendering.
func (a *App) cached(ctx context.Context, key, contentType string, render func(*bytes.Buffer) error) (cache.Entry, error) {
	versioned := fmt.Sprintf("v%d:%s", a.registry.Version(), key)
	return cache.GetOrSet(ctx, a.store, versioned, func(context.Context) (cache.Entry, time.Duration, error) {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return cache.Entry{}, 0, err
		}
		return cache.NewEntry(contentType, buf.Bytes()), a.cacheTTL, nil
	})
}

// serveEntry writes e, or 304 when the client already holds it.
func serveEntry(w http.ResponseWriter, r *http.Request, e cache.Entry) {
	h := w.Header()
	h.Set("Content-Type", e.ContentType)
	h.Set("ETag", e.ETag)
	h.Set("Cache-Control", "public, no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), e.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Body)
}

// etagMatches implements the weak comparison If-None-Match requires.
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
