package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/fileinput-locales/middlewares"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
)

// IndexEntry describes one registered code in GET /api/locales.
type IndexEntry struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	AliasOf string `json:"alias_of,omitempty"`
	Default bool   `json:"default,omitempty"`
	Issues  int    `json:"issues"`
}

// MessageResponse is the body of GET /api/locales/{code}/messages/{key}.
type MessageResponse struct {
	Code     string `json:"code"`
	Key      string `json:"key"`
	Template string `json:"template"`
	Text     string `json:"text"`
}

// Index lists the registered codes with their display names and the number
// of schema issues in each bundle.
func (a *App) Index() []IndexEntry {
	codes := a.registry.Codes()
	entries := make([]IndexEntry, 0, len(codes))
	for _, code := range codes {
		b, _ := a.registry.Lookup(code)
		entries = append(entries, IndexEntry{
			Code:    code,
			Name:    locale.DisplayName(code, a.aliases),
			AliasOf: a.aliases[code],
			Default: code == a.defaultLocale,
			Issues:  len(locale.Validate(code, b, a.registry.Schema())),
		})
	}
	return entries
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	e, err := a.cached(r.Context(), "index", contentTypeJSON, func(buf *bytes.Buffer) error {
		return json.NewEncoder(buf).Encode(a.Index())
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	serveEntry(w, r, e)
}

func (a *App) handleBundle(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	raw, err := boolParam(r, "raw")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	key := "bundle:" + code
	if raw {
		key += ":raw"
	}
	e, err := a.cached(r.Context(), key, contentTypeJSON, func(buf *bytes.Buffer) error {
		b, err := a.bundle(code, raw)
		if err != nil {
			return err
		}
		data, err := locale.EncodeJSON(b, a.registry.Schema())
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Language", a.contentLanguage(code))
	serveEntry(w, r, e)
}

// handleMessage formats one template with the query parameters as values.
// Values are stripped of markup before substitution.
func (a *App) handleMessage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	key := chi.URLParam(r, "key")

	b, err := a.bundle(code, false)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	tmpl, ok := b.Text(key)
	if !ok {
		a.writeError(w, r, fmt.Errorf("%w: %q in locale %q", ErrUnknownMessage, key, code))
		return
	}

	args := make(locale.M)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			args[name] = values[0]
		}
	}

	w.Header().Set("Content-Language", a.contentLanguage(code))
	writeJSON(w, http.StatusOK, MessageResponse{
		Code:     code,
		Key:      key,
		Template: tmpl,
		Text:     locale.FormatSafe(tmpl, args),
	})
}

func (a *App) handleScript(w http.ResponseWriter, r *http.Request) {
	a.serveScript(w, r, chi.URLParam(r, "code"))
}

// handleNegotiatedScript serves the script of the locale resolved by the
// Locale middleware.
func (a *App) handleNegotiatedScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept-Language")
	w.Header().Add("Vary", "Cookie")
	a.serveScript(w, r, middlewares.GetLocale(r.Context()))
}

func (a *App) serveScript(w http.ResponseWriter, r *http.Request, code string) {
	e, err := a.cached(r.Context(), "script:"+code, contentTypeScript, func(buf *bytes.Buffer) error {
		b, err := a.bundle(code, false)
		if err != nil {
			return err
		}
		title := locale.DisplayName(code, a.aliases)
		if title == "" {
			title = code
		}
		return locale.WriteScript(buf, code, title, b, a.registry.Schema())
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Language", a.contentLanguage(code))
	serveEntry(w, r, e)
}

// bundle returns the registered bundle for code, completed from the default
// locale unless raw is set.
func (a *App) bundle(code string, raw bool) (*locale.Bundle, error) {
	b, ok := a.registry.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, code)
	}
	if raw {
		return b, nil
	}
	return a.registry.Resolve(code, a.defaultLocale)
}

// contentLanguage maps alias codes to the language they stand for.
func (a *App) contentLanguage(code string) string {
	if target, ok := a.aliases[code]; ok {
		return target
	}
	return code
}

func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, name)
	}
	return b, nil
}
