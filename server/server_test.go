package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fileinput-locales/locales"
	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
	"github.com/dmitrymomot/fileinput-locales/server"
)

func newApp(t *testing.T, opts ...server.Option) (*server.App, *locale.Registry) {
	t.Helper()

	reg, err := locales.NewRegistry()
	require.NoError(t, err)

	store := cache.NewMemory()
	t.Cleanup(func() { _ = store.Close() })

	opts = append([]server.Option{
		server.WithAliases(locales.Aliases),
		server.WithCache(store, time.Minute),
	}, opts...)
	return server.New(reg, opts...), reg
}

func get(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t)
	rec := get(t, app.Handler(), "/api/locales")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("ETag"))

	var entries []server.IndexEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 4)

	byCode := make(map[string]server.IndexEntry, len(entries))
	for _, e := range entries {
		byCode[e.Code] = e
		require.Zero(t, e.Issues, e.Code)
	}
	require.True(t, byCode["en"].Default)
	require.Equal(t, "English", byCode["en"].Name)
	require.Equal(t, "uk", byCode["ua"].AliasOf)
	require.Equal(t, byCode["uk"].Name, byCode["ua"].Name)
	require.Empty(t, byCode["uk"].AliasOf)
}

func TestBundle(t *testing.T) {
	t.Parallel()

	app, reg := newApp(t)

	partial := locale.NewBundle()
	partial.Messages["msgNo"] = "nein"
	locale.Register(reg, "de", partial)

	h := app.Handler()

	t.Run("serves the bundle object", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/api/locales/uk")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "uk", rec.Header().Get("Content-Language"))

		var b locale.Bundle
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		require.Equal(t, "Вибрано файлів: {n}", b.Messages["msgSelected"])
		require.Equal(t, "видалити файл", b.Groups[locale.GroupAjaxOperations]["deleteThumb"])
		require.Contains(t, rec.Body.String(), "<b>{size}</b>")
	})

	t.Run("alias reports its target language", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/api/locales/ua")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "uk", rec.Header().Get("Content-Language"))
	})

	t.Run("merged with default unless raw", func(t *testing.T) {
		t.Parallel()

		var merged, raw locale.Bundle
		require.NoError(t, json.Unmarshal(get(t, h, "/api/locales/de").Body.Bytes(), &merged))
		require.NoError(t, json.Unmarshal(get(t, h, "/api/locales/de?raw=true").Body.Bytes(), &raw))

		require.Equal(t, "nein", merged.Messages["msgNo"])
		require.Equal(t, "Paused", merged.Messages["msgPaused"])
		require.Len(t, merged.SizeUnits, locale.DefaultUnitCount)

		require.Equal(t, map[string]string{"msgNo": "nein"}, raw.Messages)
		require.Empty(t, raw.SizeUnits)
	})

	t.Run("conditional request", func(t *testing.T) {
		t.Parallel()

		first := get(t, h, "/api/locales/ru")
		etag := first.Header().Get("ETag")
		require.NotEmpty(t, etag)

		rec := get(t, h, "/api/locales/ru", "If-None-Match", etag)
		require.Equal(t, http.StatusNotModified, rec.Code)
		require.Empty(t, rec.Body.Bytes())

		rec = get(t, h, "/api/locales/ru", "If-None-Match", `"other", W/`+etag)
		require.Equal(t, http.StatusNotModified, rec.Code)

		rec = get(t, h, "/api/locales/ru", "If-None-Match", `"other"`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/api/locales/xx")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Contains(t, body["error"], "unknown locale")
		require.NotEmpty(t, body["request_id"])
	})

	t.Run("invalid raw flag", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/api/locales/uk?raw=maybe")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBundle_ReRegistrationInvalidatesCache(t *testing.T) {
	t.Parallel()

	app, reg := newApp(t)
	h := app.Handler()

	before := get(t, h, "/api/locales/uk")
	require.Equal(t, http.StatusOK, before.Code)

	replacement := locale.NewBundle()
	replacement.Messages["msgUploadAborted"] = "Скасовано"
	locale.Register(reg, "uk", replacement)

	after := get(t, h, "/api/locales/uk")
	require.Equal(t, http.StatusOK, after.Code)
	require.NotEqual(t, before.Header().Get("ETag"), after.Header().Get("ETag"))

	var b locale.Bundle
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &b))
	require.Equal(t, "Скасовано", b.Messages["msgUploadAborted"])

	// the alias still points at the old bundle
	var ua locale.Bundle
	require.NoError(t, json.Unmarshal(get(t, h, "/api/locales/ua").Body.Bytes(), &ua))
	require.Equal(t, "Завантаження файлу перервано", ua.Messages["msgUploadAborted"])
}

// registeringStore runs fn once on the first lookup, after the cache key has
// been derived but before anything is rendered.
type registeringStore struct {
	cache.Store
	once sync.Once
	fn   func()
}

func (s *registeringStore) Get(ctx context.Context, key string) (cache.Entry, error) {
	s.once.Do(s.fn)
	return s.Store.Get(ctx, key)
}

func TestBundle_RendersBundleCurrentAtRenderTime(t *testing.T) {
	t.Parallel()

	replacement := locale.NewBundle()
	replacement.Messages["msgUploadAborted"] = "Скасовано"

	var reg *locale.Registry
	mem := cache.NewMemory()
	t.Cleanup(func() { _ = mem.Close() })
	store := &registeringStore{Store: mem, fn: func() {
		locale.Register(reg, "uk", replacement)
	}}

	app, r := newApp(t, server.WithCache(store, time.Minute))
	reg = r
	h := app.Handler()

	first := get(t, h, "/api/locales/uk?raw=true")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, `{"msgUploadAborted":"Скасовано"}`, first.Body.String())

	second := get(t, h, "/api/locales/uk?raw=true")
	require.Equal(t, first.Body.String(), second.Body.String())
	require.Equal(t, first.Header().Get("ETag"), second.Header().Get("ETag"))
}

func TestMessage(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t)
	h := app.Handler()

	tests := []struct {
		name   string
		target string
		want   server.MessageResponse
	}{
		{
			name:   "formats with query values",
			target: "/api/locales/uk/messages/msgFileNotFound?name=a.png",
			want: server.MessageResponse{
				Code:     "uk",
				Key:      "msgFileNotFound",
				Template: `Файл "{name}" не знайдено!`,
				Text:     `Файл "a.png" не знайдено!`,
			},
		},
		{
			name:   "selected count",
			target: "/api/locales/uk/messages/msgSelected?n=5",
			want: server.MessageResponse{
				Code:     "uk",
				Key:      "msgSelected",
				Template: "Вибрано файлів: {n}",
				Text:     "Вибрано файлів: 5",
			},
		},
		{
			name:   "group path",
			target: "/api/locales/uk/messages/ajaxOperations.deleteThumb",
			want: server.MessageResponse{
				Code:     "uk",
				Key:      "ajaxOperations.deleteThumb",
				Template: "видалити файл",
				Text:     "видалити файл",
			},
		},
		{
			name:   "values are stripped of markup",
			target: "/api/locales/en/messages/msgFileNotFound?name=%3Ci%3Ea.png%3C%2Fi%3E",
			want: server.MessageResponse{
				Code:     "en",
				Key:      "msgFileNotFound",
				Template: `File "{name}" not found!`,
				Text:     `File "a.png" not found!`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)

			var got server.MessageResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/api/locales/uk/messages/msgNope")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestScript(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t)
	h := app.Handler()

	t.Run("by code", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locales/uk.js")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), `$.fn.fileinputLocales["uk"] = {`)
		require.Contains(t, rec.Body.String(), `"msgSelected": "Вибрано файлів: {n}"`)
	})

	t.Run("legacy code", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locales/ua.js")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `$.fn.fileinputLocales["ua"] = {`)
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locales/xx.js")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("negotiated from Accept-Language", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locale.js", "Accept-Language", "uk-UA,uk;q=0.9,en;q=0.8")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `$.fn.fileinputLocales["uk"]`)
		require.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
	})

	t.Run("negotiated falls back to default", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locale.js", "Accept-Language", "ja")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `$.fn.fileinputLocales["en"]`)
		require.Equal(t, "en", rec.Header().Get("Content-Language"))
	})

	t.Run("explicit lang parameter", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locale.js?lang=ru", "Accept-Language", "uk")
		require.Contains(t, rec.Body.String(), `$.fn.fileinputLocales["ru"]`)
	})

	t.Run("cross-origin", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/js/locales/en.js", "Origin", "https://example.com")
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("ready with default locale", func(t *testing.T) {
		t.Parallel()

		app, _ := newApp(t)
		require.Equal(t, http.StatusOK, get(t, app.Handler(), "/health/ready").Code)
		require.Equal(t, http.StatusOK, get(t, app.Handler(), "/health/live").Code)
	})

	t.Run("unready without default locale", func(t *testing.T) {
		t.Parallel()

		app, _ := newApp(t, server.WithDefaultLocale("de"))
		rec := get(t, app.Handler(), "/health/ready?format=json")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), `default locale \"de\" is not registered`)
	})

	t.Run("extra readiness check", func(t *testing.T) {
		t.Parallel()

		app, _ := newApp(t, server.WithReadinessCheck("redis", func(context.Context) error {
			return context.DeadlineExceeded
		}))
		require.Equal(t, http.StatusServiceUnavailable, get(t, app.Handler(), "/health/ready").Code)
	})
}

func TestNotFoundAndMethod(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t)
	h := app.Handler()

	rec := get(t, h, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	req := httptest.NewRequest(http.MethodPost, "/api/locales/uk", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRun(t *testing.T) {
	t.Parallel()

	var hookCalls atomic.Int32
	app, _ := newApp(t,
		server.WithAddress("127.0.0.1:0"),
		server.WithShutdownTimeout(time.Second),
		server.WithShutdownHook(func(context.Context) error {
			hookCalls.Add(1)
			return nil
		}),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(context.Background()) }()

	select {
	case <-app.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + app.Addr() + "/health/live")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	app.Stop()
	app.Stop()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.Equal(t, int32(1), hookCalls.Load())
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t, server.WithAddress("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	<-app.Ready()
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
