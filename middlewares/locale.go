package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
	"github.com/dmitrymomot/fileinput-locales/pkg/logger"
)

type localeKey struct{}

// DefaultLocaleCookie is the cookie consulted for a saved locale choice.
const DefaultLocaleCookie = "lang"

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	QueryParam string
	Cookie     string
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithLocaleQueryParam sets the query parameter holding an explicit code.
// An empty name disables it.
func WithLocaleQueryParam(name string) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.QueryParam = name
	}
}

// WithLocaleCookie sets the cookie holding a saved code.
// An empty name disables it.
func WithLocaleCookie(name string) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Cookie = name
	}
}

// Locale resolves the locale code for a request and stores it in the context.
// Sources in priority order: the ?lang= query parameter, the lang cookie and
// the Accept-Language header. The matcher's default is used when none match.
func Locale(m *locale.Matcher, opts ...LocaleOption) func(http.Handler) http.Handler {
	cfg := &LocaleConfig{
		QueryParam: "lang",
		Cookie:     DefaultLocaleCookie,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidates := make([]string, 0, 3)
			if cfg.QueryParam != "" {
				if v := r.URL.Query().Get(cfg.QueryParam); v != "" {
					candidates = append(candidates, v)
				}
			}
			if cfg.Cookie != "" {
				if c, err := r.Cookie(cfg.Cookie); err == nil && c.Value != "" {
					candidates = append(candidates, c.Value)
				}
			}
			if v := r.Header.Get("Accept-Language"); v != "" {
				candidates = append(candidates, v)
			}

			code := m.Match(candidates...)
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), code)))
		})
	}
}

// WithLocale returns a copy of ctx carrying code.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, localeKey{}, code)
}

// GetLocale returns the code resolved by Locale, or "".
func GetLocale(ctx context.Context) string {
	v, _ := ctx.Value(localeKey{}).(string)
	return v
}

// LocaleExtractor adds "locale" to log records.
func LocaleExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := GetLocale(ctx); v != "" {
			return slog.String("locale", v), true
		}
		return slog.Attr{}, false
	}
}
