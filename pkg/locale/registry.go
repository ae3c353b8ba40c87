package locale

import (
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Registry maps locale codes to bundles.
//
// It is created empty and filled by Register; there is no removal. Writes are
// unconditional and the last bundle registered under a code wins. The zero
// value is not usable, create registries with NewRegistry.
// Registry is safe for concurrent use.
type Registry struct {
	bundles map[string]*Bundle
	schema  *Schema
	logger  *slog.Logger
	hooks   []RegisterHook
	version uint64
	mu      sync.RWMutex
}

// RegisterHook is called after a bundle has been stored.
type RegisterHook func(code string, b *Bundle)

// RegistryOption configures a Registry during construction.
// Options that load data may fail; the error aborts NewRegistry.
type RegistryOption func(*Registry) error

// NewRegistry creates a registry. Options are applied in order, so bundles
// loaded by a later option overwrite those of an earlier one.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		bundles: make(map[string]*Bundle),
		schema:  DefaultSchema(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// WithSchema sets the schema bundles are validated against on registration.
func WithSchema(s *Schema) RegistryOption {
	return func(r *Registry) error {
		if s != nil {
			r.schema = s
		}
		return nil
	}
}

// WithLogger sets the logger used to report schema issues.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) error {
		if l != nil {
			r.logger = l
		}
		return nil
	}
}

// WithRegisterHook adds a hook called on every registration.
func WithRegisterHook(h RegisterHook) RegistryOption {
	return func(r *Registry) error {
		if h != nil {
			r.hooks = append(r.hooks, h)
		}
		return nil
	}
}

// WithBundle registers a single bundle during construction.
func WithBundle(code string, b *Bundle) RegistryOption {
	return func(r *Registry) error {
		if code == "" {
			return ErrEmptyCode
		}
		r.Register(code, b)
		return nil
	}
}

// Register stores b under code, replacing any previous bundle for that code.
// Schema issues are logged as warnings; registration itself never fails.
func Register(r *Registry, code string, b *Bundle) {
	r.Register(code, b)
}

// Register stores b under code, replacing any previous bundle for that code.
func (r *Registry) Register(code string, b *Bundle) {
	r.mu.Lock()
	r.bundles[code] = b
	r.version++
	hooks := r.hooks
	r.mu.Unlock()

	for _, is := range Validate(code, b, r.schema) {
		r.logger.Warn("locale bundle schema issue",
			slog.String("locale", is.Code),
			slog.String("key", is.Key),
			slog.String("kind", string(is.Kind)),
			slog.String("detail", is.Detail),
		)
	}

	for _, h := range hooks {
		h(code, b)
	}
}

// Lookup returns the bundle registered under code.
// The returned pointer is the one passed to Register.
func (r *Registry) Lookup(code string) (*Bundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bundles[code]
	return b, ok
}

// Resolve returns the bundle for code merged with the fallback bundle, so that
// every key the fallback defines is present. If code is not registered the
// fallback alone is returned. ErrNotFound is returned when neither exists.
func (r *Registry) Resolve(code, fallback string) (*Bundle, error) {
	b, ok := r.Lookup(code)
	fb, fbOK := r.Lookup(fallback)

	switch {
	case ok && fbOK && code != fallback:
		return b.Merge(fb), nil
	case ok:
		return b.Clone(), nil
	case fbOK:
		return fb.Clone(), nil
	default:
		return nil, ErrNotFound
	}
}

// Codes returns the registered locale codes in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.bundles))
	for code := range r.bundles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Version is incremented by every Register call. Anything derived from the
// registry contents can use it as a cache key component.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Len returns the number of registered codes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bundles)
}

// Schema returns the schema the registry validates against.
func (r *Registry) Schema() *Schema {
	return r.schema
}

// Validate checks every registered bundle and returns a *ValidationError
// listing all issues, or nil.
func (r *Registry) Validate() error {
	var issues []Issue
	for _, code := range r.Codes() {
		b, _ := r.Lookup(code)
		issues = append(issues, Validate(code, b, r.schema)...)
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
