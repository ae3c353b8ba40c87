package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Entry is a rendered payload ready to be written to a response.
type Entry struct {
	Body        []byte
	ContentType string
	// ETag is a strong entity tag including the surrounding quotes.
	ETag string
}

// NewEntry builds an entry and derives its ETag from the body.
func NewEntry(contentType string, body []byte) Entry {
	return Entry{Body: body, ContentType: contentType, ETag: ETag(body)}
}

// ETag returns a strong entity tag for body.
func ETag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// Size is the number of bytes the entry accounts for in a bounded store.
func (e Entry) Size() int {
	return len(e.Body) + len(e.ContentType) + len(e.ETag)
}

// Store keeps rendered entries by key.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the store's configured default TTL
//   - Negative: entry never expires
type Store interface {
	// Get returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	// Clear drops every entry under the store's namespace.
	Clear(ctx context.Context) error
	Close() error
}

// RenderFunc produces an entry on a cache miss along with the TTL to store
// it for.
type RenderFunc func(ctx context.Context) (Entry, time.Duration, error)

var renderGroup singleflight.Group

// GetOrSet returns the entry stored under key, or renders and stores it.
// Concurrent misses for the same key on the same store render only once.
// Render errors are returned and nothing is stored. Failing to store a
// rendered entry is not an error; the entry is still returned.
func GetOrSet(ctx context.Context, s Store, key string, render RenderFunc) (Entry, error) {
	if e, err := s.Get(ctx, key); err == nil {
		return e, nil
	}

	v, err, _ := renderGroup.Do(fmt.Sprintf("%p/%s", s, key), func() (any, error) {
		e, ttl, err := render(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.Set(ctx, key, e, ttl)
		return e, nil
	})
	if err != nil {
		return Entry{}, err
	}

	return v.(Entry), nil
}
