package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	expiresAt time.Time // zero = never
	entry     Entry
	key       string
}

func (it *memoryItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Memory is an in-process store with TTL expiration and LRU eviction
// bounded by entry count and total payload size.
// The front of the list holds the most recently used entry.
type Memory struct {
	items   map[string]*list.Element
	lru     *list.List
	opts    *memoryOptions
	onEvict func(key string, e Entry)
	done    chan struct{}
	size    int
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates an in-memory store.
//
//	c := cache.NewMemory(
//	    cache.WithDefaultTTL(10 * time.Minute),
//	    cache.WithMaxBytes(8 << 20),
//	)
//	defer c.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*list.Element),
		lru:   list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// OnEvict sets a callback run for every removed entry, whatever the reason.
// It runs with the store locked and must not call back into the store.
func (m *Memory) OnEvict(fn func(key string, e Entry)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

func (m *Memory) Get(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return Entry{}, ErrNotFound
	}

	it := elem.Value.(*memoryItem)
	if it.expired(time.Now()) {
		m.remove(elem)
		return Entry{}, ErrNotFound
	}

	m.lru.MoveToFront(elem)
	return it.entry, nil
}

func (m *Memory) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}

	if m.opts.maxBytes > 0 && e.Size() > m.opts.maxBytes {
		return nil
	}

	for m.overCapacity(e.Size()) {
		m.remove(m.lru.Back())
	}

	m.items[key] = m.lru.PushFront(&memoryItem{key: key, entry: e, expiresAt: expiresAt})
	m.size += e.Size()

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}
	if elem.Value.(*memoryItem).expired(time.Now()) {
		m.remove(elem)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		m.remove(elem)
		elem = prev
	}
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are cleaned up.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Bytes returns the total size of stored entries.
func (m *Memory) Bytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Close stops the janitor. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryItem).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// overCapacity reports whether adding an entry of size n would exceed a bound.
// Caller must hold the mutex.
func (m *Memory) overCapacity(n int) bool {
	if m.lru.Len() == 0 {
		return false
	}
	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		return true
	}
	return m.opts.maxBytes > 0 && m.size+n > m.opts.maxBytes
}

// Caller must hold the mutex.
func (m *Memory) remove(elem *list.Element) {
	m.lru.Remove(elem)
	it := elem.Value.(*memoryItem)
	delete(m.items, it.key)
	m.size -= it.entry.Size()

	if m.onEvict != nil {
		m.onEvict(it.key, it.entry)
	}
}

var _ Store = (*Memory)(nil)
