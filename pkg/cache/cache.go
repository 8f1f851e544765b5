// Package cache provides the namespaced cache factory handed to controls.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache stores values under string keys.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Factory hands out caches scoped to a namespace.
type Factory interface {
	Create(namespace string) Cache
}

// Option configures the memory factory.
type Option func(*MemoryFactory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(f *MemoryFactory) {
		if now != nil {
			f.now = now
		}
	}
}

// MemoryFactory keeps every namespace in process memory. Caches returned for
// the same namespace share storage.
type MemoryFactory struct {
	mu     sync.Mutex
	now    func() time.Time
	spaces map[string]*memory
}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates an empty factory.
func NewMemoryFactory(options ...Option) *MemoryFactory {
	f := &MemoryFactory{
		now:    time.Now,
		spaces: make(map[string]*memory),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Create implements Factory.
func (f *MemoryFactory) Create(namespace string) Cache {
	namespace = strings.TrimSpace(namespace)

	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.spaces[namespace]; ok {
		return c
	}
	c := &memory{now: f.now, items: make(map[string]entry)}
	f.spaces[namespace] = c
	return c
}

type entry struct {
	value   any
	expires time.Time
}

type memory struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[string]entry
}

func (m *memory) Get(key string) (any, bool) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		m.Delete(key)
		return nil, false
	}
	return item.value, true
}

// Set stores value; a non-positive ttl never expires.
func (m *memory) Set(key string, value any, ttl time.Duration) {
	item := entry{value: value}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
}

func (m *memory) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *memory) Clear() {
	m.mu.Lock()
	m.items = make(map[string]entry)
	m.mu.Unlock()
}
