package cache_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-formcontrol/pkg/cache"
)

func TestMemoryFactory_NamespacesShareStorage(t *testing.T) {
	factory := cache.NewMemoryFactory()

	a := factory.Create("formcontrol.users")
	a.Set("options.role", []string{"admin"}, 0)

	b := factory.Create("formcontrol.users")
	if _, ok := b.Get("options.role"); !ok {
		t.Fatalf("expected same namespace to share entries")
	}

	other := factory.Create("formcontrol.orders")
	if _, ok := other.Get("options.role"); ok {
		t.Fatalf("expected namespaces to be isolated")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	factory := cache.NewMemoryFactory(cache.WithClock(func() time.Time { return now }))
	c := factory.Create("ttl")

	c.Set("key", "value", time.Minute)
	if got, ok := c.Get("key"); !ok || got != "value" {
		t.Fatalf("expected cached value, got %v (%v)", got, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("key"); ok {
		t.Fatalf("expected entry to expire")
	}

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected deleted entry to be gone")
	}
	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected clear to drop every entry")
	}
}
