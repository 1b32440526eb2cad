package helpers

import (
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()

	if _, ok := cache.Get("pubmed:some-url"); ok {
		t.Error("empty cache should miss")
	}

	if err := cache.Set("pubmed:some-url", "<xml/>", time.Hour); err != nil {
		t.Fatal(err)
	}
	value, ok := cache.Get("pubmed:some-url")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if value != "<xml/>" {
		t.Errorf("expected cached value, got %q", value)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Set("emc:stale", "old page", -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get("emc:stale"); ok {
		t.Error("expired entry should miss")
	}
	// expired entries are removed on access
	if _, ok := cache.Get("emc:stale"); ok {
		t.Error("expired entry should stay gone")
	}
}

func TestMemoryCacheKeysAreIndependent(t *testing.T) {
	cache := NewMemoryCache()
	_ = cache.Set("pubmed:url", "citation", time.Hour)
	_ = cache.Set("pmc:url", "fulltext", time.Hour)

	value, _ := cache.Get("pubmed:url")
	if value != "citation" {
		t.Errorf("expected citation, got %q", value)
	}
	value, _ = cache.Get("pmc:url")
	if value != "fulltext" {
		t.Errorf("expected fulltext, got %q", value)
	}
}
