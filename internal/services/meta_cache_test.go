package services

import (
	"testing"
	"time"

	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func TestMetaCacheGet(t *testing.T) {
	t.Run("reads_through_and_caches", func(t *testing.T) {
		store := repository.NewMemoryStore()
		cache := NewMetaCache(store, time.Minute)
		testutil.SetTestMeta(t, store, "k", "v1")

		v, ok, err := cache.Get("k")
		testutil.AssertNoError(t, err)
		if !ok || v != "v1" {
			t.Fatalf("expected v1, got %q ok=%v", v, ok)
		}

		// Storage changes behind the cache's back are not seen until expiry.
		testutil.SetTestMeta(t, store, "k", "v2")
		v, ok, err = cache.Get("k")
		testutil.AssertNoError(t, err)
		if !ok || v != "v1" {
			t.Errorf("expected cached v1, got %q ok=%v", v, ok)
		}
	})

	t.Run("caches_negative_lookups", func(t *testing.T) {
		store := repository.NewMemoryStore()
		cache := NewMetaCache(store, time.Minute)

		_, ok, err := cache.Get("absent")
		testutil.AssertNoError(t, err)
		if ok {
			t.Fatal("expected ok=false for absent key")
		}

		// A direct storage write is invisible while the negative entry lives.
		testutil.SetTestMeta(t, store, "absent", "now-set")
		_, ok, err = cache.Get("absent")
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("expected negative entry still cached")
		}
	})

	t.Run("expired_entries_refetch", func(t *testing.T) {
		store := repository.NewMemoryStore()
		cache := NewMetaCache(store, time.Nanosecond)
		testutil.SetTestMeta(t, store, "k", "v1")

		_, _, err := cache.Get("k")
		testutil.AssertNoError(t, err)

		testutil.SetTestMeta(t, store, "k", "v2")
		time.Sleep(time.Millisecond)

		v, ok, err := cache.Get("k")
		testutil.AssertNoError(t, err)
		if !ok || v != "v2" {
			t.Errorf("expected refetched v2, got %q ok=%v", v, ok)
		}
	})
}

func TestMetaCacheSetAndDelete(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := NewMetaCache(store, time.Minute)

	testutil.AssertNoError(t, cache.Set("k", "v"))

	m, err := store.Meta().Get("k")
	testutil.AssertNoError(t, err)
	if m.Value != "v" {
		t.Errorf("expected write-through value v, got %s", m.Value)
	}

	testutil.AssertNoError(t, cache.Delete("k"))
	if _, err := store.Meta().Get("k"); err != repository.ErrNotFound {
		t.Errorf("expected key deleted from storage, got %v", err)
	}
	_, ok, err := cache.Get("k")
	testutil.AssertNoError(t, err)
	if ok {
		t.Error("expected key gone from cache")
	}
}

func TestMetaCacheInvalidate(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := NewMetaCache(store, time.Minute)
	testutil.SetTestMeta(t, store, "k", "v1")

	_, _, err := cache.Get("k")
	testutil.AssertNoError(t, err)

	testutil.SetTestMeta(t, store, "k", "v2")
	cache.Invalidate()

	v, ok, err := cache.Get("k")
	testutil.AssertNoError(t, err)
	if !ok || v != "v2" {
		t.Errorf("expected fresh v2 after invalidation, got %q ok=%v", v, ok)
	}
}
