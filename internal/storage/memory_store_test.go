package storage

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreExpiresAndDeletes(t *testing.T) {
	store := NewMemoryStore(Options{CookieTTL: time.Minute})
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := store.Get("token"); err != nil || got != "abc" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry at TTL boundary, got %v", err)
	}

	if err := store.Set("token", "def"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete("token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
