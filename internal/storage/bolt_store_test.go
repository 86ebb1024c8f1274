package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreSetGetDelete(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "nested", "cookies.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get("token")
	if err != nil || got != "abc" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := store.Set("token", ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if got, err := store.Get("token"); err != nil || got != "" {
		t.Fatalf("expected stored empty value, got %q, %v", got, err)
	}

	if err := store.Delete("token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBoltStoreExpiresCookies(t *testing.T) {
	opts := Options{
		CookieTTL:       time.Minute,
		CleanupInterval: time.Hour,
	}
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "cookies.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("other", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired cookie, got %v", err)
	}

	// Fast-forward cleanup cadence so the sweep removes the other stale entry.
	now = now.Add(2 * time.Hour)
	if err := store.maybeCleanupExpired(now); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	var remaining int
	if err := store.db.View(func(tx *bolt.Tx) error {
		remaining = tx.Bucket([]byte(cookieBucket)).Stats().KeyN
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected sweep to remove expired cookies, %d left", remaining)
	}
}

func TestNewStoreSupportsNoopAndMemory(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Set("token", "x"); err != nil {
		t.Fatalf("noop store Set: %v", err)
	}
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("noop store should never find cookies, got %v", err)
	}

	mem, err := NewStore("memory", "", Options{})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	if err := mem.Set("token", "x"); err != nil {
		t.Fatalf("memory Set: %v", err)
	}
	if got, err := mem.Get("token"); err != nil || got != "x" {
		t.Fatalf("memory Get = %q, %v", got, err)
	}

	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func committedTxID(t *testing.T, db *bolt.DB) int {
	t.Helper()
	var id int
	if err := db.View(func(tx *bolt.Tx) error {
		id = tx.ID()
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return id
}

func TestBoltStoreGetDoesNotWrite(t *testing.T) {
	opts := Options{
		CookieTTL:       time.Minute,
		CleanupInterval: time.Nanosecond,
	}
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "cookies.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }
	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	before := committedTxID(t, store.db)
	for i := 0; i < 3; i++ {
		now = now.Add(time.Second)
		if got, err := store.Get("token"); err != nil || got != "abc" {
			t.Fatalf("Get = %q, %v", got, err)
		}
	}
	if after := committedTxID(t, store.db); after != before {
		t.Fatalf("Get committed transactions: txid %d -> %d", before, after)
	}

	// An expired read reports ErrNotFound and leaves the entry for the sweep.
	now = now.Add(time.Hour)
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired cookie, got %v", err)
	}
	if after := committedTxID(t, store.db); after != before {
		t.Fatalf("expired Get committed a transaction: txid %d -> %d", before, after)
	}
	var raw []byte
	if err := store.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(cookieBucket)).Get([]byte("token")); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if raw == nil {
		t.Fatalf("expected expired entry to remain until the next sweep")
	}
}

func TestBoltStoreTreatsCorruptEntryAsMissing(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "cookies.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cookieBucket)).Put([]byte("token"), []byte("abc"))
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for undecodable entry, got %v", err)
	}
}
