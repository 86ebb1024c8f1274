// Package storage persists client-side cookies (name -> value) between runs.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound reports an absent or expired cookie.
var ErrNotFound = errors.New("cookie not found")

// Store is the persisted cookie jar.
type Store interface {
	Close() error
	Get(name string) (string, error)
	Set(name, value string) error
	Delete(name string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CookieTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultCookieTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return NewMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CookieTTL <= 0 {
		opts.CookieTTL = defaultCookieTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error               { return nil }
func (noopStore) Get(string) (string, error) { return "", ErrNotFound }
func (noopStore) Set(string, string) error   { return nil }
func (noopStore) Delete(string) error        { return nil }
