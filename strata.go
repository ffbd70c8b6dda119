// Package strata provides a high-performance, embedded key/value store
// modeled on Bitcask. It combines an in-memory key directory with an
// append-only log of segment files on disk: writes are sequential appends,
// reads are a single directory lookup followed by a single seek, and a
// threshold-triggered compactor, run synchronously by the write that
// crosses the threshold, reclaims space left behind by overwrites and
// removals.
//
// strata is designed for a single process, single goroutine-group of
// callers sharing one Store — it does not coordinate across OS processes,
// offer cross-key transactions, or maintain secondary indexes.
package strata

import (
	"context"

	"github.com/stratadb/strata/internal/engine"
	"github.com/stratadb/strata/pkg/logger"
	"github.com/stratadb/strata/pkg/options"
)

// Engine is the capability every strata store exposes: set, get, remove,
// and an orderly shutdown. Store is its sole implementation; the
// interface exists so callers can depend on behavior rather than the
// concrete type, and so tests can substitute a fake where useful.
type Engine interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Remove(ctx context.Context, key string) error
	Close() error
}

// Store is an open instance of a strata database, backed by a directory
// on disk. It is the primary entry point for interacting with the store.
type Store struct {
	engine  *engine.Engine
	options *options.Options
}

var _ Engine = (*Store)(nil)

// Open opens (and bootstraps, if necessary) a store rooted at the
// configured data directory (options.DefaultDataDir unless overridden
// with options.WithDataDir), replaying its existing segments into memory
// before returning.
// service names the logger's "service" field; pass functional
// options to override defaults such as the data directory or the
// compaction threshold.
func Open(ctx context.Context, service string, opts ...options.OptionFunc) (*Store, error) {
	log := logger.New(service)

	cfg := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &cfg})
	if err != nil {
		return nil, err
	}

	return &Store{engine: eng, options: &cfg}, nil
}

// Set stores value under key, overwriting any existing value. The
// write is appended to the active segment and flushed before Set returns,
// so a completed Set is durable against a subsequent crash.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.engine.Set(ctx, key, value)
}

// Get retrieves the value stored under key. A key with no live value —
// whether never set or since removed — is not an error: ok reports
// whether a value was found. The error return is reserved for genuine
// failures (I/O, decoding, integrity).
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	return s.engine.Get(ctx, key)
}

// Remove deletes key, returning a KeyNotFound error if key has no
// live value to remove.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.engine.Remove(ctx, key)
}

// Close flushes and releases every resource the store holds: its open
// segment file handles and its in-memory key directory. Close is
// idempotent only in the sense that a second call reports
// engine.ErrEngineClosed rather than panicking.
func (s *Store) Close() error {
	return s.engine.Close()
}
