// Package index implements strata's key directory: the in-memory hash
// table mapping every live key to a Pointer describing its location in
// the segment log. The index is the sole arbiter of
// liveness — get, remove, and compaction all answer "does this key
// exist" by consulting it, never by re-reading the log.
package index

import (
	"context"
	stdErrors "errors"
	"sort"

	"github.com/stratadb/strata/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates and initializes a new Index instance.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:      config.Logger,
		dataDir:  config.DataDir,
		pointers: make(map[string]Pointer, 2048),
	}, nil
}

// Get returns the Pointer for key and whether it is present. A caller
// receiving ok == false must treat the key as not found, never fall back
// to scanning the log.
func (idx *Index) Get(key string) (Pointer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.pointers[key]
	return p, ok
}

// Set records key's new location, returning the Pointer it superseded (if
// any). The caller is responsible for adding the superseded pointer's
// Length to the uncompacted counter via AddUncompacted — Set itself only
// mutates the mapping, since during replay superseded bytes must NOT
// double-count against a counter that is rebuilt by the replay loop.
func (idx *Index) Set(key string, p Pointer) (prev Pointer, existed bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, existed = idx.pointers[key]
	idx.pointers[key] = p
	return prev, existed
}

// Remove deletes key from the index, returning the Pointer it held and
// whether the key was present.
func (idx *Index) Remove(key string) (prev Pointer, existed bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, existed = idx.pointers[key]
	if existed {
		delete(idx.pointers, key)
	}
	return prev, existed
}

// Rewrite repoints an already-live key at a new location without touching
// the uncompacted counter. Compaction uses this exclusively: it is
// relocating a record that is already known-live, not superseding
// anything, so none of the bytes involved are newly dead.
func (idx *Index) Rewrite(key string, p Pointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.pointers[key] = p
}

// AddUncompacted adds n dead bytes to the running uncompacted total.
// Negative n is a caller error and is ignored.
func (idx *Index) AddUncompacted(n int64) {
	if n <= 0 {
		return
	}
	idx.mu.Lock()
	idx.uncompacted += n
	idx.mu.Unlock()
}

// Uncompacted returns the current count of dead bytes accumulated across
// the store's segments since the last compaction.
func (idx *Index) Uncompacted() int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.uncompacted
}

// ResetUncompacted zeroes the dead-byte counter. Called once a compaction
// finishes, since every surviving record has just been rewritten
// contiguously into the compaction generation and no longer carries any
// dead weight behind it.
func (idx *Index) ResetUncompacted() {
	idx.mu.Lock()
	idx.uncompacted = 0
	idx.mu.Unlock()
}

// Keys returns every live key in sorted order. Compaction walks the index
// this way so the merged segment it writes is deterministic and so the
// scan has a stable order independent of Go's randomized map iteration.
func (idx *Index) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	keys := make([]string, 0, len(idx.pointers))
	for k := range idx.pointers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.pointers)
}

// Close gracefully shuts down the Index, releasing its memory and
// rejecting further use.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.pointers)
	idx.pointers = nil

	idx.log.Infow("index closed")
	return nil
}
