// Package engine provides strata's core database engine: the coordinator
// that ties the codec, key directory, segment storage, and compactor
// together into the four operations the store exposes.
//
// The engine orchestrates three subsystems:
//   - Index: the in-memory key directory for O(1) lookups
//   - Storage: the on-disk segment set and its append/read primitives
//   - Compaction: the merge that reclaims dead space, run inline by the
//     Set or Remove call that pushes dead bytes over the threshold
//
// Every public method is safe for concurrent use; a single mutex
// serializes mutation against the index and storage. Concurrency here is
// about safe in-process sharing — the store still assumes it is the only
// process writing to its directory.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/stratadb/strata/internal/codec"
	"github.com/stratadb/strata/internal/compaction"
	"github.com/stratadb/strata/internal/index"
	"github.com/stratadb/strata/internal/storage"
	kverrors "github.com/stratadb/strata/pkg/errors"
	"github.com/stratadb/strata/pkg/options"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine is the main database engine coordinating the index, storage, and
// compaction subsystems.
type Engine struct {
	mu         sync.Mutex
	options    *options.Options
	log        *zap.SugaredLogger
	closed     atomic.Bool
	index      *index.Index
	storage    *storage.Storage
	compaction *compaction.Compaction
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance, replaying every
// existing segment into the key directory before returning.
func New(ctx context.Context, config *Config) (*Engine, error) {
	idx, err := index.New(ctx, &index.Config{
		DataDir: config.Options.DataDir,
		Logger:  config.Logger,
	})
	if err != nil {
		return nil, err
	}

	st, err := storage.New(ctx, &storage.Config{
		DataDir: config.Options.DataDir,
		Logger:  config.Logger,
	})
	if err != nil {
		return nil, err
	}

	comp := compaction.New(&compaction.Config{Logger: config.Logger})

	e := &Engine{
		options:    config.Options,
		log:        config.Logger,
		index:      idx,
		storage:    st,
		compaction: comp,
	}

	if err := e.replay(); err != nil {
		st.Close()
		return nil, err
	}

	return e, nil
}

// replay rebuilds the key directory by decoding every record in every
// segment, oldest generation first, applying each record's effect on the
// index in log order. A trailing truncation is tolerated; any other
// decode failure is fatal.
func (e *Engine) replay() error {
	generations := e.storage.Generations()

	for _, gen := range generations {
		r, err := e.storage.ReaderAt(gen)
		if err != nil {
			return err
		}

		stream := codec.NewStream(r)
		var offset int64
		for {
			rec, end, err := stream.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				if errors.Is(err, io.ErrUnexpectedEOF) {
					e.log.Infow(
						"trailing truncation detected during replay, segment accepted up to last complete record",
						"generation", gen, "offset", offset,
					)
					break
				}
				r.Close()
				return kverrors.NewDecodeError(gen, offset, err)
			}

			length := end - offset
			e.applyReplayed(gen, offset, length, rec)
			offset = end
		}

		if err := r.Close(); err != nil {
			return err
		}
	}

	return nil
}

// applyReplayed updates the index for one record recovered during replay.
// Superseded bytes are accounted into the uncompacted counter exactly as
// they would be for a live Set/Remove, since replay is reconstructing the
// same history the engine would have recorded live.
func (e *Engine) applyReplayed(gen uint64, offset, length int64, rec codec.Record) {
	if rec.IsSet() {
		prev, existed := e.index.Set(rec.Key, index.Pointer{Generation: gen, Offset: offset, Length: length})
		if existed {
			e.index.AddUncompacted(prev.Length)
		}
		return
	}

	prev, existed := e.index.Remove(rec.Key)
	if existed {
		e.index.AddUncompacted(prev.Length)
	}
	// The tombstone record itself is already dead weight the moment replay
	// finishes applying it, since no live key points at it.
	e.index.AddUncompacted(length)
}

// Set writes key=value to the log and updates the key directory to point
// at it. A prior value for key, if any, becomes dead weight that
// counts toward the next compaction decision.
func (e *Engine) Set(ctx context.Context, key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	rec := codec.NewSet(key, value)
	encoded, err := codec.Encode(rec)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	gen, offset, err := e.storage.Append(encoded)
	if err != nil {
		return err
	}

	prev, existed := e.index.Set(key, index.Pointer{Generation: gen, Offset: offset, Length: int64(len(encoded))})
	if existed {
		e.index.AddUncompacted(prev.Length)
	}

	return e.maybeCompact(ctx)
}

// Get retrieves the value for key. A missing key is a successful "no
// value" outcome, reported through ok, never as an error. On a hit, Get
// performs exactly one lookup against the key directory and exactly one
// seek-plus-bounded-read against the segment it names, then verifies the
// decoded record's key matches what was requested before returning its
// value.
func (e *Engine) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	e.mu.Lock()
	ptr, found := e.index.Get(key)
	e.mu.Unlock()

	if !found {
		return "", false, nil
	}

	raw, err := e.storage.Read(ptr.Generation, ptr.Offset, ptr.Length)
	if err != nil {
		if kverrors.GetErrorCode(err) == kverrors.ErrorCodeSegmentCorrupted {
			// The key directory points at a generation storage no longer has
			// a reader for — an index/segment-set inconsistency, not a plain
			// I/O failure, so it gets the index-specific error shape.
			return "", false, kverrors.NewGenerationNotFoundError(ptr.Generation, key)
		}
		return "", false, err
	}

	rec, err := codec.DecodeOne(raw)
	if err != nil {
		return "", false, kverrors.NewIntegrityDecodeError(key, ptr.Generation, ptr.Offset, err)
	}

	if rec.Key != key {
		return "", false, kverrors.NewIntegrityKeyMismatchError(key, rec.Key, ptr.Generation, ptr.Offset)
	}

	if !rec.IsSet() {
		// The index should never point a live key at a Remove record;
		// surfacing this as corruption rather than a silent miss makes a
		// broken invariant loud instead of indistinguishable from a
		// legitimate absence.
		return "", false, kverrors.NewIndexCorruptionError("Get", e.index.Len(), nil).WithKey(key)
	}

	return rec.Value, true, nil
}

// Remove deletes key, failing with KeyNotFound — and writing nothing —
// when key has no live value. The existence check, tombstone append, and
// index update all happen under one lock scope so two concurrent removes
// of the same key cannot both pass the check and double-append.
func (e *Engine) Remove(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	rec := codec.NewRemove(key)
	encoded, err := codec.Encode(rec)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, exists := e.index.Get(key)
	if !exists {
		return kverrors.NewKeyNotFoundError(key)
	}

	if _, _, err := e.storage.Append(encoded); err != nil {
		return err
	}

	e.index.Remove(key)
	e.index.AddUncompacted(prev.Length)
	// The tombstone itself never serves a future Get, so its bytes are
	// dead the instant they're written.
	e.index.AddUncompacted(int64(len(encoded)))

	return e.maybeCompact(ctx)
}

// maybeCompact triggers a compaction if the uncompacted-byte counter has
// strictly exceeded the configured threshold. Called with e.mu
// already held by the caller.
func (e *Engine) maybeCompact(ctx context.Context) error {
	if e.index.Uncompacted() <= e.options.CompactionThreshold {
		return nil
	}

	result, err := e.compaction.Run(ctx, e.index, e.storage)
	if err != nil {
		return err
	}

	e.log.Infow(
		"compaction triggered by uncompacted byte threshold",
		"threshold", e.options.CompactionThreshold,
		"compactGeneration", result.CompactGeneration,
		"newActiveGeneration", result.NewActiveGeneration,
	)
	return nil
}

// Close gracefully shuts down the engine and releases all associated resources.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.index.Close(); err != nil {
		e.log.Errorw("failed to close index", "error", err)
	}

	return e.storage.Close()
}
