// Package compaction implements the merge algorithm: rewriting every
// live record into a fresh compaction generation, opening a second, empty
// generation as the new active segment, so the segment set shrinks back
// down and dead bytes left behind by overwrites and removes are reclaimed.
//
// Compaction never touches a record's bytes — a live record is already
// validly encoded wherever it sits, so the merge simply relocates the
// exact same encoded span into the new segment and repoints the index at
// its new (generation, offset) pair.
package compaction

import (
	"context"

	"github.com/stratadb/strata/internal/index"
	"github.com/stratadb/strata/internal/storage"
	"go.uber.org/zap"
)

// Compaction runs the merge algorithm against a given index and storage
// pair. It holds no state of its own between runs; every run derives its
// two target generations from whatever generation is active when it
// starts.
type Compaction struct {
	log *zap.SugaredLogger
}

// Config encapsulates the configuration parameters required to initialize
// a Compaction instance.
type Config struct {
	Logger *zap.SugaredLogger
}

// New creates a new Compaction coordinator.
func New(config *Config) *Compaction {
	return &Compaction{log: config.Logger}
}

// Result reports the generations a completed compaction produced.
type Result struct {
	CompactGeneration   uint64
	NewActiveGeneration uint64
	RecordsRewritten    int
}

// Run performs one full compaction pass:
//
//  1. compact_gen := active + 1; new_active_gen := active + 2.
//  2. Every live key (per the index) is read from its current location
//     and appended, byte-for-byte, into compact_gen; the index is
//     repointed at the new location via index.Rewrite, which does not
//     perturb the uncompacted-byte counter.
//  3. new_active_gen is created empty and becomes the active segment, so
//     writes that occur after compaction never land in compact_gen.
//  4. Every segment with generation < compact_gen — i.e. every segment
//     that predates the merge — is retired.
//  5. The uncompacted-byte counter resets to zero: nothing written by
//     the merge is dead weight.
//
// Run assumes exclusive access to idx and st for its duration; the engine
// serializes compaction against concurrent Set/Remove calls.
func (c *Compaction) Run(ctx context.Context, idx *index.Index, st *storage.Storage) (Result, error) {
	active := st.ActiveGeneration()
	compactGen := active + 1
	newActiveGen := active + 2

	c.log.Infow(
		"starting compaction",
		"activeGeneration", active,
		"compactGeneration", compactGen,
		"newActiveGeneration", newActiveGen,
		"liveKeys", idx.Len(),
		"uncompactedBytes", idx.Uncompacted(),
	)

	if err := st.CreateSegment(compactGen); err != nil {
		return Result{}, err
	}

	keys := idx.Keys()
	rewritten := 0
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		ptr, ok := idx.Get(key)
		if !ok {
			// The key was removed by a concurrent caller between Keys()
			// and Get(); nothing to relocate. Unreachable under the
			// engine's compaction-exclusivity guarantee but handled
			// defensively since idx.Keys() is a point-in-time snapshot.
			continue
		}

		record, err := st.Read(ptr.Generation, ptr.Offset, ptr.Length)
		if err != nil {
			return Result{}, err
		}

		newGen, newOffset, err := st.Append(record)
		if err != nil {
			return Result{}, err
		}

		idx.Rewrite(key, index.Pointer{
			Generation: newGen,
			Offset:     newOffset,
			Length:     int64(len(record)),
		})
		rewritten++
	}

	if err := st.CreateSegment(newActiveGen); err != nil {
		return Result{}, err
	}

	if err := st.DropSegmentsBelow(compactGen); err != nil {
		return Result{}, err
	}

	idx.ResetUncompacted()

	c.log.Infow(
		"compaction complete",
		"compactGeneration", compactGen,
		"newActiveGeneration", newActiveGen,
		"recordsRewritten", rewritten,
	)

	return Result{
		CompactGeneration:   compactGen,
		NewActiveGeneration: newActiveGen,
		RecordsRewritten:    rewritten,
	}, nil
}
