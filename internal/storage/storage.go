// Package storage owns the segment set: the collection of
// "<generation>.log" files that make up a store's log, with exactly one
// active segment open for append at any time and a reader held open for
// every segment a pointer might address.
//
// Storage is deliberately policy-free about *when* to roll to a new
// segment or *which* segments to discard — those decisions belong to the
// engine and the compactor respectively. This package only
// provides the mechanism: create a segment, append to the active one,
// read an arbitrary span from any segment, and retire segments below a
// generation cutoff.
package storage

import (
	"context"
	stdErrors "errors"
	"sort"
	"sync"

	"github.com/stratadb/strata/internal/posio"
	"github.com/stratadb/strata/internal/segio"
	"github.com/stratadb/strata/pkg/errors"
	"github.com/stratadb/strata/pkg/filesys"
	"go.uber.org/zap"
)

var ErrStorageClosed = stdErrors.New("operation failed: cannot access closed storage")

// Storage manages the on-disk segment set for a single store directory.
type Storage struct {
	mu      sync.Mutex
	dataDir string
	log     *zap.SugaredLogger

	active  uint64
	writer  *posio.Writer
	readers map[uint64]*posio.Reader

	closed bool
}

// Config encapsulates the configuration parameters required to initialize
// a Storage instance.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}

// New opens (and if necessary bootstraps) the segment set rooted at
// config.DataDir. A reader is opened for every discovered generation, and
// a brand new segment one past the highest discovered generation becomes
// the active writer. Opening a fresh segment rather than resuming
// the last one matters for crash recovery: a previous run may have left a
// truncated trailing record behind, and appending after it would bury
// valid records behind bytes replay must reject.
func New(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "storage configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	exists, err := filesys.Exists(config.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data directory").
			WithPath(config.DataDir)
	}
	config.Logger.Infow("initializing storage", "dataDir", config.DataDir, "existing", exists)

	if err := filesys.CreateDir(config.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, config.DataDir)
	}

	s := &Storage{
		dataDir: config.DataDir,
		log:     config.Logger,
		readers: make(map[uint64]*posio.Reader),
	}

	generations, err := segio.DiscoverGenerations(config.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover segments").
			WithPath(config.DataDir)
	}

	for _, gen := range generations {
		if err := s.openReader(gen); err != nil {
			return nil, err
		}
	}

	next := uint64(1)
	if len(generations) > 0 {
		next = generations[len(generations)-1] + 1
	}
	if err := s.createSegment(next); err != nil {
		return nil, err
	}
	s.active = next

	config.Logger.Infow(
		"storage initialized",
		"activeGeneration", next, "segmentCount", len(generations)+1,
	)
	return s, nil
}

func (s *Storage) openReader(gen uint64) error {
	path := segio.Path(s.dataDir, gen)
	f, err := osOpenRead(path)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, segio.GenerateName(gen))
	}
	r, err := posio.NewReader(f)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to position segment reader").
			WithFileName(segio.GenerateName(gen)).WithPath(path)
	}
	s.readers[gen] = r
	return nil
}

func (s *Storage) openWriter(gen uint64) (*posio.Writer, error) {
	path := segio.Path(s.dataDir, gen)
	f, err := osOpenAppend(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, segio.GenerateName(gen))
	}
	w, err := posio.NewWriter(f)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to position segment writer").
			WithFileName(segio.GenerateName(gen)).WithPath(path)
	}
	return w, nil
}

// createSegment creates a brand new, empty segment file for gen, opens
// both a writer and a reader onto it, and hands write duties over to it,
// closing the previous writer if one was open.
func (s *Storage) createSegment(gen uint64) error {
	path := segio.Path(s.dataDir, gen)
	f, err := osCreate(path)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, segio.GenerateName(gen))
	}
	f.Close()

	w, err := s.openWriter(gen)
	if err != nil {
		return err
	}
	if err := s.openReader(gen); err != nil {
		w.Close()
		return err
	}

	if s.writer != nil {
		// Every Append flushes before returning, so the outgoing writer
		// holds no buffered bytes; a close failure here only leaks the
		// descriptor, it cannot lose data.
		if err := s.writer.Close(); err != nil {
			s.log.Errorw("failed to close previous segment writer", "error", err)
		}
	}
	s.writer = w
	return nil
}

// CreateSegment creates a new empty segment for generation gen and makes
// it the active segment. Compaction uses this to allocate the two
// fresh generations a merge creates: the one it writes live records into
// and the empty one that becomes the new active segment.
func (s *Storage) CreateSegment(gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStorageClosed
	}
	if err := s.createSegment(gen); err != nil {
		return err
	}
	s.active = gen
	s.log.Infow("created segment", "generation", gen)
	return nil
}

// Append writes an already-encoded record to the active segment, flushing
// it to disk before returning so a successful Append is durable. It
// reports the generation and the absolute offset at which the record
// begins, exactly what the key directory needs to store.
func (s *Storage) Append(record []byte) (generation uint64, offset int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, ErrStorageClosed
	}

	offset = s.writer.Offset()
	if _, err := s.writer.Write(record); err != nil {
		return 0, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithSegmentID(int(s.active)).WithOffset(int(offset))
	}
	if err := s.writer.Flush(); err != nil {
		segPath := segio.Path(s.dataDir, s.active)
		syncErr := errors.ClassifySyncError(err, segio.GenerateName(s.active), segPath, int(offset))
		if se, ok := errors.AsStorageError(syncErr); ok {
			return 0, 0, se.WithSegmentID(int(s.active))
		}
		return 0, 0, syncErr
	}

	return s.active, offset, nil
}

// Read returns exactly length bytes from generation at offset, the
// bounded single-seek read the get path relies on.
func (s *Storage) Read(generation uint64, offset, length int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStorageClosed
	}

	r, ok := s.readers[generation]
	if !ok {
		return nil, errors.NewStorageError(
			nil, errors.ErrorCodeSegmentCorrupted, "no reader open for segment generation",
		).WithSegmentID(int(generation))
	}

	if err := r.Seek(offset); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek segment").
			WithSegmentID(int(generation)).WithOffset(int(offset))
	}

	b, err := r.Take(length)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodePayloadReadFailure, "failed to read record payload").
			WithSegmentID(int(generation)).WithOffset(int(offset))
	}

	return b, nil
}

// ReaderAt returns a fresh sequential reader positioned at the start of
// generation's segment, for replay to stream through front-to-back. The caller owns the returned reader's lifecycle
// and must Close it; it is independent of the reader Storage itself keeps
// open for point reads.
func (s *Storage) ReaderAt(generation uint64) (*posio.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStorageClosed
	}

	path := segio.Path(s.dataDir, generation)
	f, err := osOpenRead(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, segio.GenerateName(generation))
	}
	return posio.NewReader(f)
}

// Generations returns every known segment generation in ascending order.
func (s *Storage) Generations() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gens := make([]uint64, 0, len(s.readers))
	for g := range s.readers {
		gens = append(gens, g)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens
}

// ActiveGeneration returns the generation currently open for append.
func (s *Storage) ActiveGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Dir returns the store's data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// DropSegmentsBelow closes and deletes every segment with a generation
// strictly less than cutoff. Compaction calls this once the merge
// into compact_gen is durable and new_active_gen is open, retiring
// everything the merge has superseded.
func (s *Storage) DropSegmentsBelow(cutoff uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStorageClosed
	}

	for gen, r := range s.readers {
		if gen >= cutoff {
			continue
		}
		if err := r.Close(); err != nil {
			s.log.Errorw("failed to close retired segment reader", "generation", gen, "error", err)
		}
		delete(s.readers, gen)

		path := segio.Path(s.dataDir, gen)
		if err := filesys.DeleteFile(path); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to delete retired segment").
				WithFileName(segio.GenerateName(gen)).WithPath(path)
		}
		s.log.Infow("retired segment", "generation", gen)
	}

	return nil
}

// Close closes every open reader and the active writer.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStorageClosed
	}
	s.closed = true

	var firstErr error
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			firstErr = err
		}
	}
	for gen, r := range s.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.readers, gen)
	}

	s.log.Infow("storage closed")
	return firstErr
}
