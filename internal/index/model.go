package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pointer contains the absolute minimum metadata required to locate and
// retrieve a record from disk storage: which segment, at what offset, and
// how long the encoded record runs. No timestamp is kept — compaction in
// strata is driven entirely by append order within and across
// generations, never by wall-clock time, so there is nothing for a
// timestamp to decide that generation+offset don't already decide.
//
// Each Pointer is a precise address that lets Get jump straight to a
// record with one seek and one bounded read, never scanning a segment.
type Pointer struct {
	// Generation identifies the segment file, named "<generation>.log",
	// that holds the record.
	Generation uint64

	// Offset is the absolute byte position within the segment where the
	// record's encoding begins.
	Offset int64

	// Length is the number of bytes the encoded record occupies, letting
	// Get read exactly the right span in a single I/O call.
	Length int64
}

// Index is the in-memory key directory: a hash table mapping every live
// key to the Pointer describing where its most recent value lives on
// disk. It is the sole source of truth for what Get can see — a key
// absent from the Index is a key that does not exist, regardless of what
// stale copies of it remain in older segments.
type Index struct {
	dataDir  string
	log      *zap.SugaredLogger
	pointers map[string]Pointer
	mu       sync.RWMutex
	closed   atomic.Bool

	// uncompacted accumulates the byte length of every record made dead
	// by a later write: an overwritten Set, a tombstoning Remove, or (for
	// the record's own length) a Remove record itself once the key it
	// tombstones has been fully retired from the index. The engine
	// uses this counter to decide when a merge pays for itself, and the
	// compactor resets it to zero once a merge completes.
	uncompacted int64
}

// Config encapsulates the configuration parameters required to initialize
// an Index.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}
