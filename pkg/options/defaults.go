package options

const (
	// DefaultDataDir is used when no data directory is configured. Callers
	// embedding strata in a real service are expected to override this with
	// WithDataDir.
	DefaultDataDir = "./data"

	// DefaultCompactionThreshold is the number of dead bytes accumulated
	// across sealed and active segments before a compaction is triggered.
	DefaultCompactionThreshold int64 = 1024 * 1024

	// MinCompactionThreshold guards against a threshold so small that every
	// write would trigger a compaction.
	MinCompactionThreshold int64 = 4096
)

// Holds the default configuration settings for a strata store.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
}

// NewDefaultOptions returns a copy of the package's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
