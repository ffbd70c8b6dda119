// Package options provides data structures and functions for configuring a
// strata store. It defines the parameters that control where segment files
// live and when the compactor runs, applied through the functional-options
// pattern.
package options

import "strings"

// Options defines the configuration parameters for a strata store.
type Options struct {
	// DataDir is the directory holding the store's segment files. It is
	// created on open if absent. No subdirectory is used underneath it:
	// segment files live directly inside DataDir.
	//
	// Default: "./data"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of uncompacted (dead) bytes that
	// must accumulate across the store's segments before a compaction is
	// triggered. Checked strictly greater-than, after every set and
	// remove.
	//
	// Default: 1MiB
	CompactionThreshold int64 `json:"compactionThreshold"`
}

// OptionFunc is a function type that modifies a store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the package's default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactionThreshold = opts.CompactionThreshold
	}
}

// WithDataDir sets the directory in which segment files are stored.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactionThreshold sets the uncompacted-byte threshold that triggers
// a compaction. Thresholds below MinCompactionThreshold are ignored in
// favor of the current value, to avoid a pathological compact-on-every-write
// configuration.
func WithCompactionThreshold(bytes int64) OptionFunc {
	return func(o *Options) {
		if bytes >= MinCompactionThreshold {
			o.CompactionThreshold = bytes
		}
	}
}
