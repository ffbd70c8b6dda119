package storage

import "os"

// osOpenAppend opens a segment file for append-only writing, creating it
// if absent. O_APPEND guarantees every write lands at the file's current
// end regardless of concurrent readers seeking elsewhere in the same fd
// table.
func osOpenAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
}

// osOpenRead opens a segment file read-only, for point reads and replay.
func osOpenRead(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY, 0644)
}

// osCreate creates a brand new, empty segment file, failing if one
// already exists at path.
func osCreate(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
}
