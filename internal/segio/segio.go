// Package segio names and discovers strata's segment files. The on-disk
// layout is fixed: every segment lives directly inside the store's data
// directory as "<generation>.log", with no subdirectory and no extra
// filename components.
package segio

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/stratadb/strata/pkg/errors"
	"github.com/stratadb/strata/pkg/filesys"
)

const extension = ".log"

// GenerateName returns the filename for a segment of the given generation.
func GenerateName(generation uint64) string {
	return fmt.Sprintf("%d%s", generation, extension)
}

// Path returns the full path to a segment file of the given generation
// inside dataDir.
func Path(dataDir string, generation uint64) string {
	return filepath.Join(dataDir, GenerateName(generation))
}

// ParseGeneration extracts the generation number from a segment filename
// (or full path). It rejects anything that doesn't match "<digits>.log"
// exactly.
func ParseGeneration(fullPath string) (uint64, error) {
	_, filename := filepath.Split(fullPath)

	if !strings.HasSuffix(filename, extension) {
		return 0, errors.NewGenerationParseError(filename, fmt.Errorf("missing %q extension", extension))
	}

	digits := strings.TrimSuffix(filename, extension)
	if digits == "" {
		return 0, errors.NewGenerationParseError(filename, fmt.Errorf("empty generation component"))
	}

	generation, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.NewGenerationParseError(filename, err)
	}

	return generation, nil
}

// DiscoverGenerations scans dataDir for segment files and returns their
// generation numbers in ascending order. It is the sole source of truth
// for "what segments exist" during open and replay. Files whose names
// don't parse as "<generation>.log" are not the store's to manage and
// are skipped.
func DiscoverGenerations(dataDir string) ([]uint64, error) {
	pattern := filepath.Join(dataDir, "*"+extension)

	matches, err := filesys.ReadDir(pattern)
	if err != nil {
		return nil, err
	}

	generations := make([]uint64, 0, len(matches))
	for _, m := range matches {
		gen, err := ParseGeneration(m)
		if err != nil {
			continue
		}
		generations = append(generations, gen)
	}

	slices.Sort(generations)
	return generations, nil
}
