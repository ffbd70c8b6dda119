package errors_test

import (
	"fmt"
	"testing"

	"github.com/stratadb/strata/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCodecErrorHelpers(t *testing.T) {
	cause := fmt.Errorf("boom")

	err := errors.NewTruncatedRecordError(3, 128, cause)
	require.True(t, errors.IsCodecError(err))
	require.Equal(t, errors.ErrorCodeCodecTruncated, errors.GetErrorCode(err))

	ce, ok := errors.AsCodecError(err)
	require.True(t, ok)
	require.Equal(t, uint64(3), ce.Generation())
	require.Equal(t, int64(128), ce.Offset())
	require.True(t, ce.Truncated())
}

func TestIntegrityErrorHelpers(t *testing.T) {
	err := errors.NewIntegrityKeyMismatchError("wanted", "found", 2, 64)
	require.True(t, errors.IsIntegrityError(err))

	ie, ok := errors.AsIntegrityError(err)
	require.True(t, ok)
	require.Equal(t, "wanted", ie.Key())
	require.Equal(t, "found", ie.FoundKey())
	require.Equal(t, uint64(2), ie.Generation())
	require.Equal(t, int64(64), ie.Offset())
}

func TestIndexErrorHelpers(t *testing.T) {
	err := errors.NewKeyNotFoundError("missing")
	require.True(t, errors.IsIndexError(err))
	require.Equal(t, errors.ErrorCodeIndexKeyNotFound, errors.GetErrorCode(err))

	ie, ok := errors.AsIndexError(err)
	require.True(t, ok)
	require.Equal(t, "missing", ie.Key())
}

func TestIsKeyNotFoundDistinguishesFromOtherIndexErrors(t *testing.T) {
	notFound := errors.NewKeyNotFoundError("missing")
	require.True(t, errors.IsKeyNotFound(notFound))

	genErr := errors.NewGenerationNotFoundError(7, "k")
	require.True(t, errors.IsIndexError(genErr))
	require.False(t, errors.IsKeyNotFound(genErr))
}

func TestGenerationParseError(t *testing.T) {
	err := errors.NewGenerationParseError("notaninteger.log", fmt.Errorf("bad"))
	ie, ok := errors.AsIndexError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeIndexGenerationParse, ie.Code())
}

func TestGetErrorDetailsReturnsEmptyMapForPlainErrors(t *testing.T) {
	details := errors.GetErrorDetails(fmt.Errorf("plain"))
	require.Empty(t, details)
}
