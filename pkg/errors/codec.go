package errors

import stdErrors "errors"

// CodecError is a specialized error type for record encode/decode failures.
// It embeds baseError to inherit chaining and structured details, and adds
// context about which record and byte range the codec was working on.
type CodecError struct {
	*baseError

	generation uint64 // Segment generation the record came from, if known.
	offset     int64  // Byte offset of the record within its segment.
	truncated  bool   // Whether this failure is a trailing truncation rather than corruption.
}

// NewCodecError creates a new codec-specific error with the provided context.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithGeneration records which segment generation the failing record came from.
func (ce *CodecError) WithGeneration(generation uint64) *CodecError {
	ce.generation = generation
	return ce
}

// WithOffset records the byte offset of the failing record within its segment.
func (ce *CodecError) WithOffset(offset int64) *CodecError {
	ce.offset = offset
	return ce
}

// WithTruncated marks this error as a trailing-truncation rather than a
// mid-segment corruption, which Truncated then reports.
func (ce *CodecError) WithTruncated(truncated bool) *CodecError {
	ce.truncated = truncated
	return ce
}

// Generation returns the segment generation the failing record came from.
func (ce *CodecError) Generation() uint64 {
	return ce.generation
}

// Offset returns the byte offset of the failing record within its segment.
func (ce *CodecError) Offset() int64 {
	return ce.offset
}

// Truncated reports whether this failure represents a trailing truncation.
func (ce *CodecError) Truncated() bool {
	return ce.truncated
}

// NewTruncatedRecordError creates an error describing a cleanly detected
// trailing truncation: the last record in a segment ran out of bytes before
// a complete value was decoded.
func NewTruncatedRecordError(generation uint64, offset int64, cause error) *CodecError {
	return NewCodecError(cause, ErrorCodeCodecTruncated, "trailing record truncated").
		WithGeneration(generation).
		WithOffset(offset).
		WithTruncated(true)
}

// NewDecodeError creates an error for a record that failed to decode for a
// reason other than running out of input, i.e. genuine corruption.
func NewDecodeError(generation uint64, offset int64, cause error) *CodecError {
	return NewCodecError(cause, ErrorCodeCodecDecode, "record failed to decode").
		WithGeneration(generation).
		WithOffset(offset)
}

// NewEncodeError creates an error for a record that failed to serialize.
func NewEncodeError(cause error, key string) *CodecError {
	return NewCodecError(cause, ErrorCodeCodecEncode, "record failed to encode").
		WithDetail("key", key)
}

// IsCodecError reports whether err is a *CodecError or wraps one.
func IsCodecError(err error) bool {
	var ce *CodecError
	return stdErrors.As(err, &ce)
}

// AsCodecError extracts a *CodecError from err's chain, if present.
func AsCodecError(err error) (*CodecError, bool) {
	var ce *CodecError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
