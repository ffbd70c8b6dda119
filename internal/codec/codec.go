// Package codec implements the log record codec: a deterministic,
// self-delimiting encoding for the two mutation variants (Set and Remove)
// that make up strata's append-only log, plus a streaming decoder that
// recovers (record, end-offset) pairs from a byte stream.
//
// The wire format is one JSON object per record, written back-to-back
// with no framing: each object delimits itself, and an explicit "type"
// field discriminates the two variants.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	kverrors "github.com/stratadb/strata/pkg/errors"
)

// Type discriminates the two record variants.
type Type string

const (
	// TypeSet tags a record that assigns a value to a key.
	TypeSet Type = "set"
	// TypeRemove tags a record that tombstones a key.
	TypeRemove Type = "rm"
)

// Record is the on-disk shape of one log entry. Value is empty and omitted
// for Remove records.
type Record struct {
	Type  Type   `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// NewSet builds a Set record.
func NewSet(key, value string) Record {
	return Record{Type: TypeSet, Key: key, Value: value}
}

// NewRemove builds a Remove record.
func NewRemove(key string) Record {
	return Record{Type: TypeRemove, Key: key}
}

// IsSet reports whether the record is a Set variant.
func (r Record) IsSet() bool { return r.Type == TypeSet }

// Encode serializes a record to its deterministic wire form. The caller is
// responsible for writing the returned bytes through a position-tracking
// writer so the resulting offset can be recorded in the key directory.
func Encode(rec Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, kverrors.NewEncodeError(err, rec.Key)
	}
	// Records are written back-to-back with no separator: each JSON object
	// is self-delimiting on its own, and keeping the encoding separator-free
	// means len(Encode(rec)) is exactly the span a replayed pointer reports.
	return b, nil
}

// DecodeOne decodes exactly one record from a tightly-bounded byte slice,
// the shape a pointer-addressed read produces via PosReader.Take.
// Any error here is a genuine decode failure, never a truncation — the
// caller already sliced out exactly the encoded record's length.
func DecodeOne(b []byte) (Record, error) {
	var rec Record
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Stream decodes a sequential run of records from r, reporting the absolute
// byte offset just past each record as it is consumed. It is used during
// replay, where records are read back-to-back from offset 0.
type Stream struct {
	dec *json.Decoder
}

// NewStream wraps r for sequential record-at-a-time decoding.
func NewStream(r io.Reader) *Stream {
	return &Stream{dec: json.NewDecoder(r)}
}

// Next decodes the next record and returns it along with the absolute byte
// offset of the stream position just past it. When the stream is exhausted
// cleanly (no more bytes), it returns io.EOF. When the stream ends in the
// middle of a record — a trailing truncation — it returns io.ErrUnexpectedEOF
// itself, so callers can distinguish that from genuine corruption with
// errors.Is.
func (s *Stream) Next() (rec Record, end int64, err error) {
	if err := s.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, 0, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, 0, io.ErrUnexpectedEOF
		}
		// json.Decoder wraps a short final token as a *json.SyntaxError
		// whose message reports an unexpected EOF; normalize that case too
		// so a genuinely truncated trailing record is never mistaken for
		// mid-segment corruption.
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && !s.dec.More() && isEOFSyntaxError(err) {
			return Record{}, 0, io.ErrUnexpectedEOF
		}
		return Record{}, 0, err
	}
	return rec, s.dec.InputOffset(), nil
}

func isEOFSyntaxError(err error) bool {
	// encoding/json reports a truncated trailing object as
	// "unexpected end of JSON input" from its internal scanner.
	return err.Error() == "unexpected end of JSON input"
}
