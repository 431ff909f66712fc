// Package stream provides the ordered, single-pass log record stream
// with multi-source merge and substring filtering.
package stream

import (
	"strings"

	"github.com/atikulmunna/weft/internal/model"
)

// Source is anything that can produce a sequence of log records:
// a parsed local capture, a remote capture, or a fixed slice in tests.
type Source interface {
	Records() ([]model.LogRecord, error)
}

// Stream is an ordered sequence of records with a forward-only
// consumption cursor. The backing order is whatever the constructor was
// given; sorting happens only at merge time or by the caller.
type Stream struct {
	records []model.LogRecord
	idx     int
}

// New wraps the given records as-is. It does not sort.
func New(records []model.LogRecord) *Stream {
	return &Stream{records: records}
}

// From builds a stream by pulling all records from a source.
func From(src Source) (*Stream, error) {
	records, err := src.Records()
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

// Merge returns a new stream holding the union of both inputs' records,
// fully re-sorted by the record total order. Neither input is modified
// and neither cursor is disturbed.
func Merge(a, b *Stream) *Stream {
	merged := make([]model.LogRecord, 0, len(a.records)+len(b.records))
	merged = append(merged, a.records...)
	merged = append(merged, b.records...)
	model.Sort(merged)
	return New(merged)
}

// Filter returns a new stream containing exactly the records whose
// message contains every include term and none of the exclude terms.
// Empty include imposes no constraint; empty exclude removes nothing.
// The input's relative order is preserved.
func (s *Stream) Filter(exclude, include []string) *Stream {
	var kept []model.LogRecord
	for _, r := range s.records {
		if containsAll(r.Message, include) && !containsAny(r.Message, exclude) {
			kept = append(kept, r)
		}
	}
	return New(kept)
}

// Next produces the next record, or false once the stream is exhausted.
// An exhausted stream keeps returning false.
func (s *Stream) Next() (model.LogRecord, bool) {
	if s.idx >= len(s.records) {
		return model.LogRecord{}, false
	}
	r := s.records[s.idx]
	s.idx++
	return r, true
}

// Len returns the number of records in the stream, independent of the
// cursor position.
func (s *Stream) Len() int { return len(s.records) }

// Records returns a copy of the backing records without moving the
// cursor.
func (s *Stream) Records() []model.LogRecord {
	out := make([]model.LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

func containsAll(msg string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(msg, t) {
			return false
		}
	}
	return true
}

func containsAny(msg string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}
