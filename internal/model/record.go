package model

import (
	"sort"
	"time"
)

// LogRecord represents a single parsed log entry from any host.
type LogRecord struct {
	Timestamp int64  `json:"timestamp"` // microseconds since epoch
	Hostname  string `json:"hostname"`
	Service   string `json:"service"`
	Message   string `json:"message"`
}

// Time converts the microsecond timestamp to a UTC wall-clock time.
func (r LogRecord) Time() time.Time {
	return time.UnixMicro(r.Timestamp).UTC()
}

// Compare defines the total order over records: timestamp first, then
// hostname, service, and message as tie-breakers. Two records compare
// equal only when all four fields are equal.
func Compare(a, b LogRecord) int {
	switch {
	case a.Timestamp < b.Timestamp:
		return -1
	case a.Timestamp > b.Timestamp:
		return 1
	}
	if c := compareString(a.Hostname, b.Hostname); c != 0 {
		return c
	}
	if c := compareString(a.Service, b.Service); c != 0 {
		return c
	}
	return compareString(a.Message, b.Message)
}

// Less reports whether a sorts before b in the total order.
func Less(a, b LogRecord) bool {
	return Compare(a, b) < 0
}

// Sort orders records in place by the total order. Sorting is
// deterministic and idempotent because the order is total.
func Sort(records []LogRecord) {
	sort.Slice(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
