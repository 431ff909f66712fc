// Package transport captures the stdout of a named executable, run
// either locally or over an SSH session, as lossy-decoded text.
package transport

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TransportError reports a failed invocation: launch failure, non-zero
// exit, or a broken session. It is recoverable at single-source
// granularity.
type TransportError struct {
	Op     string // "exec", "dial", "session", ...
	Target string // executable name or host address
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Decode converts captured bytes to text, replacing invalid UTF-8
// sequences instead of failing.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// firstLine trims stderr output down to something fit for an error
// message.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
