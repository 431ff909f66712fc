package parser

import "time"

// Fields holds the four capture texts extracted from one candidate, in
// the fixed scheme order.
type Fields struct {
	DateTime string
	Host     string
	Service  string
	Message  string
}

// Extract runs the compiled line matcher against one candidate. The
// second return value is false when the candidate does not match; that
// is a policy decision point for the caller, not an error.
func (c *CompiledScheme) Extract(candidate string) (Fields, bool) {
	m := c.line.FindStringSubmatch(candidate)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		DateTime: m[1],
		Host:     m[2],
		Service:  m[3],
		Message:  m[4],
	}, true
}

// ParseTimestamp interprets text using the scheme's timestamp format and
// returns microseconds since epoch. Text that does not fit the format
// yields a ParseError, recoverable per record.
func (c *CompiledScheme) ParseTimestamp(text string) (int64, error) {
	t, err := time.Parse(c.layout, text)
	if err != nil {
		return 0, &ParseError{Text: text, Err: err}
	}
	return t.Unix()*1_000_000 + int64(t.Nanosecond())/1_000, nil
}
