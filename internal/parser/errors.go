package parser

import "fmt"

// ConfigError reports a malformed scheme: a bad template, an invalid
// pattern, or an unusable timestamp format. Schemes are developer-authored
// static configuration, so a ConfigError is fatal at startup.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scheme config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scheme config: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports a candidate whose timestamp text does not fit the
// configured format. It is recoverable at single-record granularity and
// must never abort the surrounding batch.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
