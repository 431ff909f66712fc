package parser

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atikulmunna/weft/internal/model"
)

// UnmatchedPolicy decides what happens to a candidate that does not
// match the scheme, or whose timestamp does not parse.
type UnmatchedPolicy int

const (
	// PolicyDrop silently discards the candidate.
	PolicyDrop UnmatchedPolicy = iota
	// PolicyWarn discards the candidate and logs a warning.
	PolicyWarn
	// PolicyAppend attaches the candidate to the previous record's
	// message as a continuation (stack traces, wrapped lines). Falls
	// back to warning when there is no previous record.
	PolicyAppend
)

// ParsePolicy maps a configuration string to an UnmatchedPolicy.
func ParsePolicy(s string) (UnmatchedPolicy, error) {
	switch s {
	case "drop":
		return PolicyDrop, nil
	case "warn":
		return PolicyWarn, nil
	case "append":
		return PolicyAppend, nil
	}
	return PolicyDrop, fmt.Errorf("unknown unmatched policy %q (want drop, warn, or append)", s)
}

// Stats counts the outcome of one assembly pass.
type Stats struct {
	Parsed        int
	Dropped       int
	Continuations int
}

// Assemble splits raw text into candidates, extracts fields from each,
// and builds records from the ones that parse. Unmatched candidates go
// through the policy; a malformed entry never aborts the rest of the
// batch.
func (c *CompiledScheme) Assemble(text string, policy UnmatchedPolicy, log zerolog.Logger) ([]model.LogRecord, Stats) {
	var records []model.LogRecord
	var stats Stats

	for _, candidate := range c.Candidates(text) {
		fields, ok := c.Extract(candidate)
		if !ok {
			c.unmatched(candidate, "no match for line pattern", policy, log, &records, &stats)
			continue
		}

		ts, err := c.ParseTimestamp(fields.DateTime)
		if err != nil {
			c.unmatched(candidate, err.Error(), policy, log, &records, &stats)
			continue
		}

		records = append(records, model.LogRecord{
			Timestamp: ts,
			Hostname:  fields.Host,
			Service:   fields.Service,
			Message:   fields.Message,
		})
		stats.Parsed++
	}

	return records, stats
}

func (c *CompiledScheme) unmatched(candidate, reason string, policy UnmatchedPolicy, log zerolog.Logger, records *[]model.LogRecord, stats *Stats) {
	if policy == PolicyAppend && len(*records) > 0 {
		last := &(*records)[len(*records)-1]
		last.Message += "\n" + candidate
		stats.Continuations++
		return
	}
	if policy != PolicyDrop {
		log.Warn().Str("reason", reason).Str("candidate", truncate(candidate, 120)).Msg("dropping unparsed candidate")
	}
	stats.Dropped++
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
