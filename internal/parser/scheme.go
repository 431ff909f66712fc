package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ncruces/go-strftime"
)

// Scheme describes the shape of one log format: how to find the
// date-time, host, service, and message of an entry, how entries are
// delimited, and how the timestamp text is to be interpreted.
type Scheme struct {
	DateTime        string `mapstructure:"date_time"`
	Host            string `mapstructure:"host"`
	Service         string `mapstructure:"service"`
	Message         string `mapstructure:"message"`
	WholeLine       string `mapstructure:"whole_line"`
	Delimiter       string `mapstructure:"delimiter"`
	TimestampFormat string `mapstructure:"timestamp_format"`
}

// CompiledScheme is the immutable result of compiling a Scheme. It is
// built once at startup and reused for every candidate.
type CompiledScheme struct {
	line   *regexp.Regexp
	delim  *regexp.Regexp
	layout string
	format string
}

// placeholder order mandated for the whole-line template.
var placeholderOrder = []string{"d", "h", "s", "m"}

// Compile expands the whole-line template, compiles the resulting
// pattern and the delimiter pattern, and converts the strftime timestamp
// format to a Go layout. Any failure is a ConfigError.
func Compile(s Scheme) (*CompiledScheme, error) {
	subs := map[string]string{
		"d": s.DateTime,
		"h": s.Host,
		"s": s.Service,
		"m": s.Message,
	}

	expanded, seen, err := expandTemplate(s.WholeLine, subs)
	if err != nil {
		return nil, err
	}
	if len(seen) != len(placeholderOrder) {
		return nil, &ConfigError{Reason: fmt.Sprintf("template %q must reference {d} {h} {s} {m} exactly once each, got %v", s.WholeLine, seen)}
	}
	for i, name := range placeholderOrder {
		if seen[i] != name {
			return nil, &ConfigError{Reason: fmt.Sprintf("template %q references placeholders in order %v, want [d h s m]", s.WholeLine, seen)}
		}
	}

	line, err := regexp.Compile(expanded)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid expanded line pattern %q", expanded), Err: err}
	}
	// Each placeholder contributes one capture group. Sub-patterns with
	// their own capture groups would shift the field positions; they must
	// use (?:...) instead.
	if line.NumSubexp() != len(placeholderOrder) {
		return nil, &ConfigError{Reason: fmt.Sprintf("expanded pattern has %d capture groups, want exactly %d (use (?:...) inside sub-patterns)", line.NumSubexp(), len(placeholderOrder))}
	}

	delim, err := regexp.Compile(s.Delimiter)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid delimiter pattern %q", s.Delimiter), Err: err}
	}

	layout, err := strftime.Layout(s.TimestampFormat)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported timestamp format %q", s.TimestampFormat), Err: err}
	}

	return &CompiledScheme{
		line:   line,
		delim:  delim,
		layout: layout,
		format: s.TimestampFormat,
	}, nil
}

// Delimiter returns the compiled delimiter matcher.
func (c *CompiledScheme) Delimiter() *regexp.Regexp { return c.delim }

// Format returns the configured strftime timestamp format.
func (c *CompiledScheme) Format() string { return c.format }

// expandTemplate substitutes {d} {h} {s} {m} with their sub-patterns,
// each wrapped in a capture group. "{{" and "}}" escape literal braces.
// Returns the expanded source and the placeholder names in the order
// they appeared.
func expandTemplate(template string, subs map[string]string) (string, []string, error) {
	var out strings.Builder
	var seen []string

	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", nil, &ConfigError{Reason: fmt.Sprintf("template %q has an unclosed '{'", template)}
			}
			name := template[i+1 : i+end]
			sub, ok := subs[name]
			if !ok {
				return "", nil, &ConfigError{Reason: fmt.Sprintf("template %q references unknown placeholder {%s}", template, name)}
			}
			seen = append(seen, name)
			out.WriteByte('(')
			out.WriteString(sub)
			out.WriteByte(')')
			i += end
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", nil, &ConfigError{Reason: fmt.Sprintf("template %q has an unmatched '}'", template)}
		default:
			out.WriteByte(template[i])
		}
	}

	return out.String(), seen, nil
}
