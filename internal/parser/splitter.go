package parser

import "regexp"

// Split segments text on matches of the delimiter pattern, keeping the
// delimiter text as its own element. The result alternates between
// non-empty spans and delimiter matches; a trailing remainder is
// appended as-is. Concatenating all elements reproduces the input
// exactly. With no match the whole text is returned as one element, and
// a leading match emits no empty first element.
func Split(delim *regexp.Regexp, text string) []string {
	var out []string
	last := 0
	for _, loc := range delim.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, text[last:loc[0]])
		}
		out = append(out, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// Candidates regroups the raw text into one candidate entry per
// delimiter occurrence: each delimiter match plus the span up to the
// next match. Because the delimiter is the timestamp pattern, this keeps
// message bodies that span multiple physical lines inside a single
// candidate. Text before the first match (if any) becomes its own
// candidate and is left to the unmatched policy.
func (c *CompiledScheme) Candidates(text string) []string {
	locs := c.delim.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var out []string
	if locs[0][0] > 0 {
		out = append(out, text[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out = append(out, text[loc[0]:end])
	}
	return out
}
