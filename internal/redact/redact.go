// Package redact masks Indian phone numbers and PAN identifiers in
// document text before it leaves the process (for example as LLM input).
package redact

import "regexp"

var (
	// Mobile numbers, optionally prefixed with +91/91. Standard-library
	// regexp has no lookaround, so digit-adjacency is checked manually in
	// maskPhones to avoid eating the tail of longer digit runs.
	phonePattern = regexp.MustCompile(`(?:\+?91[-\s]?)?[6-9][0-9]{9}`)

	panPattern = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
)

// Text masks phone numbers and PANs in s.
func Text(s string) string {
	return panPattern.ReplaceAllString(maskPhones(s), "[REDACTED_PAN]")
}

func maskPhones(s string) string {
	locs := phonePattern.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var out []byte
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > 0 && isDigit(s[start-1]) {
			continue
		}
		if end < len(s) && isDigit(s[end]) {
			continue
		}
		out = append(out, s[last:start]...)
		out = append(out, "[REDACTED_PHONE]"...)
		last = end
	}
	out = append(out, s[last:]...)
	return string(out)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
