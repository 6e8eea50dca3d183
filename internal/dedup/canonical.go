// Package dedup computes content fingerprints for inbound payloads and checks
// them against the persisted store, making provider-side webhook retries
// idempotent.
package dedup

import (
	"regexp"
	"strings"
)

var (
	spaceRuns     = regexp.MustCompile(`[^\S\n]+`)
	edgeSpace     = regexp.MustCompile(`[^\S\n]*\n[^\S\n]*`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// Canonicalize normalizes a body so that cosmetically different encodings of
// the same logical message compare equal: line endings become LF, runs of
// non-newline whitespace collapse to one space, runs of blank lines collapse
// to one, and leading/trailing whitespace is trimmed.
//
// The function is idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = edgeSpace.ReplaceAllString(s, "\n")
	s = blankLineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
