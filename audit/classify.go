// Package audit implements the translation completeness checks: detecting
// values that are still English, excluding keys that never need
// translation, comparing placeholders, and computing per-language
// statistics against a reference catalog.
package audit

import (
	"regexp"
	"strings"
)

// MatchKind describes how a candidate value matched the reference value.
type MatchKind string

const (
	MatchNone                      MatchKind = ""
	MatchExact                     MatchKind = "exact"
	MatchCaseInsensitive           MatchKind = "case-insensitive"
	MatchNormalizedExact           MatchKind = "normalized-exact"
	MatchNormalizedCaseInsensitive MatchKind = "normalized-case-insensitive"
)

func (k MatchKind) String() string {
	if k == MatchNone {
		return "none"
	}
	return string(k)
}

// bracedPattern matches any {...} run, including malformed token names.
var bracedPattern = regexp.MustCompile(`\{[^}]+\}`)

// Normalize strips every braced token and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(bracedPattern.ReplaceAllString(s, ""))
}

// Classify decides whether candidate is indistinguishable from an
// untranslated copy of reference. Checks run in order: exact,
// case-insensitive, then both again on placeholder-stripped text. A value
// that normalizes to nothing never produces a normalized match.
func Classify(reference, candidate string) (bool, MatchKind) {
	if reference == candidate {
		return true, MatchExact
	}
	if strings.ToLower(reference) == strings.ToLower(candidate) {
		return true, MatchCaseInsensitive
	}

	refNorm := Normalize(reference)
	candNorm := Normalize(candidate)
	if refNorm == "" || candNorm == "" {
		return false, MatchNone
	}
	if refNorm == candNorm {
		return true, MatchNormalizedExact
	}
	if strings.ToLower(refNorm) == strings.ToLower(candNorm) {
		return true, MatchNormalizedCaseInsensitive
	}
	return false, MatchNone
}
