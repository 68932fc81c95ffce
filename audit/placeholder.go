package audit

import (
	"regexp"
	"sort"

	"github.com/minios-linux/lokaudit/catalog"
)

// placeholderPattern matches {name} where name is letters, digits or '_'.
var placeholderPattern = regexp.MustCompile(`\{([\p{L}\p{N}_]+)\}`)

// PlaceholderSet is the set of token names found in one string.
type PlaceholderSet map[string]struct{}

// Placeholders extracts the token names embedded in s.
func Placeholders(s string) PlaceholderSet {
	set := make(PlaceholderSet)
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		set[m[1]] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s PlaceholderSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Minus returns the sorted names in s that are not in other.
func (s PlaceholderSet) Minus(other PlaceholderSet) []string {
	var out []string
	for n := range s {
		if !other.Has(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same names.
func (s PlaceholderSet) Equal(other PlaceholderSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// PlaceholderIssue records a key whose translation does not carry the same
// placeholders as the reference.
type PlaceholderIssue struct {
	Key     string   `json:"key"`
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// CheckPlaceholders compares placeholder sets for every key present as
// text in both catalogs, in reference order.
func (r *Reference) CheckPlaceholders(cand *catalog.Flat) []PlaceholderIssue {
	var issues []PlaceholderIssue
	for _, e := range r.flat.Entries() {
		value, ok := cand.Get(e.Path)
		if !ok {
			continue
		}
		want := Placeholders(e.Value)
		got := Placeholders(value)
		if want.Equal(got) {
			continue
		}
		issues = append(issues, PlaceholderIssue{
			Key:     e.Path,
			Missing: want.Minus(got),
			Extra:   got.Minus(want),
		})
	}
	return issues
}
