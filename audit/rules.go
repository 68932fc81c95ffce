package audit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// Default exclusion thresholds.
const (
	// DefaultMaxExcludedLength: trimmed reference values this short or
	// shorter are never expected to differ between languages.
	DefaultMaxExcludedLength = 1
	// DefaultTechnicalPattern matches enum-like tokens such as USER_ID.
	DefaultTechnicalPattern = `^[A-Z_]+$`
)

// emojiBlocks covers Misc Symbols and Pictographs through Supplemental
// Symbols and Pictographs, Misc Symbols, and Dingbats.
var emojiBlocks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1},
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1F9FF, Stride: 1},
	},
}

// Rules decides which keys are left out of English-match and completeness
// accounting. Every rule looks only at the key path and the reference
// value, so the decision is the same for all target languages.
type Rules struct {
	// MaxExcludedLength excludes trimmed reference values of at most this
	// many characters.
	MaxExcludedLength int
	// TechnicalPattern excludes trimmed reference values it matches.
	TechnicalPattern *regexp.Regexp
	// IgnoreKeys excludes key paths matching any of the globs.
	IgnoreKeys []glob.Glob
}

// DefaultRules returns the stock exclusion heuristics.
func DefaultRules() Rules {
	return Rules{
		MaxExcludedLength: DefaultMaxExcludedLength,
		TechnicalPattern:  regexp.MustCompile(DefaultTechnicalPattern),
	}
}

// NewRules compiles exclusion rules. An empty pattern disables the
// technical-token rule. Key globs use '.' as the separator, so "meta.*"
// matches "meta.name" but not "meta.a.b".
func NewRules(maxExcludedLength int, technicalPattern string, ignoreKeys []string) (Rules, error) {
	r := Rules{MaxExcludedLength: maxExcludedLength}
	if technicalPattern != "" {
		re, err := regexp.Compile(technicalPattern)
		if err != nil {
			return Rules{}, fmt.Errorf("technical pattern %q: %w", technicalPattern, err)
		}
		r.TechnicalPattern = re
	}
	for _, pattern := range ignoreKeys {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return Rules{}, fmt.Errorf("ignore key %q: %w", pattern, err)
		}
		r.IgnoreKeys = append(r.IgnoreKeys, g)
	}
	return r, nil
}

// ShouldExclude reports whether key must be skipped regardless of what a
// translation holds.
func (r Rules) ShouldExclude(key, referenceValue string) bool {
	for _, g := range r.IgnoreKeys {
		if g.Match(key) {
			return true
		}
	}

	trimmed := strings.TrimSpace(referenceValue)
	if utf8.RuneCountInString(trimmed) <= r.MaxExcludedLength {
		return true
	}
	if IsEmojiOnly(referenceValue) {
		return true
	}
	if r.TechnicalPattern != nil && r.TechnicalPattern.MatchString(trimmed) {
		return true
	}
	return false
}

// IsEmojiOnly reports whether s is non-blank and holds nothing but emoji
// and whitespace.
func IsEmojiOnly(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.Is(emojiBlocks, r) {
			continue
		}
		return false
	}
	return true
}
