package audit

import (
	"strings"
	"unicode/utf8"

	"github.com/minios-linux/lokaudit/catalog"
)

// Default length limits, matching Discord embed field value and title
// limits.
const (
	DefaultMaxLength    = 1024
	DefaultTitleMax     = 256
	DefaultTitleKeyword = "title"
)

// LengthRules flags values too long for the surface that displays them.
type LengthRules struct {
	// Max applies to every value. Zero disables the check.
	Max int
	// TitleMax applies to keys containing TitleKeyword.
	TitleMax int
	// TitleKeyword is matched case-insensitively against the key path.
	TitleKeyword string
}

// DefaultLengthRules returns the stock limits.
func DefaultLengthRules() LengthRules {
	return LengthRules{
		Max:          DefaultMaxLength,
		TitleMax:     DefaultTitleMax,
		TitleKeyword: DefaultTitleKeyword,
	}
}

// LengthIssue is a value that exceeds a limit.
type LengthIssue struct {
	Key    string `json:"key"`
	Length int    `json:"length"`
	Limit  int    `json:"limit"`
	Title  bool   `json:"title,omitempty"`
}

// Check returns every entry of f over its limit, in document order.
func (lr LengthRules) Check(f *catalog.Flat) []LengthIssue {
	keyword := strings.ToLower(lr.TitleKeyword)
	var issues []LengthIssue
	for _, e := range f.Entries() {
		n := utf8.RuneCountInString(e.Value)
		switch {
		case lr.Max > 0 && n > lr.Max:
			issues = append(issues, LengthIssue{Key: e.Path, Length: n, Limit: lr.Max})
		case lr.TitleMax > 0 && keyword != "" && n > lr.TitleMax &&
			strings.Contains(strings.ToLower(e.Path), keyword):
			issues = append(issues, LengthIssue{Key: e.Path, Length: n, Limit: lr.TitleMax, Title: true})
		}
	}
	return issues
}
