// Package langmeta provides language display metadata (native names and
// emoji flags) for the CLI tables.
package langmeta

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Tag  string
	Name string
	Flag string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code, accepting
// variants like pt_BR and pt-br. Unknown codes pass through with no flag.
func Resolve(lang string) Meta {
	tag, err := language.Parse(canonicalize(lang))
	if err != nil {
		return Meta{Tag: lang, Name: lang}
	}

	m := Meta{Tag: tag.String(), Name: nativeName(tag)}
	if m.Name == "" {
		m.Name = lang
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = flagFromRegion(region.String())
	}
	return m
}

// nativeName is the language's name in itself, with the first word
// capitalized as a table label.
func nativeName(tag language.Tag) string {
	name := display.Self.Name(tag)
	if name == "" {
		return ""
	}
	first, rest, _ := strings.Cut(name, " ")
	first = cases.Title(tag, cases.NoLower).String(first)
	if rest == "" {
		return first
	}
	return first + " " + rest
}

// flagFromRegion maps a two-letter region code to its regional indicator
// pair. Anything else has no flag.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

