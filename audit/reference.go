package audit

import (
	"fmt"

	"github.com/minios-linux/lokaudit/catalog"
)

// DefaultReferenceLang is the canonical language all others are compared to.
const DefaultReferenceLang = "en"

// Reference is the per-run comparison context: the reference language's
// flat catalog and the exclusion rules. It is built once and passed to
// every check.
type Reference struct {
	lang  string
	flat  *catalog.Flat
	rules Rules
}

// NewReference flattens doc and binds it to the given rules.
func NewReference(lang string, doc *catalog.Tree, rules Rules) *Reference {
	return &Reference{
		lang:  lang,
		flat:  catalog.Flatten(doc),
		rules: rules,
	}
}

// Lang returns the reference language code.
func (r *Reference) Lang() string { return r.lang }

// Flat returns the reference flat catalog.
func (r *Reference) Flat() *catalog.Flat { return r.flat }

// ShouldExclude applies the exclusion rules to a reference key.
func (r *Reference) ShouldExclude(key string) bool {
	value, ok := r.flat.Get(key)
	if !ok {
		return false
	}
	return r.rules.ShouldExclude(key, value)
}

// ---------------------------------------------------------------------------
// Completeness percentage
// ---------------------------------------------------------------------------

// Stats is the per-language statistics record written to the results
// document.
type Stats struct {
	Total            int      `json:"total"`
	Translated       int      `json:"translated"`
	Missing          int      `json:"missing"`
	Untranslated     int      `json:"untranslated"`
	Completeness     string   `json:"completeness"`
	MissingKeys      []string `json:"missingKeys"`
	UntranslatedKeys []string `json:"untranslatedKeys"`
}

// Percent formats translated/total to one decimal place, "0.0" when total
// is zero.
func Percent(translated, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(translated)/float64(total)*100)
}

// Stats counts translated, untranslated and missing values of cand over
// the non-excluded reference keys. Extra keys in cand do not affect the
// result.
func (r *Reference) Stats(cand *catalog.Flat) Stats {
	s := Stats{
		MissingKeys:      []string{},
		UntranslatedKeys: []string{},
	}
	for _, e := range r.flat.Entries() {
		if r.rules.ShouldExclude(e.Path, e.Value) {
			continue
		}
		s.Total++

		value, ok := cand.Get(e.Path)
		if !ok {
			s.MissingKeys = append(s.MissingKeys, e.Path)
			continue
		}
		if match, _ := Classify(e.Value, value); match {
			s.Untranslated++
			s.UntranslatedKeys = append(s.UntranslatedKeys, e.Path)
		} else {
			s.Translated++
		}
	}
	s.Missing = len(s.MissingKeys)
	s.Completeness = Percent(s.Translated, s.Total)
	return s
}

// SelfStats is the reference language's own record: always complete,
// counting every text entry.
func (r *Reference) SelfStats() Stats {
	n := r.flat.Len()
	return Stats{
		Total:            n,
		Translated:       n,
		Completeness:     "100.0",
		MissingKeys:      []string{},
		UntranslatedKeys: []string{},
	}
}

// ---------------------------------------------------------------------------
// Full completeness
// ---------------------------------------------------------------------------

// EnglishMatch is a translation that still reads as the reference text.
type EnglishMatch struct {
	Key   string    `json:"key"`
	Value string    `json:"value"`
	Kind  MatchKind `json:"kind"`
}

// Validation holds the structural and English-match findings for one
// language.
type Validation struct {
	// MissingKeys are reference keys the candidate lacks.
	MissingKeys []string `json:"missingKeys"`
	// ExtraKeys are candidate keys the reference lacks.
	ExtraKeys []string `json:"extraKeys"`
	// NonTextKeys are reference text keys the candidate holds as
	// non-text values.
	NonTextKeys []string `json:"nonTextKeys"`
	// EnglishMatches are non-excluded keys whose value matches English.
	EnglishMatches []EnglishMatch `json:"englishMatches"`
}

// FullyComplete reports whether the language has no missing, extra,
// non-text or untranslated keys. Unlike the completeness percentage,
// extra keys disqualify.
func (v Validation) FullyComplete() bool {
	return len(v.MissingKeys) == 0 &&
		len(v.ExtraKeys) == 0 &&
		len(v.NonTextKeys) == 0 &&
		len(v.EnglishMatches) == 0
}

// KeysValid reports whether the key sets match exactly.
func (v Validation) KeysValid() bool {
	return len(v.MissingKeys) == 0 && len(v.ExtraKeys) == 0
}

// Validate compares cand against the full reference key set.
func (r *Reference) Validate(cand *catalog.Flat) Validation {
	var v Validation
	for _, k := range r.flat.Keys() {
		if !cand.HasKey(k) {
			v.MissingKeys = append(v.MissingKeys, k)
		}
	}
	for _, k := range cand.Keys() {
		if !r.flat.HasKey(k) {
			v.ExtraKeys = append(v.ExtraKeys, k)
		}
	}

	for _, e := range r.flat.Entries() {
		value, ok := cand.Get(e.Path)
		if !ok {
			if cand.HasKey(e.Path) {
				v.NonTextKeys = append(v.NonTextKeys, e.Path)
			}
			continue
		}
		if r.rules.ShouldExclude(e.Path, e.Value) {
			continue
		}
		if match, kind := Classify(e.Value, value); match {
			v.EnglishMatches = append(v.EnglishMatches, EnglishMatch{Key: e.Path, Value: value, Kind: kind})
		}
	}
	return v
}
