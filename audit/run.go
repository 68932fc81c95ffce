package audit

import (
	"sort"

	"github.com/minios-linux/lokaudit/catalog"
)

// Report collects every finding for one target language.
type Report struct {
	Lang         string             `json:"lang"`
	Stats        Stats              `json:"stats"`
	Validation   Validation         `json:"validation"`
	Placeholders []PlaceholderIssue `json:"placeholders,omitempty"`
	Lengths      []LengthIssue      `json:"lengths,omitempty"`
}

// Clean reports whether the language is fully complete with consistent
// placeholders and no over-long values.
func (rep Report) Clean() bool {
	return rep.Validation.FullyComplete() && len(rep.Placeholders) == 0 && len(rep.Lengths) == 0
}

// Audit runs every check of one language document against the reference.
func (r *Reference) Audit(lang string, doc *catalog.Tree, lengths LengthRules) Report {
	cand := catalog.Flatten(doc)
	return Report{
		Lang:         lang,
		Stats:        r.Stats(cand),
		Validation:   r.Validate(cand),
		Placeholders: r.CheckPlaceholders(cand),
		Lengths:      lengths.Check(cand),
	}
}

// RunOptions carries the loader's view of the language set into Run.
type RunOptions struct {
	// Failures are languages whose documents could not be decoded.
	Failures map[string]error
	// Absent are expected languages with no document at all.
	Absent []string
	// Lengths are the length limits applied to every language.
	Lengths LengthRules
}

// Result is the outcome of one analysis run.
type Result struct {
	Reference string
	// ReferenceLengths are length issues in the reference itself.
	ReferenceLengths []LengthIssue
	// Reports holds one entry per analyzed language, sorted by code.
	Reports  []Report
	Failures map[string]error
	Absent   []string

	referenceStats Stats
	referenceKeys  int
}

// Run audits every document against ref. Documents are independent: a
// failure recorded for one language never affects the others. A document
// keyed by the reference language is not compared with itself.
func Run(ref *Reference, docs map[string]*catalog.Tree, opts RunOptions) *Result {
	res := &Result{
		Reference:        ref.Lang(),
		ReferenceLengths: opts.Lengths.Check(ref.Flat()),
		Failures:         make(map[string]error, len(opts.Failures)),
		referenceStats:   ref.SelfStats(),
		referenceKeys:    ref.Flat().KeyCount(),
	}
	for lang, err := range opts.Failures {
		res.Failures[lang] = err
	}
	res.Absent = append(res.Absent, opts.Absent...)
	sort.Strings(res.Absent)

	langs := make([]string, 0, len(docs))
	for lang := range docs {
		if lang == ref.Lang() {
			continue
		}
		if _, failed := res.Failures[lang]; failed {
			continue
		}
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		res.Reports = append(res.Reports, ref.Audit(lang, docs[lang], opts.Lengths))
	}
	return res
}

// Stats returns the results document: statistics keyed by language code,
// including the reference language. Failed and absent languages are left
// out.
func (res *Result) Stats() map[string]Stats {
	out := make(map[string]Stats, len(res.Reports)+1)
	out[res.Reference] = res.referenceStats
	for _, rep := range res.Reports {
		out[rep.Lang] = rep.Stats
	}
	return out
}

// Complete returns the complete set: every fully complete language
// mapped to the reference key count.
func (res *Result) Complete() map[string]int {
	complete := make(map[string]int)
	for _, rep := range res.Reports {
		if rep.Validation.FullyComplete() {
			complete[rep.Lang] = res.referenceKeys
		}
	}
	return complete
}

// FailedLangs returns the languages that could not be analyzed, sorted.
func (res *Result) FailedLangs() []string {
	langs := make([]string, 0, len(res.Failures))
	for lang := range res.Failures {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// AllClear reports whether every expected language was analyzed and came
// back clean.
func (res *Result) AllClear() bool {
	if len(res.Failures) > 0 || len(res.Absent) > 0 || len(res.ReferenceLengths) > 0 {
		return false
	}
	for _, rep := range res.Reports {
		if !rep.Clean() {
			return false
		}
	}
	return true
}
