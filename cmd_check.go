package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/i18n"
	"github.com/minios-linux/lokaudit/langmeta"
	"github.com/minios-linux/lokaudit/report"
)

// Checks selectable with --only.
const (
	checkKeys         = "keys"
	checkEnglish      = "english"
	checkPlaceholders = "placeholders"
	checkLengths      = "lengths"
)

// How many findings of each kind are listed per language.
const (
	englishListLimit     = 10
	placeholderListLimit = 5
	lengthListLimit      = 10
	missingListLimit     = 10
	previewWidth         = 50
)

// checkSelection is the --only value; empty selects every check.
type checkSelection string

func (s checkSelection) has(kind string) bool {
	return s == "" || string(s) == kind
}

// ---------------------------------------------------------------------------
// check (read-only validation of every language)
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	only := newEnumFlag("", checkKeys, checkEnglish, checkPlaceholders, checkLengths)
	format := newFormatFlag()

	cmd := &cobra.Command{
		Use:   "check",
		Short: i18n.T("Validate every language against the reference"),
		Long: `Validate every translation document against the reference language.

Reports missing, extra and non-text keys, values that still match the
reference text (exactly, ignoring case, or ignoring {placeholders}),
placeholder mismatches and values over the configured length limits.

Exits with status 1 when anything is found, 2 when the reference or the
locale directory cannot be read, and 3 when a translation document is
malformed. A malformed document is reported apart from incomplete ones
and takes precedence over other findings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), checkSelection(only.String()), format.String())
		},
	}

	cmd.Flags().Var(only, "only", "Run a single check: keys, english, placeholders, lengths")
	cmd.Flags().Var(format, "format", "Output format: text, json")

	return cmd
}

func runCheck(w io.Writer, sel checkSelection, format string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	res := p.run()
	failed := hasFindings(res, sel)

	if format == formatJSON {
		if err := report.Encode(w, newCheckDocument(res, !failed)); err != nil {
			return fatal(err)
		}
	} else {
		printCheck(res, sel)
	}

	switch {
	case len(res.Failures) > 0:
		return errUnreadable
	case failed:
		return errFindings
	}
	return nil
}

// hasFindings reports whether the selected checks found anything. With
// every check selected this is the negation of Result.AllClear. Load
// failures and absent languages always count.
func hasFindings(res *audit.Result, sel checkSelection) bool {
	if sel == "" {
		return !res.AllClear()
	}
	if len(res.Failures) > 0 || len(res.Absent) > 0 {
		return true
	}
	if sel.has(checkLengths) && len(res.ReferenceLengths) > 0 {
		return true
	}
	for _, rep := range res.Reports {
		if len(reportFindings(rep, sel)) > 0 {
			return true
		}
	}
	return false
}

// reportFindings returns the selected check kinds with findings for rep.
func reportFindings(rep audit.Report, sel checkSelection) []string {
	var kinds []string
	v := rep.Validation
	if sel.has(checkKeys) && (!v.KeysValid() || len(v.NonTextKeys) > 0) {
		kinds = append(kinds, checkKeys)
	}
	if sel.has(checkEnglish) && len(v.EnglishMatches) > 0 {
		kinds = append(kinds, checkEnglish)
	}
	if sel.has(checkPlaceholders) && len(rep.Placeholders) > 0 {
		kinds = append(kinds, checkPlaceholders)
	}
	if sel.has(checkLengths) && len(rep.Lengths) > 0 {
		kinds = append(kinds, checkLengths)
	}
	return kinds
}

// checkDocument is the --format json output of check.
type checkDocument struct {
	Reference        string              `json:"reference"`
	Languages        []audit.Report      `json:"languages"`
	ReferenceLengths []audit.LengthIssue `json:"referenceLengths,omitempty"`
	Failures         map[string]string   `json:"failures,omitempty"`
	Absent           []string            `json:"absent,omitempty"`
	AllClear         bool                `json:"allClear"`
}

func newCheckDocument(res *audit.Result, allClear bool) checkDocument {
	doc := checkDocument{
		Reference:        res.Reference,
		Languages:        res.Reports,
		ReferenceLengths: res.ReferenceLengths,
		Absent:           res.Absent,
		AllClear:         allClear,
	}
	if doc.Languages == nil {
		doc.Languages = []audit.Report{}
	}
	if len(res.Failures) > 0 {
		doc.Failures = make(map[string]string, len(res.Failures))
		for lang, err := range res.Failures {
			doc.Failures[lang] = err.Error()
		}
	}
	return doc
}

func printCheck(res *audit.Result, sel checkSelection) {
	total := len(res.Reports) + len(res.Failures) + len(res.Absent)
	heading(fmt.Sprintf(i18n.T("Checking %d languages against %s"), total, res.Reference))

	for _, lang := range res.FailedLangs() {
		logError(i18n.T("%s: cannot read document: %v"), lang, res.Failures[lang])
	}
	for _, lang := range res.Absent {
		logWarning(i18n.T("%s: no document found, counted as 0%% complete"), lang)
	}
	if sel.has(checkLengths) && len(res.ReferenceLengths) > 0 {
		logWarning(i18n.T("%s: %d values exceed length limits"), res.Reference, len(res.ReferenceLengths))
		printLimited(lengthLines(res.ReferenceLengths), lengthListLimit)
	}

	withFindings := 0
	for _, rep := range res.Reports {
		if printReport(rep, sel) {
			withFindings++
		}
	}

	fmt.Fprintln(color.Error)
	switch {
	case !hasFindings(res, sel):
		logSuccess(i18n.N("%d language passed", "All %d languages passed", len(res.Reports)), len(res.Reports))
	case withFindings > 0:
		logError(i18n.T("%d of %d languages have findings"), withFindings, len(res.Reports))
	default:
		logError("%s", i18n.T("Some languages could not be checked"))
	}
}

// printReport prints one language's findings and reports whether there
// were any.
func printReport(rep audit.Report, sel checkSelection) bool {
	meta := langmeta.Resolve(rep.Lang)
	label := strings.TrimSpace(meta.Flag + " " + rep.Lang)
	kinds := reportFindings(rep, sel)
	if len(kinds) == 0 {
		logSuccess(i18n.T("%s: OK (%s%% complete)"), label, rep.Stats.Completeness)
		return false
	}

	v := rep.Validation
	for _, kind := range kinds {
		switch kind {
		case checkKeys:
			if len(v.MissingKeys) > 0 {
				logError(i18n.T("%s: %d missing keys"), label, len(v.MissingKeys))
				printLimited(v.MissingKeys, missingListLimit)
			}
			if len(v.ExtraKeys) > 0 {
				logError(i18n.T("%s: %d extra keys"), label, len(v.ExtraKeys))
				printLimited(v.ExtraKeys, missingListLimit)
			}
			if len(v.NonTextKeys) > 0 {
				logError(i18n.T("%s: %d keys hold non-text values"), label, len(v.NonTextKeys))
				printLimited(v.NonTextKeys, missingListLimit)
			}
		case checkEnglish:
			logWarning(i18n.T("%s: %d values identical to the reference"), label, len(v.EnglishMatches))
			lines := make([]string, 0, len(v.EnglishMatches))
			for _, m := range v.EnglishMatches {
				lines = append(lines, fmt.Sprintf("%s: %q (%s)", m.Key, preview(m.Value, previewWidth), m.Kind))
			}
			printLimited(lines, englishListLimit)
		case checkPlaceholders:
			logError(i18n.T("%s: %d placeholder mismatches"), label, len(rep.Placeholders))
			lines := make([]string, 0, len(rep.Placeholders))
			for _, issue := range rep.Placeholders {
				lines = append(lines, placeholderLine(issue))
			}
			printLimited(lines, placeholderListLimit)
		case checkLengths:
			logWarning(i18n.T("%s: %d values exceed length limits"), label, len(rep.Lengths))
			printLimited(lengthLines(rep.Lengths), lengthListLimit)
		}
	}
	return true
}

func placeholderLine(issue audit.PlaceholderIssue) string {
	var parts []string
	if len(issue.Missing) > 0 {
		parts = append(parts, i18n.T("missing")+" "+braced(issue.Missing))
	}
	if len(issue.Extra) > 0 {
		parts = append(parts, i18n.T("extra")+" "+braced(issue.Extra))
	}
	return issue.Key + ": " + strings.Join(parts, "; ")
}

func braced(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "{" + n + "}"
	}
	return strings.Join(out, ", ")
}

func lengthLines(issues []audit.LengthIssue) []string {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("%s: %d > %d", issue.Key, issue.Length, issue.Limit))
	}
	return lines
}
