package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/i18n"
	"github.com/minios-linux/lokaudit/langmeta"
	"github.com/minios-linux/lokaudit/report"
)

// ---------------------------------------------------------------------------
// stats (completeness percentages + results document)
// ---------------------------------------------------------------------------

func newStatsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: i18n.T("Compute completeness and write the results document"),
		Long: `Compute per-language completeness against the reference language.

A value counts as translated when it no longer matches the reference
text. Missing values count against the language; extra keys do not.
Technical values (single characters, emoji, UPPER_CASE tokens) are skipped.

The results document is written to stats_file from .lokaudit.yaml
(default translation_stats.json in the locale directory) unless -o is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Results document path")

	return cmd
}

func runStats(output string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	res := p.run()

	printStatsTable(res)

	path := p.outputPath(output, p.cfg.StatsFile)
	if err := report.WriteStats(path, res.Stats()); err != nil {
		return fatal(err)
	}
	logSuccess(i18n.T("Results written to %s"), path)
	return nil
}

func printStatsTable(res *audit.Result) {
	heading(i18n.T("Translation Statistics"))

	rows := make([]audit.Report, 0, len(res.Reports))
	rows = append(rows, res.Reports...)
	langs := lo.Map(rows, func(rep audit.Report, _ int) string { return rep.Lang })
	langs = append(langs, res.Reference)
	langs = append(langs, res.Absent...)
	langs = append(langs, res.FailedLangs()...)
	nameWidth := nameColumnWidth(langs)

	fmt.Fprintf(color.Error, "\n%s %-11s %-9s %-8s %s\n",
		padRight(i18n.T("Language"), nameWidth), i18n.T("Translated"), i18n.T("Untrans."), i18n.T("Missing"), i18n.T("Percent"))
	fmt.Fprintln(color.Error, strings.Repeat("─", nameWidth+42))

	printStatsRow(res.Reference, res.Stats()[res.Reference], nameWidth)
	for _, rep := range rows {
		printStatsRow(rep.Lang, rep.Stats, nameWidth)
	}
	for _, lang := range res.Absent {
		fmt.Fprintf(color.Error, "%s %-11s %-9s %-8s %s\n", padRight(langLabel(lang), nameWidth), "-", "-", "-", colorWarning.Sprint(i18n.T("missing")))
	}
	for _, lang := range res.FailedLangs() {
		fmt.Fprintf(color.Error, "%s %-11s %-9s %-8s %s\n", padRight(langLabel(lang), nameWidth), "-", "-", "-", colorError.Sprint(i18n.T("error")))
	}

	fmt.Fprintln(color.Error, strings.Repeat("─", nameWidth+42))
	fmt.Fprintf(color.Error, i18n.T("Reference strings (%s): %d")+"\n\n", res.Reference, res.Stats()[res.Reference].Total)
}

func printStatsRow(lang string, s audit.Stats, nameWidth int) {
	fmt.Fprintf(color.Error, "%s %-11d %-9d %-8d %s\n",
		padRight(langLabel(lang), nameWidth), s.Translated, s.Untranslated, s.Missing, percentColor(s.Completeness).Sprint(s.Completeness+"%"))
}

// langLabel is "flag code (native name)" for table rows.
func langLabel(lang string) string {
	meta := langmeta.Resolve(lang)
	label := lang
	if meta.Name != "" && meta.Name != lang {
		label += " (" + meta.Name + ")"
	}
	if meta.Flag != "" {
		label = meta.Flag + " " + label
	}
	return label
}

func nameColumnWidth(langs []string) int {
	width := len([]rune(i18n.T("Language")))
	for _, lang := range langs {
		if n := len([]rune(langLabel(lang))); n > width {
			width = n
		}
	}
	return width
}

// percentColor is green when complete, yellow from half way, red below.
func percentColor(completeness string) *color.Color {
	pct, err := strconv.ParseFloat(completeness, 64)
	switch {
	case err != nil || pct < 50:
		return colorError
	case pct < 100:
		return colorWarning
	default:
		return colorSuccess
	}
}

// ---------------------------------------------------------------------------
// complete (fully complete languages)
// ---------------------------------------------------------------------------

func newCompleteCmd() *cobra.Command {
	format := newFormatFlag()

	cmd := &cobra.Command{
		Use:   "complete",
		Short: i18n.T("List fully complete languages"),
		Long: `List languages that are fully complete: the same key set as the
reference, no non-text values where the reference has text, and no value
still matching the reference text. Unlike stats, extra keys disqualify.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd.OutOrStdout(), format.String())
		},
	}

	cmd.Flags().Var(format, "format", "Output format: text, json")

	return cmd
}

// completeDocument is the --format json output of complete.
type completeDocument struct {
	Reference string         `json:"reference"`
	Keys      int            `json:"keys"`
	Complete  map[string]int `json:"complete"`
}

func runComplete(w io.Writer, format string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	reportLoadProblems(p.set)

	res := p.run()
	complete := res.Complete()

	if format == formatJSON {
		doc := completeDocument{Reference: p.ref.Lang(), Keys: p.ref.Flat().KeyCount(), Complete: complete}
		if err := report.Encode(w, doc); err != nil {
			return fatal(err)
		}
		return nil
	}

	printCompleteSet(i18n.T("Fully complete languages"), complete)
	fmt.Fprintf(color.Error, i18n.T("%d of %d languages fully complete")+"\n",
		len(complete), len(res.Reports))
	return nil
}

func printCompleteSet(title string, complete map[string]int) {
	heading(title)
	langs := lo.Keys(complete)
	sort.Strings(langs)
	if len(langs) == 0 {
		fmt.Fprintf(color.Error, "  %s\n\n", i18n.T("(none)"))
		return
	}
	for _, lang := range langs {
		fmt.Fprintf(color.Error, "  %s  %s\n", colorSuccess.Sprint("✓"), fmt.Sprintf(i18n.T("%s: %d keys"), langLabel(lang), complete[lang]))
	}
	fmt.Fprintln(color.Error)
}
