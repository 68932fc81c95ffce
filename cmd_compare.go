package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/minios-linux/lokaudit/catalog"
	"github.com/minios-linux/lokaudit/i18n"
	"github.com/minios-linux/lokaudit/localeset"
	"github.com/minios-linux/lokaudit/merge"
	"github.com/minios-linux/lokaudit/report"
)

// ---------------------------------------------------------------------------
// compare (complete languages across two branches)
// ---------------------------------------------------------------------------

func newCompareCmd() *cobra.Command {
	var (
		output       string
		previewMerge bool
	)

	cmd := &cobra.Command{
		Use:   "compare <stable-dir> <in-progress-dir>",
		Short: i18n.T("Compare complete languages across two branches"),
		Long: `Compare fully complete languages between a stable and an in-progress
copy of the locale directory.

  ready to promote          complete in progress, not yet in stable
  complete on both          complete in both
  complete on stable only   complete in stable but not in progress (regression)

The reference is read from the stable directory, falling back to the
in-progress one. The comparison document is written to comparison_file
from .lokaudit.yaml (default completeness_results.json in --root) unless
-o is given.

With --preview-merge, also list the languages that would be complete after
deep-merging each in-progress document into its stable counterpart.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(args[0], args[1], output, previewMerge)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Comparison document path")
	cmd.Flags().BoolVar(&previewMerge, "preview-merge", false, "Also report completeness after merging in-progress into stable")

	return cmd
}

func runCompare(stableDir, inProgressDir, output string, previewMerge bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stable, err := loadSet(cfg, stableDir)
	if err != nil {
		return err
	}
	inProgress, err := loadSet(cfg, inProgressDir)
	if err != nil {
		return err
	}
	reportLoadProblems(stable)
	reportLoadProblems(inProgress)

	refDir := stableDir
	refDoc, err := stable.Reference(cfg.SourceLang)
	if err != nil {
		logWarning(i18n.T("No usable reference in %s, using %s"), stableDir, inProgressDir)
		refDir = inProgressDir
		refDoc, err = inProgress.Reference(cfg.SourceLang)
		if err != nil {
			return fatal(fmt.Errorf("no reference document in either branch: %w", err))
		}
	}
	ref, err := newReference(cfg, refDoc)
	if err != nil {
		return err
	}
	logInfo(i18n.T("Reference %s: %d strings in %s"), ref.Lang(), ref.Flat().Len(), refDir)

	c := merge.Compare(merge.CompleteSet(ref, stable.Docs), merge.CompleteSet(ref, inProgress.Docs))

	printCompleteSet(fmt.Sprintf(i18n.T("Complete on stable (%s)"), stableDir), c.StableComplete)
	printCompleteSet(fmt.Sprintf(i18n.T("Complete in progress (%s)"), inProgressDir), c.InProgressComplete)
	printLangList(i18n.T("Ready to promote"), c.ReadyToPromote, colorSuccess)
	printLangList(i18n.T("Complete on both"), c.CompleteOnBoth, colorInfo)
	if c.HasAnomaly() {
		logWarning(i18n.T("%d languages are complete on stable but not in progress: %v"),
			len(c.CompleteOnStableOnly), c.CompleteOnStableOnly)
	}

	if previewMerge {
		merged := merge.CompleteSet(ref, merge.All(stable.Docs, inProgress.Docs))
		gained := lo.Without(lo.Keys(merged), lo.Union(lo.Keys(c.StableComplete), lo.Keys(c.InProgressComplete))...)
		sort.Strings(gained)
		printCompleteSet(i18n.T("Complete after merge"), merged)
		if len(gained) > 0 {
			logInfo(i18n.T("Merging completes %d more languages: %v"), len(gained), gained)
		}
	}

	path := output
	if path == "" {
		path = cfg.ComparisonFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
	}
	if err := report.WriteComparison(path, c); err != nil {
		return fatal(err)
	}
	logSuccess(i18n.T("Comparison written to %s"), path)
	return nil
}

func printLangList(title string, langs []string, c *color.Color) {
	fmt.Fprintf(color.Error, "%s: ", colorHeading.Sprint(title))
	if len(langs) == 0 {
		fmt.Fprintln(color.Error, i18n.T("(none)"))
		return
	}
	for i, lang := range langs {
		if i > 0 {
			fmt.Fprint(color.Error, ", ")
		}
		fmt.Fprint(color.Error, c.Sprint(lang))
	}
	fmt.Fprintln(color.Error)
}

// ---------------------------------------------------------------------------
// merge (deep merge of one language's documents)
// ---------------------------------------------------------------------------

func newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <stable-file> <in-progress-file>",
		Short: i18n.T("Deep-merge an in-progress document into a stable one"),
		Long: `Deep-merge two documents of the same language. Nested objects merge
recursively; for any other key the in-progress value wins. Stable key order
is kept and new keys are appended.

Either file may be missing, in which case the other is used as is. The
merged document is written as JSON to stdout, or to -o.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runMerge(cmd *cobra.Command, stablePath, inProgressPath, output string) error {
	stable, err := loadOptional(stablePath)
	if err != nil {
		return fatal(err)
	}
	inProgress, err := loadOptional(inProgressPath)
	if err != nil {
		return fatal(err)
	}
	if stable == nil && inProgress == nil {
		return fatal(fmt.Errorf("neither %s nor %s exists: %w", stablePath, inProgressPath, localeset.ErrNotFound))
	}

	merged := merge.Deep(stable, inProgress)
	if stable != nil && catalog.Equal(merged, stable) {
		logInfo(i18n.T("%s adds nothing to %s"), inProgressPath, stablePath)
	}
	data, err := merged.MarshalJSON()
	if err != nil {
		return fatal(fmt.Errorf("encoding merged document: %w", err))
	}
	data = append(data, '\n')

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fatal(fmt.Errorf("writing %s: %w", output, err))
	}
	logSuccess(i18n.T("Merged %d keys into %s"), catalog.Flatten(merged).KeyCount(), output)
	return nil
}

// loadOptional reads a document, returning nil when the file is missing.
func loadOptional(path string) (*catalog.Tree, error) {
	doc, err := localeset.LoadFile(path)
	if errors.Is(err, localeset.ErrNotFound) {
		logWarning(i18n.T("%s does not exist, using the other side as is"), path)
		return nil, nil
	}
	return doc, err
}
