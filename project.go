package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/catalog"
	"github.com/minios-linux/lokaudit/config"
	"github.com/minios-linux/lokaudit/i18n"
	"github.com/minios-linux/lokaudit/localeset"
)

// project is one configured locale directory with its reference loaded.
type project struct {
	cfg     *config.File
	dir     string
	set     *localeset.Set
	ref     *audit.Reference
	lengths audit.LengthRules
}

// loadConfig reads .lokaudit.yaml from --root. Errors are fatal.
func loadConfig() (*config.File, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, fatal(err)
	}
	return cfg, nil
}

// loadProject resolves the locale directory, loads every document and
// builds the reference. A missing or unreadable reference is fatal.
func loadProject() (*project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir := localesDir
	if dir == "" {
		dir = cfg.ResolveLocalesDir(rootDir)
	}

	set, err := loadSet(cfg, dir)
	if err != nil {
		return nil, err
	}
	refDoc, err := set.Reference(cfg.SourceLang)
	if err != nil {
		return nil, fatal(err)
	}
	ref, err := newReference(cfg, refDoc)
	if err != nil {
		return nil, err
	}

	p := &project{
		cfg:     cfg,
		dir:     dir,
		set:     set,
		ref:     ref,
		lengths: cfg.LengthRules(),
	}
	logInfo(i18n.T("Reference %s: %d strings in %s"), ref.Lang(), ref.Flat().Len(), dir)
	logInfo(i18n.T("Found %d languages: %s"), len(set.Langs()), strings.Join(set.Langs(), ", "))
	return p, nil
}

func loadSet(cfg *config.File, dir string) (*localeset.Set, error) {
	set, err := localeset.Load(dir, localeset.Options{
		SourceLang: cfg.SourceLang,
		Languages:  cfg.Languages,
		Exclude:    excludedStems(cfg),
	})
	if err != nil {
		return nil, fatal(err)
	}
	return set, nil
}

func newReference(cfg *config.File, doc *catalog.Tree) (*audit.Reference, error) {
	rules, err := cfg.AuditRules()
	if err != nil {
		return nil, fatal(err)
	}
	if doc.IsEmpty() {
		logWarning(i18n.T("Reference document %s is empty"), cfg.SourceLang)
	}
	return audit.NewReference(cfg.SourceLang, doc, rules), nil
}

// excludedStems are file stems in the locale directory that are not
// languages: configured names plus the tool's own output documents.
func excludedStems(cfg *config.File) []string {
	stems := append([]string{}, cfg.ExcludeFiles...)
	for _, name := range []string{cfg.StatsFile, cfg.ComparisonFile} {
		base := filepath.Base(name)
		stems = append(stems, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return lo.Uniq(stems)
}

func (p *project) run() *audit.Result {
	return audit.Run(p.ref, p.set.Docs, audit.RunOptions{
		Failures: p.set.Failures,
		Absent:   p.set.Absent,
		Lengths:  p.lengths,
	})
}

// outputPath resolves an output file name: explicit paths are used as
// given, configured names land in the locale directory.
func (p *project) outputPath(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(p.dir, configured)
}

// reportLoadProblems logs every language that could not be analyzed.
func reportLoadProblems(set *localeset.Set) {
	langs := lo.Keys(set.Failures)
	sort.Strings(langs)
	for _, lang := range langs {
		logError(i18n.T("%s: cannot read document: %v"), lang, set.Failures[lang])
	}
	for _, lang := range set.Absent {
		logWarning(i18n.T("%s: no document found, counted as 0%% complete"), lang)
	}
}

// ---------------------------------------------------------------------------
// Text helpers
// ---------------------------------------------------------------------------

// preview shortens s to n runes for one-line display.
func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	if pad := n - utf8.RuneCountInString(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// printLimited prints at most limit items, then a count of the rest.
func printLimited(items []string, limit int) {
	for _, item := range lo.Slice(items, 0, limit) {
		fmt.Fprintf(color.Error, "    %s\n", item)
	}
	if rest := len(items) - limit; rest > 0 {
		fmt.Fprintf(color.Error, "    "+i18n.T("... and %d more")+"\n", rest)
	}
}
