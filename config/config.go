// Package config implements .lokaudit.yaml configuration file support.
//
// When a .lokaudit.yaml file exists in the project root, lokaudit reads the
// locale directory, reference language, output files and heuristics from
// it. Without one, defaults apply and the locale directory is
// auto-detected.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/lokaudit/audit"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .lokaudit.yaml structure.
type File struct {
	// SourceLang is the reference language code (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// LocalesDir is the directory holding one document per language,
	// relative to the project root. Auto-detected when empty.
	LocalesDir string `yaml:"locales_dir,omitempty"`
	// Languages restricts the audit to these codes. Expected languages
	// without a document are reported as absent. Empty means every
	// document found.
	Languages []string `yaml:"languages,omitempty"`
	// ExcludeFiles are file stems in LocalesDir that are not languages.
	ExcludeFiles []string `yaml:"exclude_files,omitempty"`
	// StatsFile is the results document written by "stats".
	StatsFile string `yaml:"stats_file,omitempty"`
	// ComparisonFile is the document written by "compare".
	ComparisonFile string `yaml:"comparison_file,omitempty"`

	Rules   RulesConfig   `yaml:"rules,omitempty"`
	Lengths LengthsConfig `yaml:"lengths,omitempty"`
}

// RulesConfig holds the key exclusion heuristics.
type RulesConfig struct {
	// MaxExcludedLength excludes reference values this short (default 1).
	MaxExcludedLength *int `yaml:"max_excluded_length,omitempty"`
	// TechnicalPattern excludes enum-like reference values
	// (default "^[A-Z_]+$"). Set to "" to disable.
	TechnicalPattern *string `yaml:"technical_pattern,omitempty"`
	// IgnoreKeys are key-path globs excluded from English checks.
	IgnoreKeys []string `yaml:"ignore_keys,omitempty"`
}

// LengthsConfig holds the length limits. Zero disables a limit.
type LengthsConfig struct {
	Max          *int   `yaml:"max,omitempty"`
	TitleMax     *int   `yaml:"title_max,omitempty"`
	TitleKeyword string `yaml:"title_keyword,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".lokaudit.yaml"

// Default output file names.
const (
	DefaultStatsFile      = "translation_stats.json"
	DefaultComparisonFile = "completeness_results.json"
)

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

// Load loads and validates .lokaudit.yaml from rootDir.
// Returns Default() if no file exists.
func Load(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.applyDefaults()

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.SourceLang == "" {
		f.SourceLang = audit.DefaultReferenceLang
	}
	if f.StatsFile == "" {
		f.StatsFile = DefaultStatsFile
	}
	if f.ComparisonFile == "" {
		f.ComparisonFile = DefaultComparisonFile
	}
	if f.ExcludeFiles == nil {
		f.ExcludeFiles = []string{"translation_stats"}
	}
	if f.Lengths.TitleKeyword == "" {
		f.Lengths.TitleKeyword = audit.DefaultTitleKeyword
	}
}

func (f *File) validate() error {
	if n := f.Rules.MaxExcludedLength; n != nil && *n < 0 {
		return fmt.Errorf("rules.max_excluded_length must not be negative, got %d", *n)
	}
	if n := f.Lengths.Max; n != nil && *n < 0 {
		return fmt.Errorf("lengths.max must not be negative, got %d", *n)
	}
	if n := f.Lengths.TitleMax; n != nil && *n < 0 {
		return fmt.Errorf("lengths.title_max must not be negative, got %d", *n)
	}
	for _, lang := range f.Languages {
		if lang == f.SourceLang {
			return fmt.Errorf("languages must not include the source language %q", lang)
		}
	}
	if _, err := f.AuditRules(); err != nil {
		return err
	}
	return nil
}

// AuditRules compiles the exclusion rules.
func (f *File) AuditRules() (audit.Rules, error) {
	if f.Rules.MaxExcludedLength == nil && f.Rules.TechnicalPattern == nil && len(f.Rules.IgnoreKeys) == 0 {
		return audit.DefaultRules(), nil
	}
	maxLen := audit.DefaultMaxExcludedLength
	if f.Rules.MaxExcludedLength != nil {
		maxLen = *f.Rules.MaxExcludedLength
	}
	pattern := audit.DefaultTechnicalPattern
	if f.Rules.TechnicalPattern != nil {
		pattern = *f.Rules.TechnicalPattern
	}
	return audit.NewRules(maxLen, pattern, f.Rules.IgnoreKeys)
}

// LengthRules returns the configured length limits.
func (f *File) LengthRules() audit.LengthRules {
	lr := audit.DefaultLengthRules()
	if f.Lengths.Max != nil {
		lr.Max = *f.Lengths.Max
	}
	if f.Lengths.TitleMax != nil {
		lr.TitleMax = *f.Lengths.TitleMax
	}
	lr.TitleKeyword = f.Lengths.TitleKeyword
	return lr
}
