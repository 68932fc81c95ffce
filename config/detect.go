package config

import (
	"os"
	"path/filepath"

	"github.com/minios-linux/lokaudit/catalog"
)

// localeDirCandidates are tried in order when no locales_dir is configured.
var localeDirCandidates = []string{
	"locales",
	filepath.Join("public", "locales"),
	filepath.Join("public", "translations"),
	filepath.Join("src", "locales"),
	"translations",
	"i18n",
	".",
}

// ResolveLocalesDir returns the absolute locale directory for the project.
// A configured locales_dir wins; otherwise the first candidate holding a
// source language document is used. Falls back to the root itself.
func (f *File) ResolveLocalesDir(rootDir string) string {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}
	if f.LocalesDir != "" {
		if filepath.IsAbs(f.LocalesDir) {
			return f.LocalesDir
		}
		return filepath.Join(absRoot, f.LocalesDir)
	}

	for _, candidate := range localeDirCandidates {
		dir := filepath.Join(absRoot, candidate)
		if hasSourceDocument(dir, f.SourceLang) {
			return dir
		}
	}
	return absRoot
}

func hasSourceDocument(dir, lang string) bool {
	for _, ext := range catalog.Extensions {
		if info, err := os.Stat(filepath.Join(dir, lang+ext)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
