// Package localeset discovers and loads a directory of translation
// documents, one file per language code (fr.json, pt-BR.yaml, ...).
//
// Loading never stops at a bad document: decode failures are recorded per
// language so the remaining languages can still be analyzed.
package localeset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/minios-linux/lokaudit/catalog"
)

// ErrNotFound is returned when a required document does not exist.
var ErrNotFound = errors.New("document not found")

// Options controls which files Load considers.
type Options struct {
	// SourceLang is the reference language. It is always loaded.
	SourceLang string
	// Languages restricts loading to these codes. Codes without a
	// document are recorded in Set.Absent. Empty means every document.
	Languages []string
	// Exclude are file stems that are not languages (e.g. a results
	// document written next to the translations).
	Exclude []string
}

// Set is a loaded locale directory.
type Set struct {
	Dir string
	// Docs holds every successfully decoded document by language code.
	Docs map[string]*catalog.Tree
	// Paths maps language code to the file it was read from.
	Paths map[string]string
	// Failures holds decode errors by language code.
	Failures map[string]error
	// Absent lists expected languages with no document, sorted.
	Absent []string
}

// Load reads every translation document in dir. It fails only when the
// directory itself cannot be read.
func Load(dir string, opts Options) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading locale directory %s: %w", dir, err)
	}

	s := &Set{
		Dir:      dir,
		Docs:     make(map[string]*catalog.Tree),
		Paths:    make(map[string]string),
		Failures: make(map[string]error),
	}

	wanted := func(lang string) bool {
		if len(opts.Languages) == 0 || lang == opts.SourceLang {
			return true
		}
		return lo.Contains(opts.Languages, lang)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if !lo.Contains(catalog.Extensions, ext) {
			continue
		}
		lang := strings.TrimSuffix(name, ext)
		if lang == "" || lo.Contains(opts.Exclude, lang) || !wanted(lang) {
			continue
		}
		// fr.json and fr.yaml side by side: the first extension wins.
		if prev, ok := s.Paths[lang]; ok && extRank(filepath.Ext(prev)) <= extRank(ext) {
			continue
		}

		path := filepath.Join(dir, name)
		s.Paths[lang] = path
		delete(s.Failures, lang)
		delete(s.Docs, lang)

		doc, err := catalog.ParseFile(path)
		if err != nil {
			s.Failures[lang] = err
			continue
		}
		s.Docs[lang] = doc
	}

	for _, lang := range opts.Languages {
		if _, ok := s.Paths[lang]; !ok {
			s.Absent = append(s.Absent, lang)
		}
	}
	s.Absent = lo.Uniq(s.Absent)
	sort.Strings(s.Absent)
	return s, nil
}

func extRank(ext string) int {
	return lo.IndexOf(catalog.Extensions, ext)
}

// Reference returns the document for lang. A reference that is missing or
// could not be decoded is an error; callers treat it as fatal.
func (s *Set) Reference(lang string) (*catalog.Tree, error) {
	if err, ok := s.Failures[lang]; ok {
		return nil, fmt.Errorf("reference %q: %w", lang, err)
	}
	doc, ok := s.Docs[lang]
	if !ok {
		return nil, fmt.Errorf("reference %q in %s: %w", lang, s.Dir, ErrNotFound)
	}
	return doc, nil
}

// Langs returns every language with a document, decoded or not, sorted.
func (s *Set) Langs() []string {
	langs := lo.Keys(s.Paths)
	sort.Strings(langs)
	return langs
}

// LoadFile reads a single document, mapping a missing file to ErrNotFound.
func LoadFile(path string) (*catalog.Tree, error) {
	doc, err := catalog.ParseFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return doc, err
}
