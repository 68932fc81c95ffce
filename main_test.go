package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/catalog"
	"github.com/minios-linux/lokaudit/config"
	"github.com/minios-linux/lokaudit/merge"
)

func writeLocales(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitClean},
		{name: "findings", err: errFindings, want: exitFindings},
		{name: "fatal", err: fatal(errors.New("boom")), want: exitFatal},
		{name: "unreadable", err: errUnreadable, want: exitUnreadable},
		{name: "plain error", err: errors.New("unknown flag"), want: exitFatal},
	}
	for _, tc := range tests {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("%s: exitCode() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestEnumFlag(t *testing.T) {
	f := newFormatFlag()
	if f.String() != formatText {
		t.Fatalf("default = %q, want %q", f.String(), formatText)
	}
	if err := f.Set(" JSON "); err != nil || f.String() != formatJSON {
		t.Fatalf("Set(JSON) = %v, value %q", err, f.String())
	}
	if err := f.Set("xml"); err == nil {
		t.Fatal("Set(xml) succeeded, want error")
	}
	if f.String() != formatJSON {
		t.Fatalf("rejected value changed flag to %q", f.String())
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short", 50); got != "short" {
		t.Fatalf("preview(short) = %q", got)
	}
	long := strings.Repeat("é", 60)
	if got := preview(long, 50); got != strings.Repeat("é", 50)+"..." {
		t.Fatalf("preview(long) = %q", got)
	}
	if got := preview("a\nb", 50); got != `a\nb` {
		t.Fatalf("preview(newline) = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("日本", 4); got != "日本  " {
		t.Fatalf("padRight() = %q", got)
	}
	if got := padRight("toolong", 3); got != "toolong" {
		t.Fatalf("padRight(toolong) = %q", got)
	}
}

func TestExcludedStems(t *testing.T) {
	cfg := config.Default()
	cfg.StatsFile = "out/translation_stats.json"
	got := excludedStems(cfg)
	want := []string{"translation_stats", "completeness_results"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("excludedStems() = %v, want %v", got, want)
	}
}

func TestReportFindings(t *testing.T) {
	rep := audit.Report{
		Lang: "fr",
		Validation: audit.Validation{
			EnglishMatches: []audit.EnglishMatch{{Key: "a", Value: "Hello", Kind: audit.MatchExact}},
		},
		Lengths: []audit.LengthIssue{{Key: "title", Length: 300, Limit: 256, Title: true}},
	}

	if got := reportFindings(rep, ""); !reflect.DeepEqual(got, []string{checkEnglish, checkLengths}) {
		t.Fatalf("reportFindings(all) = %v", got)
	}
	if got := reportFindings(rep, checkKeys); len(got) != 0 {
		t.Fatalf("reportFindings(keys) = %v, want none", got)
	}
	if got := reportFindings(rep, checkLengths); !reflect.DeepEqual(got, []string{checkLengths}) {
		t.Fatalf("reportFindings(lengths) = %v", got)
	}
}

func TestHasFindings_AllChecksFollowAllClear(t *testing.T) {
	ref := audit.NewReference("en", mustParse(t, `{"a": "Hello {name}", "b": "World"}`), audit.DefaultRules())
	tests := []struct {
		name string
		docs map[string]string
		opts audit.RunOptions
		want bool
	}{
		{name: "clean", docs: map[string]string{"fr": `{"a": "Salut {name}", "b": "Monde"}`}, want: false},
		{name: "untranslated", docs: map[string]string{"fr": `{"a": "Salut {name}", "b": "World"}`}, want: true},
		{name: "extra key", docs: map[string]string{"fr": `{"a": "Salut {name}", "b": "Monde", "c": "x"}`}, want: true},
		{name: "placeholder", docs: map[string]string{"fr": `{"a": "Salut {nom}", "b": "Monde"}`}, want: true},
		{name: "too long", docs: map[string]string{"fr": `{"a": "Salut {name}", "b": "Monde"}`},
			opts: audit.RunOptions{Lengths: audit.LengthRules{Max: 3}}, want: true},
		{name: "absent", docs: map[string]string{}, opts: audit.RunOptions{Absent: []string{"fr"}}, want: true},
		{name: "failed", docs: map[string]string{},
			opts: audit.RunOptions{Failures: map[string]error{"fr": errors.New("bad")}}, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			docs := make(map[string]*catalog.Tree, len(tc.docs))
			for lang, data := range tc.docs {
				docs[lang] = mustParse(t, data)
			}
			res := audit.Run(ref, docs, tc.opts)
			if got := hasFindings(res, ""); got != tc.want {
				t.Fatalf("hasFindings() = %v, want %v", got, tc.want)
			}
			if res.AllClear() == tc.want {
				t.Fatalf("AllClear() = %v, want %v", res.AllClear(), !tc.want)
			}
		})
	}
}

func mustParse(t *testing.T, data string) *catalog.Tree {
	t.Helper()
	tree, err := catalog.ParseJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseJSON(%q): %v", data, err)
	}
	return tree
}

func TestPlaceholderLine(t *testing.T) {
	got := placeholderLine(audit.PlaceholderIssue{Key: "greet", Missing: []string{"name"}, Extra: []string{"nom", "x"}})
	want := "greet: missing {name}; extra {nom}, {x}"
	if got != want {
		t.Fatalf("placeholderLine() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	writeLocales(t, filepath.Join(root, "locales"), map[string]string{
		"en.json": `{"greet": "Hello {name}", "ok": "OK", "nav": {"home": "Home"}}`,
		"fr.json": `{"greet": "Bonjour {name}", "ok": "OK", "nav": {"home": "Accueil"}}`,
		"de.json": `{"greet": "Hallo {nom}", "ok": "OK", "nav": {"home": "Home"}}`,
	})

	t.Run("findings exit 1", func(t *testing.T) {
		_, err := execute(t, "check", "--root", root)
		if got := exitCode(err); got != exitFindings {
			t.Fatalf("check exit = %d (%v), want %d", got, err, exitFindings)
		}
	})

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "check", "--root", root, "--format", "json", "--only", "placeholders")
		if got := exitCode(err); got != exitFindings {
			t.Fatalf("check exit = %d (%v), want %d", got, err, exitFindings)
		}
		var doc checkDocument
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("Unmarshal(%q): %v", out, err)
		}
		if doc.Reference != "en" || len(doc.Languages) != 2 || doc.AllClear {
			t.Fatalf("check document = %+v", doc)
		}
		if doc.Languages[0].Lang != "de" || len(doc.Languages[0].Placeholders) != 1 {
			t.Fatalf("de report = %+v, want one placeholder issue", doc.Languages[0])
		}
	})

	t.Run("clean language set exits 0", func(t *testing.T) {
		clean := t.TempDir()
		writeLocales(t, clean, map[string]string{
			"en.json": `{"a": "Hello"}`,
			"fr.json": `{"a": "Bonjour"}`,
		})
		if _, err := execute(t, "check", "--root", clean, "--dir", clean); err != nil {
			t.Fatalf("check error = %v, want nil", err)
		}
	})

	t.Run("malformed document exits 3", func(t *testing.T) {
		broken := t.TempDir()
		writeLocales(t, broken, map[string]string{
			"en.json": `{"a": "Hello"}`,
			"fr.json": `{"a": "Bonjour"}`,
			"de.json": `{"a": `,
		})
		_, err := execute(t, "check", "--root", broken, "--dir", broken)
		if got := exitCode(err); got != exitUnreadable {
			t.Fatalf("check exit = %d (%v), want %d", got, err, exitUnreadable)
		}
		_, err = execute(t, "check", "--root", broken, "--dir", broken, "--only", "english")
		if got := exitCode(err); got != exitUnreadable {
			t.Fatalf("check --only english exit = %d (%v), want %d", got, err, exitUnreadable)
		}
	})

	t.Run("missing reference is fatal", func(t *testing.T) {
		empty := t.TempDir()
		writeLocales(t, empty, map[string]string{"fr.json": `{"a": "Bonjour"}`})
		_, err := execute(t, "check", "--root", empty, "--dir", empty)
		if got := exitCode(err); got != exitFatal {
			t.Fatalf("check exit = %d (%v), want %d", got, err, exitFatal)
		}
	})
}

func TestStatsCommand(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "locales")
	writeLocales(t, dir, map[string]string{
		"en.json":                `{"a": "Hello", "b": "World", "c": "X"}`,
		"fr.json":                `{"a": "Bonjour", "b": "World"}`,
		"es.json":                `{"a": `,
		"translation_stats.json": `{}`,
	})

	if _, err := execute(t, "stats", "--root", root); err != nil {
		t.Fatalf("stats error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultStatsFile))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var stats map[string]audit.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := stats["es"]; ok {
		t.Fatal("malformed language should be left out of the results document")
	}
	if stats["en"].Completeness != "100.0" || stats["en"].Total != 3 {
		t.Fatalf("en stats = %+v", stats["en"])
	}
	fr := stats["fr"]
	if fr.Total != 2 || fr.Translated != 1 || fr.Untranslated != 1 || fr.Completeness != "50.0" {
		t.Fatalf("fr stats = %+v", fr)
	}
}

func TestCompleteCommand(t *testing.T) {
	dir := t.TempDir()
	writeLocales(t, dir, map[string]string{
		"en.json": `{"a": "Hello", "b": "OK"}`,
		"fr.json": `{"a": "Bonjour", "b": "OK"}`,
		"de.json": `{"a": "Hello", "b": "OK"}`,
	})

	out, err := execute(t, "complete", "--root", dir, "--dir", dir, "--format", "json")
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	var doc completeDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	if !reflect.DeepEqual(doc.Complete, map[string]int{"fr": 2}) || doc.Keys != 2 {
		t.Fatalf("complete document = %+v", doc)
	}
}

func TestCompareCommand(t *testing.T) {
	root := t.TempDir()
	stable := filepath.Join(root, "stable")
	inProgress := filepath.Join(root, "next")
	writeLocales(t, stable, map[string]string{
		"en.json": `{"a": "Hello", "b": "World"}`,
		"es.json": `{"a": "Hola", "b": "Mundo"}`,
		"fr.json": `{"a": "Bonjour", "b": "Monde"}`,
		"it.json": `{"a": "Ciao"}`,
	})
	writeLocales(t, inProgress, map[string]string{
		"fr.json": `{"a": "Bonjour", "b": "Monde"}`,
		"de.json": `{"a": "Hallo", "b": "Welt"}`,
		"it.json": `{"b": "Mondo"}`,
	})

	out := filepath.Join(root, "cmp.json")
	if _, err := execute(t, "compare", "--root", root, stable, inProgress, "-o", out, "--preview-merge"); err != nil {
		t.Fatalf("compare error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var c merge.Comparison
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(c.ReadyToPromote, []string{"de"}) ||
		!reflect.DeepEqual(c.CompleteOnBoth, []string{"fr"}) ||
		!reflect.DeepEqual(c.CompleteOnStableOnly, []string{"es"}) {
		t.Fatalf("comparison = %+v", c)
	}
}

func TestCompareCommand_ReferenceFallback(t *testing.T) {
	root := t.TempDir()
	stable := filepath.Join(root, "stable")
	inProgress := filepath.Join(root, "next")
	writeLocales(t, stable, map[string]string{"fr.json": `{"a": "Bonjour"}`})
	writeLocales(t, inProgress, map[string]string{"en.json": `{"a": "Hello"}`})

	out := filepath.Join(root, "cmp.json")
	if _, err := execute(t, "compare", "--root", root, stable, inProgress, "-o", out); err != nil {
		t.Fatalf("compare error: %v", err)
	}

	empty := filepath.Join(root, "empty")
	writeLocales(t, empty, nil)
	_, err := execute(t, "compare", "--root", root, stable, empty, "-o", out)
	if got := exitCode(err); got != exitFatal {
		t.Fatalf("compare without reference exit = %d (%v), want %d", got, err, exitFatal)
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	writeLocales(t, dir, map[string]string{
		"stable.json": `{"nav": {"home": "Home", "about": "About"}, "keep": "K"}`,
		"next.yaml":   "nav:\n  home: Accueil\nadded: A\n",
	})

	out, err := execute(t, "merge", filepath.Join(dir, "stable.json"), filepath.Join(dir, "next.yaml"))
	if err != nil {
		t.Fatalf("merge error: %v", err)
	}
	want := `{
  "nav": {
    "home": "Accueil",
    "about": "About"
  },
  "keep": "K",
  "added": "A"
}
`
	if out != want {
		t.Fatalf("merge output =\n%s\nwant\n%s", out, want)
	}

	t.Run("missing stable side", func(t *testing.T) {
		target := filepath.Join(dir, "merged.json")
		if _, err := execute(t, "merge", filepath.Join(dir, "absent.json"), filepath.Join(dir, "next.yaml"), "-o", target); err != nil {
			t.Fatalf("merge error: %v", err)
		}
		if _, err := os.Stat(target); err != nil {
			t.Fatalf("merged file not written: %v", err)
		}
	})

	t.Run("in-progress subset leaves stable unchanged", func(t *testing.T) {
		writeLocales(t, dir, map[string]string{"subset.json": `{"keep": "K"}`})
		out, err := execute(t, "merge", filepath.Join(dir, "stable.json"), filepath.Join(dir, "subset.json"))
		if err != nil {
			t.Fatalf("merge error: %v", err)
		}
		want := "{\n  \"nav\": {\n    \"home\": \"Home\",\n    \"about\": \"About\"\n  },\n  \"keep\": \"K\"\n}\n"
		if out != want {
			t.Fatalf("merge output =\n%s\nwant\n%s", out, want)
		}
	})

	t.Run("both missing is fatal", func(t *testing.T) {
		_, err := execute(t, "merge", filepath.Join(dir, "x.json"), filepath.Join(dir, "y.json"))
		if got := exitCode(err); got != exitFatal {
			t.Fatalf("merge exit = %d (%v), want %d", got, err, exitFatal)
		}
	})
}
