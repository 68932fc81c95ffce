package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParseJSON_PreservesOrder(t *testing.T) {
	data := []byte(`{
	"zeta": "Z",
	"alpha": {"b": "B", "a": "A"},
	"mid": "M"
}`)
	tree, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if got, want := tree.Keys(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	v, _ := tree.Get("alpha")
	sub, ok := v.(*Tree)
	if !ok {
		t.Fatalf("alpha is %T, want *Tree", v)
	}
	if got, want := sub.Keys(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("alpha.Keys() = %v, want %v", got, want)
	}
}

func TestParseJSON_OpaqueLeaves(t *testing.T) {
	data := []byte(`{"count": 3, "on": true, "none": null, "list": ["a", {"b": "c"}], "label": "Hi"}`)
	tree, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	f := Flatten(tree)
	if f.Len() != 1 {
		t.Fatalf("text entries = %d, want 1: %v", f.Len(), f.Entries())
	}
	if f.KeyCount() != 5 {
		t.Fatalf("keys = %d, want 5: %v", f.KeyCount(), f.Keys())
	}
	if _, ok := f.Get("count"); ok {
		t.Fatal("opaque leaf count should not be a text entry")
	}
	if !f.HasKey("count") {
		t.Fatal("opaque leaf count should still be a key")
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	for name, data := range map[string]string{
		"syntax":   `{"a": "b",}`,
		"array":    `["a"]`,
		"scalar":   `"a"`,
		"trailing": `{"a": "b"} {"c": "d"}`,
		"empty":    ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(data))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("ParseJSON(%q) error = %v, want ErrMalformed", data, err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`greeting: Hello
nav:
  home: Home
  about: About
count: 42
quoted: "42"
empty:
`)
	tree, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML error: %v", err)
	}
	f := Flatten(tree)
	want := []Entry{
		{Path: "greeting", Value: "Hello"},
		{Path: "nav.home", Value: "Home"},
		{Path: "nav.about", Value: "About"},
		{Path: "quoted", Value: "42"},
	}
	if !reflect.DeepEqual(f.Entries(), want) {
		t.Fatalf("Entries() = %v, want %v", f.Entries(), want)
	}
	if !f.HasKey("count") || !f.HasKey("empty") {
		t.Fatalf("opaque keys missing: %v", f.Keys())
	}
}

func TestParseYAML_EmptyAndMalformed(t *testing.T) {
	tree, err := ParseYAML([]byte(""))
	if err != nil {
		t.Fatalf("ParseYAML(empty) error: %v", err)
	}
	if !tree.IsEmpty() {
		t.Fatalf("ParseYAML(empty) = %d keys, want 0", tree.Len())
	}

	if _, err := ParseYAML([]byte("- a\n- b\n")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseYAML(sequence) error = %v, want ErrMalformed", err)
	}
	if _, err := ParseYAML([]byte("a: [b\n")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseYAML(syntax) error = %v, want ErrMalformed", err)
	}
}

func TestParseYAML_Alias(t *testing.T) {
	data := []byte(`base: &base
  ok: OK
copy: *base
`)
	tree, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML error: %v", err)
	}
	f := Flatten(tree)
	if v, ok := f.Get("copy.ok"); !ok || v != "OK" {
		t.Fatalf("copy.ok = %q, %v; want OK", v, ok)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "fr.json")
	yamlPath := filepath.Join(dir, "de.yml")
	if err := os.WriteFile(jsonPath, []byte(`{"a": "Salut"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("a: Hallo\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for path, want := range map[string]string{jsonPath: "Salut", yamlPath: "Hallo"} {
		tree, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile(%s) error: %v", path, err)
		}
		if got, _ := Flatten(tree).Get("a"); got != want {
			t.Fatalf("ParseFile(%s) a = %q, want %q", path, got, want)
		}
	}

	_, err := ParseFile(filepath.Join(dir, "missing.json"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ParseFile(missing) error = %v, want not-exist", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err = ParseFile(bad)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseFile(bad) error = %v, want ErrMalformed", err)
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Fatalf("error %q should name the file", err)
	}
}

// ---------------------------------------------------------------------------
// Flatten
// ---------------------------------------------------------------------------

func TestFlatten_Empty(t *testing.T) {
	f := Flatten(New())
	if f.Len() != 0 || f.KeyCount() != 0 {
		t.Fatalf("Flatten(empty) = %d entries, %d keys; want 0, 0", f.Len(), f.KeyCount())
	}
	if f := Flatten(nil); f.Len() != 0 {
		t.Fatalf("Flatten(nil) = %d entries, want 0", f.Len())
	}
}

func TestFlatten_Bijection(t *testing.T) {
	tree := New()
	nav := New()
	nav.Set("home", "Home")
	deep := New()
	deep.Set("leaf", "Leaf")
	nav.Set("deep", deep)
	tree.Set("title", "Title")
	tree.Set("nav", nav)
	tree.Set("hollow", New())

	f := Flatten(tree)
	want := []Entry{
		{Path: "title", Value: "Title"},
		{Path: "nav.home", Value: "Home"},
		{Path: "nav.deep.leaf", Value: "Leaf"},
	}
	if !reflect.DeepEqual(f.Entries(), want) {
		t.Fatalf("Entries() = %v, want %v", f.Entries(), want)
	}
	if got, want := f.Keys(), []string{"title", "nav.home", "nav.deep.leaf"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestFlattenUnder(t *testing.T) {
	tree := New()
	tree.Set("a", "A")
	f := FlattenUnder(tree, "root")
	if v, ok := f.Get("root.a"); !ok || v != "A" {
		t.Fatalf("root.a = %q, %v; want A", v, ok)
	}
}

// ---------------------------------------------------------------------------
// Tree helpers
// ---------------------------------------------------------------------------

func TestCloneIsIndependent(t *testing.T) {
	tree := New()
	sub := New()
	sub.Set("x", "1")
	tree.Set("sub", sub)

	c := tree.Clone()
	if !Equal(tree, c) {
		t.Fatal("clone should equal original")
	}
	sub.Set("x", "2")
	v, _ := c.Get("sub")
	if got, _ := v.(*Tree).Get("x"); got != "1" {
		t.Fatalf("clone changed with original: x = %v", got)
	}
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	data := []byte(`{"b": "Bé <x>", "a": {"n": 1, "list": [1, "two"]}, "e": {}}`)
	tree, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	out, err := tree.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if !strings.Contains(string(out), `"Bé <x>"`) {
		t.Fatalf("MarshalJSON escaped text: %s", out)
	}
	back, err := ParseJSON(out)
	if err != nil {
		t.Fatalf("ParseJSON(marshaled) error: %v\n%s", err, out)
	}
	if !Equal(tree, back) {
		t.Fatalf("round trip mismatch:\n%s", out)
	}
}
