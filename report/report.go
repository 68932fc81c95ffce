// Package report persists analysis results as JSON documents.
//
// Both documents are written with two-space indentation, keep non-ASCII
// text as-is and replace any previous file completely.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/merge"
)

// Encode writes v as indented JSON followed by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteStats writes the results document: per-language statistics keyed
// by language code.
func WriteStats(path string, stats map[string]audit.Stats) error {
	return writeJSON(path, stats)
}

// WriteComparison writes the branch comparison document.
func WriteComparison(path string, c merge.Comparison) error {
	return writeJSON(path, c)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
