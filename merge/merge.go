// Package merge reconciles two branches of the same translation set:
// deep-merging a stable document with its in-progress counterpart, and
// comparing which languages are fully complete on each branch.
package merge

import (
	"github.com/minios-linux/lokaudit/catalog"
)

// Deep merges inProgress over stable and returns a new tree.
// - If either side is nil or empty, a copy of the other is returned.
// - Keys holding interior nodes on both sides are merged recursively.
// - Any other key takes the in-progress value, including type mismatches.
// - Stable key order is kept; keys new in inProgress are appended.
// Neither input is modified.
func Deep(stable, inProgress *catalog.Tree) *catalog.Tree {
	if stable.IsEmpty() {
		return inProgress.Clone()
	}
	if inProgress.IsEmpty() {
		return stable.Clone()
	}

	result := stable.Clone()
	for _, key := range inProgress.Keys() {
		newVal, _ := inProgress.Get(key)
		oldVal, _ := result.Get(key)

		newTree, newIsTree := newVal.(*catalog.Tree)
		oldTree, oldIsTree := oldVal.(*catalog.Tree)
		switch {
		case newIsTree && oldIsTree:
			result.Set(key, Deep(oldTree, newTree))
		case newIsTree:
			result.Set(key, newTree.Clone())
		default:
			result.Set(key, newVal)
		}
	}
	return result
}

// All deep-merges every language present on either branch.
func All(stable, inProgress map[string]*catalog.Tree) map[string]*catalog.Tree {
	out := make(map[string]*catalog.Tree, len(stable)+len(inProgress))
	for lang, doc := range stable {
		out[lang] = Deep(doc, inProgress[lang])
	}
	for lang, doc := range inProgress {
		if _, ok := out[lang]; !ok {
			out[lang] = doc.Clone()
		}
	}
	return out
}
