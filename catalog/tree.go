// Package catalog implements the translation document model used by the
// auditor: an insertion-ordered tree of named nodes, JSON and YAML readers
// that preserve document order, and flattening into dotted key paths.
//
// A document looks like:
//
//	{
//	    "greeting": "Hello {name}",
//	    "nav": {
//	        "home": "Home",
//	        "about": "About"
//	    }
//	}
//
// Interior nodes are *Tree values. Leaves holding text are string values.
// Any other leaf (numbers, booleans, null, arrays) is kept as an opaque
// value: it counts as a key but never as a translatable string.
package catalog

import "reflect"

// Tree is an insertion-ordered mapping from node names to values.
type Tree struct {
	keys   []string
	values map[string]any
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Set stores v under key. A key that already exists keeps its position.
func (t *Tree) Set(key string, v any) {
	if t.values == nil {
		t.values = make(map[string]any)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the node names in document order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return t.keys
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// IsEmpty reports whether the tree is nil or has no children.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// Clone returns a deep copy of the tree. Opaque leaves are shared.
func (t *Tree) Clone() *Tree {
	out := New()
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		v := t.values[k]
		if sub, ok := v.(*Tree); ok {
			v = sub.Clone()
		}
		out.Set(k, v)
	}
	return out
}

// Equal reports whether two trees hold the same keys in the same order
// with equal text leaves and recursively equal interior nodes. Opaque
// leaves are compared with reflect.DeepEqual.
func Equal(a, b *Tree) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, k := range a.Keys() {
		if b.keys[i] != k {
			return false
		}
		av, bv := a.values[k], b.values[k]
		at, aIsTree := av.(*Tree)
		bt, bIsTree := bv.(*Tree)
		switch {
		case aIsTree || bIsTree:
			if !aIsTree || !bIsTree || !Equal(at, bt) {
				return false
			}
		default:
			if !reflect.DeepEqual(av, bv) {
				return false
			}
		}
	}
	return true
}
