package catalog

// Entry is a single text leaf addressed by its dotted key path.
type Entry struct {
	// Path is the dot-joined key path (e.g. "nav.home").
	Path string
	// Value is the leaf text.
	Value string
}

// Flat is the flattened form of one document.
//
// It keeps two views: the text entries (used for English-match and
// placeholder checks) and the full key list, which also contains opaque
// leaves and is used for missing/extra key detection.
type Flat struct {
	entries []Entry
	index   map[string]int
	keys    []string
	keySet  map[string]struct{}
}

// Flatten walks a tree and returns its flat catalog.
func Flatten(t *Tree) *Flat {
	return FlattenUnder(t, "")
}

// FlattenUnder flattens t with every key path prefixed by prefix.
func FlattenUnder(t *Tree, prefix string) *Flat {
	f := &Flat{
		index:  make(map[string]int),
		keySet: make(map[string]struct{}),
	}
	f.collect(t, prefix)
	return f
}

func (f *Flat) collect(t *Tree, prefix string) {
	for _, k := range t.Keys() {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch v := t.values[k].(type) {
		case *Tree:
			f.collect(v, path)
		case string:
			f.addKey(path)
			if idx, ok := f.index[path]; ok {
				f.entries[idx].Value = v
				continue
			}
			f.index[path] = len(f.entries)
			f.entries = append(f.entries, Entry{Path: path, Value: v})
		default:
			f.addKey(path)
		}
	}
}

func (f *Flat) addKey(path string) {
	if _, ok := f.keySet[path]; ok {
		return
	}
	f.keySet[path] = struct{}{}
	f.keys = append(f.keys, path)
}

// Entries returns the text leaves in document order.
func (f *Flat) Entries() []Entry {
	return f.entries
}

// Keys returns every leaf key path (text and opaque) in document order.
func (f *Flat) Keys() []string {
	return f.keys
}

// Get returns the text value for path. Opaque leaves report false.
func (f *Flat) Get(path string) (string, bool) {
	idx, ok := f.index[path]
	if !ok {
		return "", false
	}
	return f.entries[idx].Value, true
}

// HasKey reports whether path names any leaf, text or opaque.
func (f *Flat) HasKey(path string) bool {
	_, ok := f.keySet[path]
	return ok
}

// Len returns the number of text entries.
func (f *Flat) Len() int {
	return len(f.entries)
}

// KeyCount returns the number of leaf key paths.
func (f *Flat) KeyCount() int {
	return len(f.keys)
}

