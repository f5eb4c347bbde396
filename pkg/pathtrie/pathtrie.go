// Package pathtrie indexes native-form file paths by segment and resolves a
// query path to the stored path it is equivalent to.
package pathtrie

import (
	"path/filepath"
	"strings"
)

// Trie is a path-segment trie over inserted keys.
//
// Exact string equality is the equivalence baseline: FindEquivalent returns
// the stored key rather than the query so relaxed matching strategies can be
// introduced later without changing the query API. Lookups are deterministic
// regardless of insertion order.
type Trie struct {
	root node
	size int
}

type node struct {
	children map[string]*node

	// stored is the full inserted path terminating at this node, empty if
	// no inserted path ends here.
	stored string
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{}
}

// Insert adds a path to the index. Inserting the same path again is a no-op.
func (t *Trie) Insert(path string) {
	n := &t.root
	for _, seg := range segments(path) {
		child, ok := n.children[seg]
		if !ok {
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child = &node{}
			n.children[seg] = child
		}
		n = child
	}
	if n.stored == "" {
		n.stored = path
		t.size++
	}
}

// FindEquivalent resolves query to the stored path it matches. The second
// return value reports whether a match exists; a path that is only a prefix
// of stored paths does not match.
func (t *Trie) FindEquivalent(query string) (string, bool) {
	n := &t.root
	for _, seg := range segments(query) {
		child, ok := n.children[seg]
		if !ok {
			return "", false
		}
		n = child
	}
	if n.stored == "" {
		return "", false
	}
	return n.stored, true
}

// Len reports the number of distinct stored paths.
func (t *Trie) Len() int {
	return t.size
}

func segments(path string) []string {
	return strings.Split(path, string(filepath.Separator))
}
