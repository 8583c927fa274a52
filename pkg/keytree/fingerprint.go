package keytree

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a 64-bit digest of the tree's contents. Two trees
// holding equal data produce equal fingerprints regardless of the map
// iteration order they were built from. Leaf values are canonicalized
// through their default Go formatting.
func (t *Tree) Fingerprint() uint64 {
	flat := t.Flatten()
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	digest := xxhash.New()
	for _, p := range paths {
		fmt.Fprintf(digest, "%s\x00%v\x00", p, flat[p])
	}
	return digest.Sum64()
}

// Equal reports whether both trees hold structurally equal data.
// Separators do not participate in equality.
func (t *Tree) Equal(other *Tree) bool {
	if other == nil {
		return false
	}
	return reflect.DeepEqual(t.root, other.root)
}
