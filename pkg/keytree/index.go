package keytree

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// pathIndex holds every addressable path of a tree in a patricia trie.
// Exact membership and prefix enumeration run against the trie, so a
// Has check costs one trie descent regardless of tree shape.
type pathIndex struct {
	trie  *patricia.Trie
	count int
}

func newPathIndex(root map[string]any, sep string) *pathIndex {
	ix := &pathIndex{trie: patricia.NewTrie()}
	ix.insertPaths(root, "", sep, 1)
	return ix
}

func (ix *pathIndex) insertPaths(node map[string]any, prefix, sep string, depth int) {
	for k, v := range node {
		path := k
		if prefix != "" {
			path = prefix + sep + k
		}
		ix.trie.Insert(patricia.Prefix(path), depth)
		ix.count++
		if m, ok := v.(map[string]any); ok {
			ix.insertPaths(m, path, sep, depth+1)
		}
	}
}

// has reports exact membership; inserted paths only, never prefixes of them.
func (ix *pathIndex) has(path string) bool {
	return ix.trie.Get(patricia.Prefix(path)) != nil
}

func (ix *pathIndex) paths() []string {
	out := make([]string, 0, ix.count)
	err := ix.trie.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting path trie: %v", err)
	}
	sort.Strings(out)
	return out
}

func (ix *pathIndex) withPrefix(prefix string) []string {
	var out []string
	err := ix.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting path trie subtree: %v", err)
	}
	sort.Strings(out)
	return out
}
