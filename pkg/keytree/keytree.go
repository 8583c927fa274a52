// Package keytree is the nested key-value container queried by the resolver.
//
// A Tree wraps a nested map with a configurable path separator and offers
// exact path lookup, key enumeration, flattening, and a patricia-trie index
// over every path in the tree. Trees are read-only after construction;
// concurrent lookups are safe.
package keytree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultSeparator joins and splits string key paths unless overridden.
const DefaultSeparator = "."

// ErrPathNotFound reports an exact lookup miss.
var ErrPathNotFound = errors.New("path not found")

// Option customizes Tree construction.
type Option func(*Tree)

// WithSeparator sets the path separator used by Split, Join and Get.
func WithSeparator(sep string) Option {
	return func(t *Tree) {
		if sep != "" {
			t.sep = sep
		}
	}
}

// Tree is an immutable nested mapping with path-based access.
type Tree struct {
	root  map[string]any
	sep   string
	index *pathIndex
}

// New builds a Tree from nested data. Map keys that are not strings are
// coerced to their string form ("42", "true"), so fuzzy queries can still
// reach them. The input is deep-copied during coercion; later mutation of
// the source data does not affect the Tree.
func New(data map[string]any, opts ...Option) *Tree {
	t := &Tree{sep: DefaultSeparator}
	for _, opt := range opts {
		opt(t)
	}
	t.root = coerceMap(data)
	t.index = newPathIndex(t.root, t.sep)
	return t
}

// FromAny builds a Tree from loosely typed nested data, such as the
// map[any]any shapes produced by generic decoders. Non-map input
// yields an empty tree.
func FromAny(data any, opts ...Option) *Tree {
	node := coerceValue(data)
	m, ok := node.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	t := &Tree{sep: DefaultSeparator, root: m}
	for _, opt := range opts {
		opt(t)
	}
	t.index = newPathIndex(t.root, t.sep)
	return t
}

// coerceMap deep-copies m, stringifying non-string keys along the way.
func coerceMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = coerceValue(v)
	}
	return out
}

func coerceValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return coerceMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[stringifyKey(k)] = coerceValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = coerceValue(child)
		}
		return out
	default:
		return v
	}
}

func stringifyKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// Separator returns the configured path separator.
func (t *Tree) Separator() string {
	return t.sep
}

// Split breaks a string path into segments on the configured separator.
func (t *Tree) Split(path string) []string {
	return strings.Split(path, t.sep)
}

// Join assembles segments into a string path with the configured separator.
func (t *Tree) Join(segments []string) string {
	return strings.Join(segments, t.sep)
}

// Keys returns the top-level keys in sorted order.
func (t *Tree) Keys() []string {
	keys, _ := t.ChildKeys(t.root)
	return keys
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	return len(t.root)
}

// Root returns the root node.
func (t *Tree) Root() any {
	return t.root
}

// ChildKeys enumerates the direct child keys of node in sorted order.
// The second return is false when node is not a mapping.
func (t *Tree) ChildKeys(node any) ([]string, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true
}

// Child returns the value under key directly below node.
func (t *Tree) Child(node any, key string) (any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Lookup resolves an exact string path and reports whether it exists.
func (t *Tree) Lookup(path string) (any, bool) {
	return t.lookupSegments(t.Split(path))
}

// Get resolves an exact string path, or fails with a wrapped
// ErrPathNotFound naming the path.
func (t *Tree) Get(path string) (any, error) {
	v, ok := t.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("keytree: path %q: %w", path, ErrPathNotFound)
	}
	return v, nil
}

// Has reports whether an exact string path exists in the tree.
// Membership tests go through the path index, not a tree walk.
func (t *Tree) Has(path string) bool {
	return t.index.has(path)
}

// HasSegments reports whether the exact path named by segments exists.
func (t *Tree) HasSegments(segments []string) bool {
	return t.index.has(t.Join(segments))
}

// Node returns the subtree rooted at path as a new Tree sharing the same
// separator. The second return is false when the path is absent or names
// a leaf.
func (t *Tree) Node(path string) (*Tree, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	sub := &Tree{root: m, sep: t.sep}
	sub.index = newPathIndex(m, t.sep)
	return sub, true
}

func (t *Tree) lookupSegments(segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	var current any = t.root
	for _, seg := range segments {
		child, ok := t.Child(current, seg)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Flatten returns every leaf as a joined path mapped to its value.
// Branch nodes do not appear; use Paths for all addressable paths.
func (t *Tree) Flatten() map[string]any {
	out := make(map[string]any)
	flattenInto(out, t.root, "", t.sep)
	return out
}

func flattenInto(out map[string]any, node map[string]any, prefix, sep string) {
	for k, v := range node {
		path := k
		if prefix != "" {
			path = prefix + sep + k
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			flattenInto(out, m, path, sep)
			continue
		}
		out[path] = v
	}
}

// Paths returns every addressable path in the tree, branches included,
// in sorted order.
func (t *Tree) Paths() []string {
	return t.index.paths()
}

// PathsWithPrefix returns every path starting with prefix, in trie order.
func (t *Tree) PathsWithPrefix(prefix string) []string {
	return t.index.withPrefix(prefix)
}

// Depth returns the deepest nesting level of the tree. An empty tree has
// depth 0, a flat mapping depth 1.
func (t *Tree) Depth() int {
	return depthOf(t.root)
}

func depthOf(node map[string]any) int {
	if len(node) == 0 {
		return 0
	}
	deepest := 1
	for _, v := range node {
		if m, ok := v.(map[string]any); ok {
			if d := 1 + depthOf(m); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}
