// Package resolve walks a query path through a nested mapping, matching
// each segment against the live keys of the current subtree with a
// similarity scorer and a hard threshold.
//
// Resolution is level-by-level and greedy: the best-scoring key at each
// level is taken iff its score clears the threshold, then the walk descends
// through it. A query that already names an exact path short-circuits and
// is returned untouched; fuzzy scoring never perturbs exact matches.
package resolve

import (
	"strings"

	"github.com/fuzzdict/fuzzdict/pkg/fuzzy"
)

// DefaultThreshold is the minimum similarity score accepted when a
// Resolver is built without an explicit one.
const DefaultThreshold = 75

// Container is the slice of the mapping container the resolver needs:
// key enumeration and child access at any node, exact membership for the
// whole-path shortcut, and the path separator for parse and join.
type Container interface {
	Root() any
	ChildKeys(node any) ([]string, bool)
	Child(node any, key string) (any, bool)
	HasSegments(segments []string) bool
	Separator() string
}

// Resolver resolves fuzzy key paths against a Container. It holds no
// state between calls and never mutates the container; concurrent calls
// against a read-stable container are safe.
type Resolver struct {
	scorer    *fuzzy.Scorer
	threshold int
}

// New creates a Resolver around scorer. A threshold outside [0,100] is
// clamped into range.
func New(scorer *fuzzy.Scorer, threshold int) *Resolver {
	return &Resolver{scorer: scorer, threshold: clampThreshold(threshold)}
}

// Threshold returns the resolver's default threshold.
func (r *Resolver) Threshold() int {
	return r.threshold
}

// Resolve resolves query using the resolver's default threshold.
func (r *Resolver) Resolve(c Container, query any) (string, error) {
	return r.ResolveWith(c, query, r.threshold)
}

// ResolveWith resolves query against c and returns the matched path,
// joined with the container's separator. The returned path always exists
// exactly in the container. threshold is an inclusive lower bound: a
// segment whose best score is strictly below it fails the whole
// resolution with NotFoundError. Malformed queries fail with
// InvalidQueryError before any traversal.
func (r *Resolver) ResolveWith(c Container, query any, threshold int) (string, error) {
	segments, err := ParseQuery(query, c.Separator())
	if err != nil {
		return "", err
	}
	threshold = clampThreshold(threshold)

	// Whole-query exactness shortcut: exact paths are never perturbed
	// by fuzzy matching and cost one membership test.
	if c.HasSegments(segments) {
		return strings.Join(segments, c.Separator()), nil
	}

	current := c.Root()
	matched := make([]string, 0, len(segments))
	for _, segment := range segments {
		keys, ok := c.ChildKeys(current)
		if !ok {
			// Query path runs deeper than the tree. A silent miss,
			// not an error: wrong paths are normal input here.
			return "", r.miss(segments, c.Separator(), threshold)
		}
		match, err := r.scorer.BestMatch(segment, keys)
		if err != nil {
			return "", r.miss(segments, c.Separator(), threshold)
		}
		if match.Score < threshold {
			return "", r.miss(segments, c.Separator(), threshold)
		}
		matched = append(matched, match.Candidate)
		current, _ = c.Child(current, match.Candidate)
	}
	return strings.Join(matched, c.Separator()), nil
}

// miss builds the NotFound failure; partial matches never leak out.
func (r *Resolver) miss(segments []string, sep string, threshold int) error {
	return &NotFoundError{Query: strings.Join(segments, sep), Threshold: threshold}
}

func clampThreshold(threshold int) int {
	if threshold < 0 {
		return 0
	}
	if threshold > 100 {
		return 100
	}
	return threshold
}
