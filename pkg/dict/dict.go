// Package dict is the accessor layer: it composes a keytree container, a
// similarity scorer and the path resolver into one lookup surface.
//
// Exact lookup and fuzzy lookup are two distinct operations; Value picks
// between them based on the instance's fuzzy-enabled flag. All
// configuration is per instance, set at construction with call-scoped
// threshold overrides on FuzzyGetWith.
package dict

import (
	"github.com/fuzzdict/fuzzdict/pkg/fuzzy"
	"github.com/fuzzdict/fuzzdict/pkg/keytree"
	"github.com/fuzzdict/fuzzdict/pkg/resolve"
)

// DefaultFn produces a fallback value for lookup misses. A panic inside
// the callback propagates to the caller unmodified.
type DefaultFn func() any

// Option customizes a Dict at construction.
type Option func(*Dict)

// WithThreshold sets the default similarity threshold (clamped to [0,100]).
func WithThreshold(threshold int) Option {
	return func(d *Dict) { d.threshold = threshold }
}

// WithFuzzyEnabled controls whether Value routes through fuzzy lookup.
func WithFuzzyEnabled(enabled bool) Option {
	return func(d *Dict) { d.fuzzyEnabled = enabled }
}

// WithAlgorithm selects the similarity algorithm by name.
func WithAlgorithm(name string) Option {
	return func(d *Dict) { d.scorer = fuzzy.NewScorer(name) }
}

// WithDefault installs a fallback callback invoked on lookup misses.
func WithDefault(fn DefaultFn) Option {
	return func(d *Dict) { d.defaultFn = fn }
}

// Dict wraps a Tree with exact and fuzzy lookup.
type Dict struct {
	tree         *keytree.Tree
	scorer       *fuzzy.Scorer
	resolver     *resolve.Resolver
	threshold    int
	fuzzyEnabled bool
	defaultFn    DefaultFn
}

// New builds a Dict over tree. Without options: threshold 75, fuzzy
// disabled, Jaro-Winkler scoring, no default callback.
func New(tree *keytree.Tree, opts ...Option) *Dict {
	d := &Dict{
		tree:      tree,
		scorer:    fuzzy.NewScorer(fuzzy.DefaultAlgorithm),
		threshold: resolve.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.resolver = resolve.New(d.scorer, d.threshold)
	d.threshold = d.resolver.Threshold()
	return d
}

// Tree returns the underlying container.
func (d *Dict) Tree() *keytree.Tree {
	return d.tree
}

// Scorer returns the similarity scorer in use.
func (d *Dict) Scorer() *fuzzy.Scorer {
	return d.scorer
}

// Threshold returns the default similarity threshold.
func (d *Dict) Threshold() int {
	return d.threshold
}

// SetThreshold changes the default threshold for this instance.
func (d *Dict) SetThreshold(threshold int) {
	d.resolver = resolve.New(d.scorer, threshold)
	d.threshold = d.resolver.Threshold()
}

// FuzzyEnabled reports whether Value routes through fuzzy lookup.
func (d *Dict) FuzzyEnabled() bool {
	return d.fuzzyEnabled
}

// SetFuzzyEnabled toggles fuzzy routing for Value on this instance.
func (d *Dict) SetFuzzyEnabled(enabled bool) {
	d.fuzzyEnabled = enabled
}

// Algorithm returns the name of the similarity algorithm in use.
func (d *Dict) Algorithm() string {
	return d.scorer.Algorithm()
}

// Get performs an exact lookup. The query may be a string path or an
// ordered sequence of segments; malformed queries fail with
// InvalidQueryError. On a miss the default callback supplies the value
// when installed, otherwise a NotFoundError propagates.
func (d *Dict) Get(query any) (any, error) {
	segments, err := resolve.ParseQuery(query, d.tree.Separator())
	if err != nil {
		return nil, err
	}
	path := d.tree.Join(segments)
	if v, ok := d.tree.Lookup(path); ok {
		return v, nil
	}
	return d.missValue(path, d.threshold)
}

// FuzzyGet performs a fuzzy lookup with the instance threshold.
func (d *Dict) FuzzyGet(query any) (any, error) {
	return d.FuzzyGetWith(query, d.threshold)
}

// FuzzyGetWith performs a fuzzy lookup with a call-scoped threshold
// override. Exact query paths win without any scoring. On a miss the
// default callback supplies the value when installed.
func (d *Dict) FuzzyGetWith(query any, threshold int) (any, error) {
	path, err := d.resolver.ResolveWith(d.tree, query, threshold)
	if err != nil {
		if resolve.IsNotFound(err) && d.defaultFn != nil {
			return d.defaultFn(), nil
		}
		return nil, err
	}
	return d.tree.Get(path)
}

// Value is the configuration-driven lookup: exact when fuzzy is
// disabled, fuzzy when enabled.
func (d *Dict) Value(query any) (any, error) {
	if d.fuzzyEnabled {
		return d.FuzzyGet(query)
	}
	return d.Get(query)
}

// ResolvePath resolves query to the closest existing path without
// fetching the value. The default callback does not apply here; misses
// always surface as NotFoundError.
func (d *Dict) ResolvePath(query any) (string, error) {
	return d.resolver.Resolve(d.tree, query)
}

// ResolvePathWith is ResolvePath with a call-scoped threshold override.
func (d *Dict) ResolvePathWith(query any, threshold int) (string, error) {
	return d.resolver.ResolveWith(d.tree, query, threshold)
}

func (d *Dict) missValue(path string, threshold int) (any, error) {
	if d.defaultFn != nil {
		return d.defaultFn(), nil
	}
	return nil, &resolve.NotFoundError{Query: path, Threshold: threshold}
}
