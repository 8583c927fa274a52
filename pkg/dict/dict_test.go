package dict

import (
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fuzzdict/fuzzdict/pkg/keytree"
	"github.com/fuzzdict/fuzzdict/pkg/resolve"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func personTree() *keytree.Tree {
	return keytree.New(map[string]any{
		"person": map[string]any{
			"name": "John Doe",
			"address": map[string]any{
				"city":    "New York",
				"zipcode": 10001,
			},
		},
	})
}

func TestExactGet(t *testing.T) {
	d := New(personTree())

	v, err := d.Get("person.name")
	if err != nil || v != "John Doe" {
		t.Errorf("Get(person.name) = %v, %v", v, err)
	}

	v, err = d.Get([]string{"person", "address", "city"})
	if err != nil || v != "New York" {
		t.Errorf("Get(segments) = %v, %v", v, err)
	}

	// Exact lookup never matches approximately.
	if _, err := d.Get("persn.name"); !resolve.IsNotFound(err) {
		t.Errorf("Get(persn.name): expected NotFound, got %v", err)
	}

	if _, err := d.Get(42); !resolve.IsInvalidQuery(err) {
		t.Errorf("Get(42): expected InvalidQueryError, got %v", err)
	}
}

func TestFuzzyGet(t *testing.T) {
	d := New(personTree())

	v, err := d.FuzzyGet("persn.name")
	if err != nil || v != "John Doe" {
		t.Errorf("FuzzyGet(persn.name) = %v, %v", v, err)
	}

	v, err = d.FuzzyGet("person.addr.city")
	if err != nil || v != "New York" {
		t.Errorf("FuzzyGet(person.addr.city) = %v, %v", v, err)
	}

	if _, err := d.FuzzyGet("completely.unrelated"); !resolve.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestFuzzyGetWithThresholdOverride(t *testing.T) {
	d := New(personTree())

	if _, err := d.FuzzyGetWith("persn.name", 99); !resolve.IsNotFound(err) {
		t.Errorf("override threshold 99: expected NotFound, got %v", err)
	}
	if v, err := d.FuzzyGetWith("persn.name", 50); err != nil || v != "John Doe" {
		t.Errorf("override threshold 50 = %v, %v", v, err)
	}

	// The override is call-scoped; the instance default is untouched.
	if d.Threshold() != resolve.DefaultThreshold {
		t.Errorf("instance threshold changed to %d", d.Threshold())
	}
	if _, err := d.FuzzyGet("persn.name"); err != nil {
		t.Errorf("default-threshold lookup broken after override: %v", err)
	}
}

func TestValueComposition(t *testing.T) {
	d := New(personTree())

	// Fuzzy disabled: Value is exact lookup.
	if _, err := d.Value("persn.name"); !resolve.IsNotFound(err) {
		t.Errorf("Value with fuzzy disabled matched approximately: %v", err)
	}

	d.SetFuzzyEnabled(true)
	v, err := d.Value("persn.name")
	if err != nil || v != "John Doe" {
		t.Errorf("Value with fuzzy enabled = %v, %v", v, err)
	}

	d.SetFuzzyEnabled(false)
	if d.FuzzyEnabled() {
		t.Error("SetFuzzyEnabled(false) did not stick")
	}
}

func TestDefaultCallback(t *testing.T) {
	calls := 0
	d := New(personTree(), WithDefault(func() any {
		calls++
		return "fallback"
	}))

	v, err := d.FuzzyGet("no.such.path")
	if err != nil || v != "fallback" {
		t.Errorf("FuzzyGet miss = %v, %v, want fallback", v, err)
	}
	v, err = d.Get("missing")
	if err != nil || v != "fallback" {
		t.Errorf("Get miss = %v, %v, want fallback", v, err)
	}
	if calls != 2 {
		t.Errorf("default callback invoked %d times, want 2", calls)
	}

	// Hits never consult the callback.
	if v, err := d.FuzzyGet("person.name"); err != nil || v != "John Doe" {
		t.Errorf("hit consulted callback: %v, %v", v, err)
	}
	if calls != 2 {
		t.Errorf("default callback invoked on a hit")
	}

	// Malformed queries are usage errors, not misses.
	if _, err := d.Get(42); !resolve.IsInvalidQuery(err) {
		t.Errorf("invalid query reached the callback: %v", err)
	}
}

func TestDefaultCallbackPanicPropagates(t *testing.T) {
	d := New(personTree(), WithDefault(func() any {
		panic("callback exploded")
	}))

	defer func() {
		if recovered := recover(); recovered != "callback exploded" {
			t.Errorf("panic not propagated unmodified: %v", recovered)
		}
	}()
	d.FuzzyGet("no.such.path")
	t.Error("expected callback panic")
}

func TestResolvePath(t *testing.T) {
	d := New(personTree())

	path, err := d.ResolvePath("person.addr")
	if err != nil || path != "person.address" {
		t.Errorf("ResolvePath = %q, %v", path, err)
	}

	if _, err := d.ResolvePathWith("person.addr", 99); !resolve.IsNotFound(err) {
		t.Errorf("ResolvePathWith(99): expected NotFound, got %v", err)
	}

	// ResolvePath surfaces misses even when a default callback is set.
	withDefault := New(personTree(), WithDefault(func() any { return "x" }))
	if _, err := withDefault.ResolvePath("no.match"); !resolve.IsNotFound(err) {
		t.Errorf("ResolvePath consulted the default callback: %v", err)
	}
}

func TestOptions(t *testing.T) {
	d := New(personTree(),
		WithThreshold(90),
		WithFuzzyEnabled(true),
		WithAlgorithm("levenshtein"),
	)

	if d.Threshold() != 90 {
		t.Errorf("Threshold() = %d, want 90", d.Threshold())
	}
	if !d.FuzzyEnabled() {
		t.Error("FuzzyEnabled() = false")
	}
	if d.Algorithm() != "levenshtein" {
		t.Errorf("Algorithm() = %q", d.Algorithm())
	}

	if got := New(personTree(), WithThreshold(500)).Threshold(); got != 100 {
		t.Errorf("oversized threshold clamped to %d, want 100", got)
	}
}

func TestSetThreshold(t *testing.T) {
	d := New(personTree())

	d.SetThreshold(99)
	if _, err := d.FuzzyGet("persn.name"); !resolve.IsNotFound(err) {
		t.Errorf("raised threshold not applied: %v", err)
	}

	d.SetThreshold(75)
	if _, err := d.FuzzyGet("persn.name"); err != nil {
		t.Errorf("restored threshold not applied: %v", err)
	}
}

func TestPerInstanceConfiguration(t *testing.T) {
	// Threshold and fuzzy flag never leak between instances.
	strict := New(personTree(), WithThreshold(99))
	relaxed := New(personTree(), WithThreshold(50))

	if _, err := strict.FuzzyGet("persn.name"); !resolve.IsNotFound(err) {
		t.Errorf("strict instance matched: %v", err)
	}
	if _, err := relaxed.FuzzyGet("persn.name"); err != nil {
		t.Errorf("relaxed instance failed: %v", err)
	}

	strict.SetFuzzyEnabled(true)
	if relaxed.FuzzyEnabled() {
		t.Error("fuzzy flag leaked across instances")
	}
}
