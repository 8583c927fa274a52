package keytree

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func personData() map[string]any {
	return map[string]any{
		"person": map[string]any{
			"name": "John Doe",
			"address": map[string]any{
				"city":    "New York",
				"zipcode": 10001,
			},
		},
	}
}

func TestLookupAndGet(t *testing.T) {
	tree := New(personData())

	v, ok := tree.Lookup("person.name")
	if !ok || v != "John Doe" {
		t.Errorf("Lookup(person.name) = %v, %v", v, ok)
	}

	v, err := tree.Get("person.address.zipcode")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v != 10001 {
		t.Errorf("Get(person.address.zipcode) = %v, want 10001", v)
	}

	if _, err := tree.Get("person.missing"); err == nil {
		t.Error("Get on absent path did not fail")
	}
	if _, ok := tree.Lookup("person.name.deeper"); ok {
		t.Error("Lookup walked through a leaf")
	}
}

func TestHasUsesEveryAddressablePath(t *testing.T) {
	tree := New(personData())

	for _, path := range []string{"person", "person.name", "person.address", "person.address.city"} {
		if !tree.Has(path) {
			t.Errorf("Has(%q) = false", path)
		}
	}
	for _, path := range []string{"person.nam", "per", "person.address.cit", "nonexistent"} {
		if tree.Has(path) {
			t.Errorf("Has(%q) = true for absent path", path)
		}
	}
	if !tree.HasSegments([]string{"person", "address"}) {
		t.Error("HasSegments failed on existing path")
	}
}

func TestKeysSortedAndChildAccess(t *testing.T) {
	tree := New(map[string]any{"b": 1, "a": 2, "c": 3})

	if got := tree.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v, want sorted keys", got)
	}
	if tree.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tree.Len())
	}

	keys, ok := tree.ChildKeys(tree.Root())
	if !ok || len(keys) != 3 {
		t.Fatalf("ChildKeys on root = %v, %v", keys, ok)
	}
	if _, ok := tree.ChildKeys("leaf"); ok {
		t.Error("ChildKeys on a leaf reported a mapping")
	}
	if v, ok := tree.Child(tree.Root(), "b"); !ok || v != 1 {
		t.Errorf("Child(root, b) = %v, %v", v, ok)
	}
}

func TestKeyCoercion(t *testing.T) {
	tree := New(map[string]any{
		"outer": map[any]any{
			42:     "number",
			true:   "boolean",
			"name": "inner",
		},
	})

	v, ok := tree.Lookup("outer.42")
	if !ok || v != "number" {
		t.Errorf("Lookup(outer.42) = %v, %v", v, ok)
	}
	v, ok = tree.Lookup("outer.true")
	if !ok || v != "boolean" {
		t.Errorf("Lookup(outer.true) = %v, %v", v, ok)
	}
}

func TestSeparatorOption(t *testing.T) {
	tree := New(personData(), WithSeparator("/"))

	if tree.Separator() != "/" {
		t.Fatalf("Separator() = %q", tree.Separator())
	}
	if v, ok := tree.Lookup("person/address/city"); !ok || v != "New York" {
		t.Errorf("Lookup with / separator = %v, %v", v, ok)
	}
	if got := tree.Join([]string{"a", "b"}); got != "a/b" {
		t.Errorf("Join = %q", got)
	}
	if got := tree.Split("a/b/c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Split = %v", got)
	}
}

func TestFlattenAndPaths(t *testing.T) {
	tree := New(personData())

	flat := tree.Flatten()
	expected := map[string]any{
		"person.name":            "John Doe",
		"person.address.city":    "New York",
		"person.address.zipcode": 10001,
	}
	if !reflect.DeepEqual(flat, expected) {
		t.Errorf("Flatten() = %v, want %v", flat, expected)
	}

	paths := tree.Paths()
	expectedPaths := []string{
		"person",
		"person.address",
		"person.address.city",
		"person.address.zipcode",
		"person.name",
	}
	if !reflect.DeepEqual(paths, expectedPaths) {
		t.Errorf("Paths() = %v, want %v", paths, expectedPaths)
	}

	withPrefix := tree.PathsWithPrefix("person.address")
	if len(withPrefix) != 3 {
		t.Errorf("PathsWithPrefix(person.address) = %v, want 3 paths", withPrefix)
	}
}

func TestNodeSubtree(t *testing.T) {
	tree := New(personData())

	sub, ok := tree.Node("person.address")
	if !ok {
		t.Fatal("Node(person.address) not found")
	}
	if v, ok := sub.Lookup("city"); !ok || v != "New York" {
		t.Errorf("subtree Lookup(city) = %v, %v", v, ok)
	}
	if _, ok := tree.Node("person.name"); ok {
		t.Error("Node on a leaf succeeded")
	}
}

func TestDepth(t *testing.T) {
	if d := New(map[string]any{}).Depth(); d != 0 {
		t.Errorf("empty tree depth = %d", d)
	}
	if d := New(map[string]any{"a": 1}).Depth(); d != 1 {
		t.Errorf("flat tree depth = %d", d)
	}
	if d := New(personData()).Depth(); d != 3 {
		t.Errorf("person tree depth = %d, want 3", d)
	}
}

func TestFingerprintAndEqual(t *testing.T) {
	a := New(personData())
	b := New(personData())
	c := New(map[string]any{"person": map[string]any{"name": "Jane Doe"}})

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal trees produced different fingerprints")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different trees produced the same fingerprint")
	}
	if !a.Equal(b) {
		t.Error("Equal() = false for equal trees")
	}
	if a.Equal(c) || a.Equal(nil) {
		t.Error("Equal() = true for unequal trees")
	}
}

func TestConstructionCopiesData(t *testing.T) {
	data := personData()
	tree := New(data)

	data["person"].(map[string]any)["name"] = "mutated"
	if v, _ := tree.Lookup("person.name"); v != "John Doe" {
		t.Errorf("tree observed source mutation: %v", v)
	}
}
