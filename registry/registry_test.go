package registry_test

import (
	"testing"

	"github.com/next-trace/scg-object-router/contract/router"
	"github.com/next-trace/scg-object-router/registry"
)

func entry(path, base string) *registry.Entry {
	return &registry.Entry{
		Iface:         &router.Interface{Path: path, VTable: &router.VTable{Meta: &router.Meta{Name: "test"}}},
		BoundBasePath: base,
	}
}

func Test_ContainsIsExact(t *testing.T) {
	r := registry.New()
	r.Insert(entry("/org/foo/*", "/org/foo"))

	if !r.Contains("/org/foo/*") {
		t.Fatalf("expected registry to contain /org/foo/*")
	}

	// the marker is part of the key; neither base nor children count
	if r.Contains("/org/foo") {
		t.Fatalf("contains must not strip the subtree marker")
	}

	if r.Contains("/org/foo/bar") {
		t.Fatalf("contains must not be subtree-aware")
	}
}

func Test_FindHandler_InsertionOrderPrecedence(t *testing.T) {
	r := registry.New()
	r.Insert(entry("/org/foo/*", "/org/foo"))
	r.Insert(entry("/org/foo/bar", "/org/foo/bar"))

	// the exact path was registered last, so it is scanned first
	iface, ok := r.FindHandler("/org/foo/bar")
	if !ok {
		t.Fatalf("expected a match for /org/foo/bar")
	}

	if iface.Path != "/org/foo/bar" {
		t.Fatalf("want most recent registration, got %s", iface.Path)
	}

	// paths only covered by the subtree fall through to it
	iface, ok = r.FindHandler("/org/foo/baz")
	if !ok {
		t.Fatalf("expected a subtree match for /org/foo/baz")
	}

	if iface.Path != "/org/foo/*" {
		t.Fatalf("want subtree registration, got %s", iface.Path)
	}

	if _, ok := r.FindHandler("/elsewhere"); ok {
		t.Fatalf("expected no match for /elsewhere")
	}
}

func Test_Teardown(t *testing.T) {
	r := registry.New()
	r.Insert(entry("/a/*", "/a"))
	r.Insert(entry("/a/b", "/a/b"))

	var unbound []string

	r.Teardown(func(base string) { unbound = append(unbound, base) })

	if len(unbound) != 2 {
		t.Fatalf("want 2 unbinds, got %d: %v", len(unbound), unbound)
	}

	if r.Len() != 0 {
		t.Fatalf("registry not emptied, len=%d", r.Len())
	}

	if _, ok := r.FindHandler("/a/b"); ok {
		t.Fatalf("lookup after teardown must miss")
	}

	// teardown on an empty registry is a no-op
	r.Teardown(func(string) { t.Fatalf("unbind called on empty registry") })
}
