package opath_test

import (
	"testing"

	"github.com/next-trace/scg-object-router/opath"
)

func Test_IsSubtree(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", false},
		{"/", false},
		{"*", false},
		{"/*", true},
		{"/org/foo/*", true},
		{"/org/foo", false},
		{"/org/foo*", false},
		{"/org/foo/", false},
	}

	for _, tc := range tests {
		if got := opath.IsSubtree(tc.path); got != tc.want {
			t.Fatalf("IsSubtree(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func Test_Base(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/org/foo/*", "/org/foo"},
		{"/*", "/"},
		{"/org/foo", "/org/foo"},
		{"/", "/"},
		{"/a/*", "/a"},
	}

	for _, tc := range tests {
		if got := opath.Base(tc.path); got != tc.want {
			t.Fatalf("Base(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func Test_Matches(t *testing.T) {
	tests := []struct {
		candidate    string
		registration string
		want         bool
	}{
		{"/org/foo/bar", "/org/foo/*", true},
		{"/org/foo/", "/org/foo/*", true},
		{"/org/foobar", "/org/foo/*", false},
		{"/org/foo", "/org/foo", true},
		{"/org/foo", "/org/bar", false},
		// the subtree base itself is not covered by the pattern; the
		// transport-level fallback binding handles it
		{"/org/foo", "/org/foo/*", false},
		// a subtree pattern covers itself
		{"/org/foo/*", "/org/foo/*", true},
		// root subtree covers everything under "/"
		{"/anything", "/*", true},
		// fail closed on empty arguments
		{"", "/org/foo", false},
		{"/org/foo", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		if got := opath.Matches(tc.candidate, tc.registration); got != tc.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", tc.candidate, tc.registration, got, tc.want)
		}
	}
}
