// Package opath classifies and matches bus object paths. A registration
// path ending in "/*" covers the whole subtree beneath its prefix; all
// other paths are matched by exact string equality.
package opath

import "strings"

// IsSubtree reports whether path is a subtree registration, i.e. at least
// two characters long and ending in "/*". The root path "/" is never a
// subtree pattern.
func IsSubtree(path string) bool {
	if len(path) < 2 {
		return false
	}

	return path[len(path)-2] == '/' && path[len(path)-1] == '*'
}

// Base returns the path actually bound at the transport layer. Non-subtree
// paths pass through unchanged. For a subtree path both the asterisk and
// the slash before it are stripped, except that the subtree root "/*"
// keeps its slash so the result is never empty.
func Base(path string) string {
	if !IsSubtree(path) {
		return path
	}

	if len(path) == 2 { // "/*"
		return "/"
	}

	return path[:len(path)-2]
}

// Matches reports whether candidate is covered by the registration path.
// It fails closed when either argument is empty. An exact registration
// requires string equality; a subtree registration requires its prefix up
// to (and including) the final slash to be a literal prefix of candidate,
// so "/foo/*" matches "/foo/bar" but not the sibling "/foobar".
func Matches(candidate, registration string) bool {
	if candidate == "" || registration == "" {
		return false
	}

	if !IsSubtree(registration) {
		return candidate == registration
	}

	// Compare without the asterisk. The slash kept in the prefix ensures
	// only true subtree paths match.
	return strings.HasPrefix(candidate, registration[:len(registration)-1])
}
