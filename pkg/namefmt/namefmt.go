// Package namefmt canonicalizes person display names into the "Last, First"
// form used as the employee lookup key across all loaders.
package namefmt

import "strings"

// Format converts a display name into "Last, First" form.
//
// Input that already contains a comma is assumed canonical and returned
// verbatim. A single token cannot be split and is returned as is. Runs of
// interior whitespace in non-canonical input are collapsed to single spaces.
// The second return value is false when the input holds no usable name.
func Format(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if strings.Contains(name, ",") {
		return name, true
	}
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name, true
	}
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return last + ", " + first, true
}
