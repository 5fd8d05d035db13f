// Package scopeutil normalizes provider permission scope strings.
package scopeutil

import (
	"sort"
	"strings"
)

// Normalize splits a comma-separated scope string into a trimmed,
// deduplicated, lexicographically sorted slice. Blank entries are dropped.
func Normalize(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var scopes []string
	for _, part := range strings.Split(csv, ",") {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		if _, ok := seen[scope]; ok {
			continue
		}
		seen[scope] = struct{}{}
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

// NormalizeCSV returns the normalized comma-joined form of a scope string.
func NormalizeCSV(csv string) string {
	return strings.Join(Normalize(csv), ",")
}
