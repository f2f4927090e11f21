package auth

import (
	"sort"
	"strings"
)

// JoinAuthorities serializes a set of role strings as a deduplicated
// comma-joined list. Output order is stable (sorted) but carries no meaning;
// only set membership round-trips.
func JoinAuthorities(authorities []string) string {
	set := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		set[a] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// SplitAuthorities parses a comma-joined authorities claim back into a slice,
// dropping empty segments.
func SplitAuthorities(claim string) []string {
	parts := strings.Split(claim, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
