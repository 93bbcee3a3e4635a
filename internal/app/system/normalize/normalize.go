// Package normalize cleans up free-form request values before they reach
// the list service.
package normalize

import "strings"

// Name trims surrounding whitespace. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Usernames trims each entry and drops blanks and repeats, keeping the
// first-seen order. It returns nil when nothing remains.
func Usernames(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, u := range in {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
