package query

import "strings"

// FilterContext drops entries that are empty after trimming. Kept entries are
// returned untrimmed and in order; the result is never nil.
func FilterContext(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
