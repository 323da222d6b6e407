package catalog

import "strings"

// ParseOptions splits a free-text option list on commas and pipes. Pieces are
// trimmed, empties dropped, and exact duplicates removed keeping the first.
func ParseOptions(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, piece := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '|' }) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if _, dup := seen[piece]; dup {
			continue
		}
		seen[piece] = struct{}{}
		out = append(out, piece)
	}
	return out
}

func containsOption(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
