package utils

import "strings"

// NormalizePhotos trims photo URLs and drops blanks and duplicates, keeping order.
func NormalizePhotos(photos []string) []string {
	if len(photos) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(photos))
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
