package utils

import "strings"

// NormalizeSeats uppercases and trims seat codes, dropping empties.
func NormalizeSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		x := strings.ToUpper(strings.TrimSpace(s))
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

// HasDuplicateSeats reports whether any seat code appears twice after
// normalization.
func HasDuplicateSeats(seats []string) bool {
	seen := map[string]bool{}
	for _, s := range seats {
		k := strings.ToUpper(strings.TrimSpace(s))
		if k == "" {
			continue
		}
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}
