package service

import "strings"

const (
	minSearchLen    = 2
	defaultLimit    = 10
	maxLimit        = 50
	minCompareCodes = 2
	maxCompareCodes = 10

	defaultPeerRange = 0.25
)

// validCode reports whether code has the canonical COUNTY/UNIT/TYPE shape:
// exactly three non-empty segments separated by slashes.
func validCode(code string) bool {
	parts := strings.Split(code, "/")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}

// clampLimit applies the default and caps runaway requests.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// cleanCodes trims whitespace and drops empty entries, preserving order and
// removing duplicates.
func cleanCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
