// Package strings provides string slice utilities.
package strings

import "strings"

// Unique drops repeated values, keeping the first occurrence of each.
//
//	Unique([]string{"Dr. Pérez", "Dra. Gómez", "Dr. Pérez"})
//	// []string{"Dr. Pérez", "Dra. Gómez"}
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// ContainsASCIIDigit reports whether s has any of the characters 0-9.
func ContainsASCIIDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
