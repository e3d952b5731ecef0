package util

import "strings"

// Truthy reports whether s is one of the boolean spellings Mercurial
// accepts as true.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on", "always":
		return true
	default:
		return false
	}
}
