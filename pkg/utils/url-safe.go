package utils

import "regexp"

var urlSafePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// IsURLSafe reports whether a path parameter such as a study key can be used unescaped
// in a URL and as part of a collection name.
func IsURLSafe(value string) bool {
	return value != "" && urlSafePattern.MatchString(value)
}
