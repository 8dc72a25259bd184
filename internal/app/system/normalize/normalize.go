// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Name trims the value and collapses interior whitespace runs to single
// spaces. A whitespace-only input normalizes to "".
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username lowercases and trims a username for the case-insensitive
// uniqueness check.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Initials derives up to two uppercase initials from a full name:
// first letter of the first and last words.
func Initials(fullName string) string {
	words := strings.Fields(fullName)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(words[0]))
	default:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
