package mapping

import "strings"

// SplitName splits a name on its first whitespace boundary. A string with
// no internal whitespace is all first name with an empty last name.
func SplitName(s string) (first, last string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}

	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
