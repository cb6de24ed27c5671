// Package inputval validates request field formats before they reach
// the stores.
package inputval

import "strings"

// IsValidEmail reports whether s is a plausible email address. The check
// is stricter than "contains an @": dots may not lead, trail, or repeat
// in either part, and whitespace or display-name forms are rejected.
// Single-label domains are accepted so dev and test addresses work.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return validDotAtom(local) && validDotAtom(domain)
}

func validDotAtom(part string) bool {
	if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
		return false
	}
	if strings.Contains(part, "..") {
		return false
	}
	return !strings.ContainsAny(part, " \t<>")
}

// IsValidObjectID reports whether s is a 24-character hex string, the
// textual form of a MongoDB ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
