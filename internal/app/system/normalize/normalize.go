// Package normalize canonicalizes user-supplied identity fields before
// they are compared or stored.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookups and unique
// indexes both key on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone accepts 07XXXXXXXX, 7XXXXXXXX, +2547XXXXXXXX or 2547XXXXXXXX
// and returns the 254-prefixed MSISDN form the Daraja gateway expects.
func Phone(raw string) (string, bool) {
	p := strings.TrimSpace(raw)
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, "254"):
	case strings.HasPrefix(p, "0"):
		p = "254" + p[1:]
	case strings.HasPrefix(p, "7") || strings.HasPrefix(p, "1"):
		p = "254" + p
	default:
		return "", false
	}
	if len(p) != 12 {
		return "", false
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return p, true
}
