package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reFlag  = regexp.MustCompile(`^[a-z][a-z0-9_]{0,39}$`)
)

// Email trims and checks a login address; the form caps it at 50 characters.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	ok := s != "" && len(s) <= 50 && reEmail.MatchString(s)
	return s, ok
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (catalog item ids, order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Flag validates a per-user flag name such as payment_info_seen.
func Flag(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reFlag.MatchString(s)
}

// Stock parses a non-negative stock figure from a form field.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100000 {
		return 0, false
	}
	return n, true
}

// Password checks the login password shape: 8 to 20 bytes with at least one
// lower case letter, upper case letter, digit and symbol.
func Password(s string) bool {
	if len(s) < 8 || len(s) > 20 {
		return false
	}
	var classes [4]bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			classes[0] = true
		case unicode.IsUpper(r):
			classes[1] = true
		case unicode.IsDigit(r):
			classes[2] = true
		default:
			classes[3] = true
		}
	}
	return classes == [4]bool{true, true, true, true}
}
