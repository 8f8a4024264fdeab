package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"organicfoods/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'&,.-]{1,50}$`)
	reID    = regexp.MustCompile(`^[0-9]{1,18}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a buyer's display name.
func Name(s string) (string, bool) {
	return text(s, 100)
}

// Address validates a free-form postal address; newlines are allowed.
func Address(s string) (string, bool) {
	return text(s, 300)
}

func text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 50 {
		s = string([]rune(s)[:50])
	}
	return s, reQ.MatchString(s)
}

// ProductID validates a numeric product identifier from a route or form.
func ProductID(s string) (domain.ProductID, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	id, err := domain.ParseProductID(s)
	return id, err == nil
}

// Category validates a category filter value.
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, reQ.MatchString(s)
}
