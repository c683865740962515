package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxFieldLength caps every sanitized free-text field.
const MaxFieldLength = 500

var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-']{2,100}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateName accepts 2-100 letters, spaces, hyphens and apostrophes after trimming.
func ValidateName(name string) bool {
	return namePattern.MatchString(strings.TrimSpace(name))
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone requires at least ten digits; other characters are ignored.
func ValidatePhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 10
}

// Sanitize trims s and truncates it to MaxFieldLength runes.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxFieldLength {
		s = string(r[:MaxFieldLength])
	}
	return s
}

// SanitizeEmail is Sanitize plus lowercasing.
func SanitizeEmail(s string) string {
	return strings.ToLower(Sanitize(s))
}
