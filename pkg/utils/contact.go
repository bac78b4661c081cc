package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRE.MatchString(strings.TrimSpace(email))
}

// NormalizeWhatsAppNumber keeps digits only, preserving an international
// prefix. Local numbers with a leading zero get defaultCountryCode.
func NormalizeWhatsAppNumber(raw, defaultCountryCode string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := b.String()

	if strings.HasPrefix(phone, "0") && defaultCountryCode != "" {
		phone = defaultCountryCode + strings.TrimLeft(phone, "0")
	}

	if len(phone) < 10 || len(phone) > 15 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return phone, nil
}
