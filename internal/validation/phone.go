package validation

import (
	"errors"
	"regexp"
	"strings"
)

// e164Pattern matches international phone numbers in E.164 form,
// e.g. +923001234567
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// ValidatePhone validates a phone number in E.164 format
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.New("phone number is required")
	}

	if !e164Pattern.MatchString(strings.TrimSpace(phone)) {
		return errors.New("phone number must be in E.164 format (e.g., +923001234567)")
	}

	return nil
}
