// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ValidateEmail does a light-weight format check; delivery failures are
// still surfaced per-channel by the dispatcher.
func ValidateEmail(email string) bool {
	regex := `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	match, _ := regexp.MatchString(regex, strings.TrimSpace(email))
	return match
}

// ValidChannels is the set of delivery channels an event may select.
var ValidChannels = map[string]bool{
	"email": true,
	"sms":   true,
	"app":   true,
}

// ValidateChannels reports whether every entry is a known channel tag.
func ValidateChannels(channels []string) bool {
	for _, ch := range channels {
		if !ValidChannels[ch] {
			return false
		}
	}
	return true
}
