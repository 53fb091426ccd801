package validation

import (
	"regexp"
	"strings"
)

// UsernamePattern defines the domain-style login format: `\DOMAIN\username`.
var UsernamePattern = regexp.MustCompile(`^\\[^\\]+\\[^\\]+$`)

// ValidateUsername checks that a login matches the `\DOMAIN\username` format.
func ValidateUsername(username string) bool {
	if username == "" || len(username) > 255 {
		return false
	}
	return UsernamePattern.MatchString(username)
}

// ValidateMode checks a session mode value.
func ValidateMode(mode string) bool {
	return mode == "voice" || mode == "video"
}

// ValidateCategoryName checks a counselor category name: non-empty, at most
// 100 characters, no leading/trailing whitespace.
func ValidateCategoryName(name string) bool {
	if name == "" || len(name) > 100 {
		return false
	}
	return strings.TrimSpace(name) == name
}

// ValidateSpeaker checks a transcript speaker tag against the closed set.
func ValidateSpeaker(speaker string) bool {
	return speaker == "user" || speaker == "bot"
}
