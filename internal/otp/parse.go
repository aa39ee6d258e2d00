package otp

import (
	"regexp"
	"strings"
)

var (
	otpPattern      = regexp.MustCompile(`\b\d{6}\b`)
	usernamePattern = regexp.MustCompile(`(?i)Username:\s*([^\n]+)`)
	usernameLine    = regexp.MustCompile(`(?im)^.*Username:.*$`)
)

// extractCode returns the first standalone 6 digit number in body outside
// the "Username:" line, so digits inside a username are never taken.
func extractCode(body string) (string, bool) {
	code := otpPattern.FindString(usernameLine.ReplaceAllString(body, ""))
	return code, code != ""
}

// extractUsername returns the trimmed value of the first "Username:" line.
func extractUsername(body string) (string, bool) {
	m := usernamePattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}
