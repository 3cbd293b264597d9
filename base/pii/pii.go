package pii

import (
	"regexp"
	"strings"
)

const Redacted = "[redacted]"

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// seven or more digits, optionally with a leading + and separators
	phoneRe = regexp.MustCompile(`\+?\d(?:[\s\-./()]*\d){6,}`)
)

// Strip replaces email addresses and phone numbers in s
func Strip(s string) string {
	s = emailRe.ReplaceAllString(s, Redacted)
	s = phoneRe.ReplaceAllString(s, Redacted)
	return strings.TrimSpace(s)
}
