// Package input cleans and validates raw form values before they reach the
// workflows.
package input

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	entityPattern = regexp.MustCompile(`^&(?:[a-zA-Z][a-zA-Z0-9]{1,31}|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`)
	validate      = validator.New()
)

// Sanitize removes backslashes, normalizes to NFC, trims surrounding
// whitespace and HTML-escapes reserved characters. Existing character
// references are left alone so Sanitize(Sanitize(x)) == Sanitize(x).
//
// Passwords must never pass through Sanitize.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, `\`, "")
	text = norm.NFC.String(text)
	text = strings.TrimSpace(text)
	return escapeHTML(text)
}

func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			tail := s[i:]
			if len(tail) > 40 {
				tail = tail[:40]
			}
			if entityPattern.MatchString(tail) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&#34;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeSpace collapses every run of whitespace into a single space and
// trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsEmail reports whether s is an RFC-shaped address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// PasswordLongEnough enforces MinPasswordLength in characters.
func PasswordLongEnough(password string) bool {
	return len([]rune(password)) >= MinPasswordLength
}

// LocalPart returns the portion of an address before the first '@'.
func LocalPart(email string) string {
	if idx := strings.IndexByte(email, '@'); idx >= 0 {
		return email[:idx]
	}
	return email
}
