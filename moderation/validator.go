// Package moderation screens chat content before it reaches the room:
// length bounds, a denylist of markup/script fragments, and HTML escaping.
package moderation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	goahocorasick "github.com/anknown/ahocorasick"

	"talk-it/errors"
)

// defaultDenylist covers the usual injection vectors. Matching runs on text
// with whitespace removed and letters lowercased, so "onerror =" and
// "OnError=" hit the same pattern.
var defaultDenylist = []string{
	"<script",
	"</script>",
	"javascript:",
	"onerror=",
	"onload=",
	"<iframe",
	"</iframe>",
	"eval(",
	"document.cookie",
	"alert(",
}

// Validator checks a raw message against length bounds and the denylist.
// The denylist is compiled once into an Aho-Corasick automaton so a single
// pass over the normalized content tests every pattern.
type Validator struct {
	matcher   *goahocorasick.Machine
	minLength int
	maxLength int
}

func NewValidator(minLength, maxLength int) (*Validator, error) {
	return NewValidatorWithDenylist(minLength, maxLength, defaultDenylist)
}

func NewValidatorWithDenylist(minLength, maxLength int, denylist []string) (*Validator, error) {
	if minLength <= 0 || maxLength <= 0 {
		return nil, errors.ErrNonPositiveBound
	}
	if minLength > maxLength {
		return nil, errors.ErrBoundsInverted
	}

	patterns := make([][]rune, len(denylist))
	for i, p := range denylist {
		patterns[i] = normalize(p)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Validator{matcher: m, minLength: minLength, maxLength: maxLength}, nil
}

// Check returns nil when content is acceptable, or an error carrying the
// rejection reason. It never mutates anything; sanitization is a separate
// step applied only to accepted content.
func (v *Validator) Check(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fmt.Errorf("empty content")
	}

	length := utf8.RuneCountInString(trimmed)
	if length < v.minLength {
		return fmt.Errorf("content too short (minimum %d characters)", v.minLength)
	}
	if length > v.maxLength {
		return fmt.Errorf("message too long (maximum %d characters)", v.maxLength)
	}

	if hits := v.matcher.MultiPatternSearch(normalize(content), true); len(hits) > 0 {
		return fmt.Errorf("contains disallowed content")
	}
	return nil
}

// htmlEscaper escapes the six HTML-significant characters in one pass, so
// already-escaped entities are not escaped twice within a single call.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Sanitize HTML-escapes content that already passed Check.
func Sanitize(content string) string {
	return htmlEscaper.Replace(content)
}

// normalize lowercases and strips whitespace so denylist matching cannot be
// dodged with spacing or case tricks.
func normalize(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}
