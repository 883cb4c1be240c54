// Package sanitizer rejects markup in short user supplied names. Free text is
// stored verbatim and escaped by the JSON encoder on output.
package sanitizer

import (
	"fmt"
	"html"
	"strings"

	"anoa.com/recipeshare/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// HasMarkup reports whether the strict policy would change s, ignoring the
// entity escaping it applies to plain characters such as "&".
func HasMarkup(s string) bool {
	return html.UnescapeString(policy.Sanitize(s)) != s
}

// Name trims s and returns a validation error naming field when the value
// contains markup.
func Name(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if HasMarkup(s) {
		return "", apperror.Validation(fmt.Sprintf("%s must not contain markup", field))
	}
	return s, nil
}
