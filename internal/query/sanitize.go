package query

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// strictPolicy strips every tag; it is safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// maxSearchLength bounds the free-text term after cleaning.
const maxSearchLength = 200

// cleanText strips markup, decodes entities, collapses whitespace and
// NFC-normalises s. Invalid UTF-8 is rejected with a ValidationError for field.
func cleanText(field, s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", types.NewValidationError(field, "must be valid UTF-8")
	}
	s = strictPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(s), nil
}

// NormalizeSearch cleans a free-text search term the same way slugs are
// cleaned. The result may be empty.
func NormalizeSearch(s string) (string, error) {
	cleaned, err := cleanText("search", s)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(cleaned) > maxSearchLength {
		cleaned = string([]rune(cleaned)[:maxSearchLength])
	}
	return cleaned, nil
}
