package service

import (
	"html"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainText = bluemonday.StrictPolicy()
	richText  = bluemonday.UGCPolicy()
)

// excerptWords is the card excerpt length when a recipe has no excerpt.
const excerptWords = 15

// PlainText strips markup and collapses whitespace.
func PlainText(s string) string {
	s = html.UnescapeString(plainText.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// TrimWords keeps the first n words of s, appending an ellipsis when cut.
func TrimWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}

// Excerpt returns the explicit excerpt, or the start of the body.
func Excerpt(excerpt, body string) string {
	if e := PlainText(excerpt); e != "" {
		return e
	}
	return TrimWords(PlainText(body), excerptWords)
}

// SanitizeRich keeps safe formatting markup in user supplied bodies.
func SanitizeRich(s string) string {
	return richText.Sanitize(s)
}

// RoundRating rounds an average to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
