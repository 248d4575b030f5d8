package textutil

import (
	"regexp"
	"strings"
)

var lineBreakRegex = regexp.MustCompile(`\r\n|\r|\n`)
var whitespaceRegex = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// Normalize flattens text scraped out of a page so it fits on a single log line.
// Line breaks become spaces, runs of whitespace collapse into one space and the
// result is trimmed.
func Normalize(text string) string {
	text = lineBreakRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate cuts text down to at most n runes.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
