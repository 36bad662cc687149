// Package sentiment normalizes raw comment text and provides the lexicon
// classification backend.
package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern          = regexp.MustCompile(`<[^>]+>`)
)

// RemoveLinks strips markdown links (keeping the anchor text) and bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// Normalize prepares a raw comment for classification: HTML entities are
// unescaped, markdown collapses to plain text, and links drop out. Comment
// text arrives with all three kinds of noise.
func Normalize(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := tagPattern.ReplaceAllString(string(output), " ")
	text = html.UnescapeString(text)
	plainText := strings.Join(strings.Fields(text), " ")

	return RemoveLinks(plainText)
}
