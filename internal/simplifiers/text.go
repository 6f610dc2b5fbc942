// Package simplifiers holds the text helpers shared by the extraction core and
// the metadata extractors.
package simplifiers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// runs of two or more whitespace characters, nbsp included
	multiSpaceRegex = regexp.MustCompile(`[\s\x{00a0}]{2,}`)
	retainedChars   = map[rune]bool{
		'\t': true,
		'\n': true,
		'\r': true,
		'\f': true,
	}
)

// NormalizeUnicode normalizes text to NFKC form for consistent character representation
func NormalizeUnicode(text string) string {
	return norm.NFKC.String(text)
}

// NormalizeWhitespace replaces runs of whitespace with a single space and trims
func NormalizeWhitespace(text string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")
}

// StripControlChars removes Unicode control characters while retaining specific whitespace chars
func StripControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if !unicode.IsControl(r) || retainedChars[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeText performs all text normalization steps in the correct order.
// It is used to build comparison keys for candidate strings.
func NormalizeText(text string) string {
	text = StripControlChars(text)
	text = NormalizeUnicode(text)
	text = NormalizeWhitespace(text)
	return text
}

// NodeText concatenates the text nodes below n in document order.
// Comments and other non-element nodes are skipped.
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch cur.Type {
		case html.TextNode:
			b.WriteString(cur.Data)
		case html.ElementNode, html.DocumentNode:
			for c := cur.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// InnerText returns the trimmed text of n. With normalizeSpaces set, runs of
// two or more whitespace characters collapse into one space.
func InnerText(n *html.Node, normalizeSpaces bool) string {
	text := strings.TrimSpace(NodeText(n))
	if normalizeSpaces {
		return multiSpaceRegex.ReplaceAllString(text, " ")
	}
	return text
}

// Length counts characters, not bytes.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}
