package extractors

import (
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

var (
	titleSeparator       = regexp.MustCompile(` [\|\-] `)
	titleBeforeLastSep   = regexp.MustCompile(`(.*)[\|\-] .*`)
	titleAfterFirstSep   = regexp.MustCompile(`[^\|\-]*[\|\-](.*)`)
	titleAfterLastColon  = regexp.MustCompile(`.*:(.*)`)
	titleAfterFirstColon = regexp.MustCompile(`[^:]*[:](.*)`)
)

// DocumentTitle is the text of the document <title> with whitespace
// collapsed, or "" when there is none.
func DocumentTitle(doc *html.Node) string {
	titleNode := htmlquery.FindOne(doc, "//title")
	if titleNode == nil {
		return ""
	}
	return simplifiers.NormalizeWhitespace(simplifiers.NodeText(titleNode))
}

// ExtractTitle derives the article title from the document <title>. Site
// names around " | " or " - " and section prefixes before ": " are dropped.
// A title that is very long or very short is replaced by the only <h1>.
// When the result has four words or fewer the original title is kept.
func ExtractTitle(doc *html.Node) string {
	origTitle := DocumentTitle(doc)
	if origTitle == "" {
		return ""
	}
	curTitle := origTitle

	switch {
	case titleSeparator.MatchString(curTitle):
		curTitle = titleBeforeLastSep.ReplaceAllString(origTitle, "${1}")
		if wordCount(curTitle) < 3 {
			curTitle = titleAfterFirstSep.ReplaceAllString(origTitle, "${1}")
		}
	case strings.Contains(curTitle, ": "):
		curTitle = titleAfterLastColon.ReplaceAllString(origTitle, "${1}")
		if wordCount(curTitle) < 3 {
			curTitle = titleAfterFirstColon.ReplaceAllString(origTitle, "${1}")
		}
	case simplifiers.Length(curTitle) > 150 || simplifiers.Length(curTitle) < 15:
		if h1s := htmlquery.Find(doc, "//h1"); len(h1s) == 1 {
			curTitle = innerText(h1s[0])
		}
	}

	curTitle = strings.TrimSpace(curTitle)
	if wordCount(curTitle) <= 4 {
		return origTitle
	}
	return curTitle
}

// wordCount counts the parts between single spaces, so a trailing space adds one.
func wordCount(s string) int {
	return len(strings.Split(s, " "))
}
