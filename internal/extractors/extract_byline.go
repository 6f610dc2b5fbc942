package extractors

import (
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

var (
	// Elements whose id, class, name, rel or href match may hold a byline
	authorNodeRegex = regexp.MustCompile(`(?i)byline|author`)

	authorMetaRegex       = regexp.MustCompile(`(?i)author|twitter:creator`)
	blacklistedAuthorMeta = regexp.MustCompile(`(?i)author_fbid`)

	authorStopWords = regexp.MustCompile(`(?i)google|twitter|facebook|plus|rss|e.?mail|contact|view|website|subscribe|feed|continue|comment|follow|about|more|report`)

	byRegex      = regexp.MustCompile(`(?i)\bby\b`)
	andRegex     = regexp.MustCompile(`\band\b`)
	digitRegex   = regexp.MustCompile(`\d`)
	urlRegex     = regexp.MustCompile(`(?i)http:`)
	bylinePrefix = regexp.MustCompile(`(?i)^\s*By\s`)
)

// Author is the winning byline candidate.
type Author struct {
	Name      string
	Nodes     []*html.Node // text nodes the name was found in; empty for meta
	Score     float64
	Algorithm string
}

// authorHit is a single text node proposed as a byline.
type authorHit struct {
	value string
	node  *html.Node
	boost float64
}

// AuthorFromMeta ranks the author meta tags by how often each value occurs.
// Values that are links are skipped.
func AuthorFromMeta(doc *html.Node) *Author {
	counts := newTally()

	for _, meta := range metas(doc) {
		attributes := attrs(meta, "property", "name")
		if !authorMetaRegex.MatchString(attributes) || blacklistedAuthorMeta.MatchString(attributes) {
			continue
		}
		content := strings.TrimSpace(htmlquery.SelectAttr(meta, "content"))
		if content == "" || urlRegex.MatchString(content) {
			continue
		}
		counts.add(content, content, nil, 1)
	}

	ranked := counts.ranked()
	if len(ranked) == 0 {
		return nil
	}
	return &Author{Name: ranked[0].value, Score: ranked[0].score, Algorithm: "meta"}
}

// AuthorFromTree searches the text of byline-like elements for something
// shaped like a name. Names following "by" count double.
func AuthorFromTree(doc *html.Node) *Author {
	var hits []authorHit
	for _, n := range htmlquery.Find(doc, "//*") {
		if !authorNodeRegex.MatchString(strings.Join([]string{
			htmlquery.SelectAttr(n, "id"),
			htmlquery.SelectAttr(n, "class"),
			htmlquery.SelectAttr(n, "name"),
			htmlquery.SelectAttr(n, "rel"),
			htmlquery.SelectAttr(n, "href"),
		}, " ")) {
			continue
		}
		possibleAuthor := strings.TrimSpace(innerText(n))
		hits = append(hits, locateAuthorNode(n, possibleAuthor, "")...)
	}

	ranked := rankAuthors(hits)
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0]
	return &Author{Name: strings.TrimSpace(best.value), Nodes: best.nodes, Score: best.score, Algorithm: "tree"}
}

// locateAuthorNode walks n depth first. A child is descended into when its
// text is no longer than the text of n; the text of the other children is
// kept as the context preceding later candidates.
func locateAuthorNode(n *html.Node, possibleAuthor, preceding string) []authorHit {
	switch n.Type {
	case html.TextNode:
		value := strings.TrimSpace(n.Data)
		if simplifiers.Length(value) > 2 &&
			len(strings.Split(value, " ")) <= 5 &&
			!digitRegex.MatchString(value) &&
			!authorStopWords.MatchString(value) {
			boost := 0.0
			if byRegex.MatchString(preceding) {
				boost = 1
			}
			return []authorHit{{value: n.Data, node: n, boost: boost}}
		}
		return nil
	case html.ElementNode:
	default:
		return nil
	}

	var found []authorHit
	siblingsPreceding := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		childContent := strings.TrimSpace(innerText(c))
		length := simplifiers.Length(childContent)
		if length > 2 && length <= simplifiers.Length(possibleAuthor) {
			found = append(found, locateAuthorNode(c, childContent, preceding+" "+strings.TrimSpace(siblingsPreceding))...)
		} else {
			siblingsPreceding += " " + childContent
		}
	}
	return found
}

// rankAuthors merges hits by trimmed value. "A and B" is a strong signal for
// a byline, a colon a weak one against.
func rankAuthors(hits []authorHit) []*candidate {
	counts := newTally()
	for _, hit := range hits {
		value := simplifiers.NormalizeUnicode(strings.TrimSpace(hit.value))
		counts.add(value, hit.value, hit.node, 1+hit.boost)
	}

	for _, c := range counts.order {
		switch {
		case strings.Contains(c.value, ":"):
			c.score -= 0.1
		case andRegex.MatchString(c.value):
			c.score += 99
		}
	}
	return counts.ranked()
}

// CleanAuthor strips a leading "By" and normalises the name.
func CleanAuthor(name string) string {
	return simplifiers.NormalizeText(bylinePrefix.ReplaceAllString(name, ""))
}
