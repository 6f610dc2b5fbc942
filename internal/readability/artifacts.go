package readability

import (
	"strings"

	"golang.org/x/net/html"
)

// removeReadabilityArtifacts unwraps the page containers below container.
// Hidden duplicate pages are dropped along with the page separators and the
// marker class of inline paragraphs.
func removeReadabilityArtifacts(container *html.Node) {
	for _, page := range childElements(container) {
		if tagName(page) != "DIV" || !hasClass(page, "page") {
			continue
		}
		if isHidden(page) {
			removeNode(page)
			continue
		}
		for _, sep := range getElementsByTagName(page, "p") {
			if hasClass(sep, "page-separator") {
				removeNode(sep)
			}
		}
		unwrap(page)
	}

	for _, p := range getElementsByTagName(container, "p") {
		if className(p) == "readability-styled" {
			removeAttr(p, "class")
		}
	}
}

// removeClassNames strips every class attribute from n and below.
func removeClassNames(n *html.Node) {
	if n.Type == html.ElementNode {
		removeAttr(n, "class")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		removeClassNames(c)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(className(n)) {
		if c == class {
			return true
		}
	}
	return false
}

func isHidden(n *html.Node) bool {
	style := strings.ReplaceAll(strings.ToLower(getAttr(n, "style")), " ", "")
	return strings.Contains(style, "display:none")
}
