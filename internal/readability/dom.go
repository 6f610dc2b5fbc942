package readability

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// tagName returns the uppercase tag name of an element, or "" for other nodes
func tagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToUpper(n.Data)
}

func getAttr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func className(n *html.Node) string {
	return getAttr(n, "class")
}

func nodeID(n *html.Node) string {
	return getAttr(n, "id")
}

// createElement builds a detached element. DataAtom must agree with Data or
// the fragment parser and renderer treat the node as unknown.
func createElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// selectionOf wraps a node so goquery can search below it.
func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// getElementsByTagName returns the descendants of n with the given tag, in
// document order. n itself is not included.
func getElementsByTagName(n *html.Node, tag string) []*html.Node {
	if n == nil {
		return nil
	}
	return selectionOf(n).Find(tag).Nodes
}

func countTag(n *html.Node, tag string) int {
	return len(getElementsByTagName(n, tag))
}

// getElementByID finds the first descendant of root carrying id.
func getElementByID(root *html.Node, id string) *html.Node {
	found := selectionOf(root).Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	if found.Length() == 0 {
		return nil
	}
	return found.Get(0)
}

// childElements snapshots the element children of n.
func childElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func innerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

func outerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// setInnerHTML replaces the children of n with the parsed markup.
func setInnerHTML(n *html.Node, markup string) error {
	context := createElement("div")
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return WrapParseError(err, "setInnerHTML", "failed to parse fragment")
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

func removeNode(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// replaceNode puts newNode where old is and detaches old. It panics before
// touching the tree when old has no parent, so callers recovering through
// tryMutate never see a half-made change.
func replaceNode(newNode, old *html.Node) {
	parent := old.Parent
	if parent == nil {
		panic("readability: replaceNode called for a detached node")
	}
	parent.InsertBefore(newNode, old)
	parent.RemoveChild(old)
}

// moveChildren appends every child of src to dst, preserving order.
func moveChildren(dst, src *html.Node) {
	for src.FirstChild != nil {
		c := src.FirstChild
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// appendChild moves child under parent, detaching it first.
func appendChild(parent, child *html.Node) {
	removeNode(child)
	parent.AppendChild(child)
}

// unwrap replaces n by its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// contains reports whether n is root or one of its descendants.
func contains(root, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// removeTags drops every descendant of root with the given tag.
func removeTags(root *html.Node, tag string) {
	nodes := getElementsByTagName(root, tag)
	for i := len(nodes) - 1; i >= 0; i-- {
		removeNode(nodes[i])
	}
}

// isWhitespaceText matches text nodes holding only spaces, nbsp included.
func isWhitespaceText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// innerText is the whitespace-normalised text of n.
func innerText(n *html.Node) string {
	return simplifiers.InnerText(n, true)
}

func textLength(n *html.Node) int {
	return simplifiers.Length(innerText(n))
}
