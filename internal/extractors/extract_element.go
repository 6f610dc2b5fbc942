// Package extractors finds the metadata around an article: its title,
// author, publish date and representative images.
package extractors

import (
	"sort"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// candidate is one value proposed by a heuristic together with the nodes it
// was found in and how strongly it was proposed.
type candidate struct {
	value string
	raw   string
	nodes []*html.Node
	score float64
}

// tally merges repeated values, remembering the order they were first seen in.
type tally struct {
	index map[string]*candidate
	order []*candidate
}

func newTally() *tally {
	return &tally{index: make(map[string]*candidate)}
}

// add credits value with weight and returns its candidate.
func (t *tally) add(value, raw string, node *html.Node, weight float64) *candidate {
	c, ok := t.index[value]
	if !ok {
		c = &candidate{value: value, raw: raw}
		t.index[value] = c
		t.order = append(t.order, c)
	}
	if node != nil {
		c.nodes = append(c.nodes, node)
	}
	c.score += weight
	return c
}

// ranked returns the candidates by descending score. Ties keep first-seen order.
func (t *tally) ranked() []*candidate {
	out := make([]*candidate, len(t.order))
	copy(out, t.order)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

// attrs joins the named attributes of n with spaces and trims the result.
func attrs(n *html.Node, names ...string) string {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = htmlquery.SelectAttr(n, name)
	}
	return strings.TrimSpace(strings.Join(values, " "))
}

// metas returns every <meta> element of the document.
func metas(doc *html.Node) []*html.Node {
	return htmlquery.Find(doc, "//meta")
}

func innerText(n *html.Node) string {
	return simplifiers.InnerText(n, true)
}
