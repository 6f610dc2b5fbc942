package readability

import (
	"fmt"
	"math"

	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// grabArticle finds the main content below page and returns it in a new
// <div id="content">. Each time a pass yields too little text the page is
// restored and one more heuristic is switched off; nil means every flag has
// been exhausted.
func (s *Session) grabArticle(page *html.Node) *html.Node {
	pageCache := innerHTML(page)

	for {
		s.scores = make(map[*html.Node]float64)
		article := s.grabArticlePass(page)

		length := simplifiers.Length(simplifiers.InnerText(article, false))
		if length >= minArticleLength {
			return article
		}

		if err := setInnerHTML(page, pageCache); err != nil {
			s.logger.Debug().Err(WrapExtractionError(err, "grabArticle", "restore page markup")).Msg("giving up")
			return nil
		}

		switch {
		case s.flagIsActive(FlagStripUnlikelys):
			s.removeFlag(FlagStripUnlikelys)
		case s.flagIsActive(FlagWeightClasses):
			s.removeFlag(FlagWeightClasses)
		case s.flagIsActive(FlagCleanConditionally):
			s.removeFlag(FlagCleanConditionally)
		default:
			s.logger.Debug().
				Err(WrapExtractionError(ErrNoContent, "grabArticle", fmt.Sprintf("page %d", s.curPageNum))).
				Msg("no content found with any flags")
			return nil
		}

		s.logger.Debug().
			Int("length", length).
			Int("flags", s.flags).
			Msg("too little content, retrying with fewer heuristics")
	}
}

// grabArticlePass runs one selection pass with the current flags.
func (s *Session) grabArticlePass(page *html.Node) *html.Node {
	var nodesToScore []*html.Node
	s.prof.timed("grabArticle nodePrepping", func() {
		nodesToScore = s.prepNodes(page)
	})

	var candidates []*html.Node
	s.prof.timed("grabArticle calculate scores", func() {
		candidates = s.scoreParagraphs(nodesToScore)
	})

	var topCandidate *html.Node
	s.prof.timed("grabArticle find top candidate", func() {
		topCandidate = s.selectTopCandidate(page, candidates)
	})

	var article *html.Node
	s.prof.timed("grabArticle look through its siblings", func() {
		article = s.mergeSiblings(topCandidate)
	})

	s.prof.timed("prepArticle", func() {
		s.cleanArticle(article)
	})

	if s.curPageNum == 1 {
		wrapper := createElement("div")
		setAttr(wrapper, "id", "page-1")
		setAttr(wrapper, "class", "page")
		moveChildren(wrapper, article)
		article.AppendChild(wrapper)
	}

	return article
}

// prepNodes walks the tree below page with an explicit stack. It drops
// unlikely candidates, turns text-only divs into paragraphs and collects the
// nodes to score. A node that replaces another is pushed again so it is
// visited in turn.
func (s *Session) prepNodes(page *html.Node) []*html.Node {
	stripUnlikely := s.flagIsActive(FlagStripUnlikelys)

	var nodesToScore []*html.Node
	stack := pushChildren(nil, page)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tag := tagName(node)

		if stripUnlikely && tag != "BODY" {
			matchString := className(node) + nodeID(node)
			if RegexpUnlikelyCandidates.MatchString(matchString) &&
				!RegexpMaybeCandidate.MatchString(matchString) {
				s.logger.Debug().Str("match", matchString).Msg("removing unlikely candidate")
				removeNode(node)
				continue
			}
		}

		switch tag {
		case "P", "TD", "PRE":
			nodesToScore = append(nodesToScore, node)
		case "DIV":
			if !RegexpDivToPElements.MatchString(innerHTML(node)) {
				if p := s.divToParagraph(node); p != nil {
					stack = append(stack, p)
					continue
				}
			}
			s.wrapTextChildren(node)
		}

		stack = pushChildren(stack, node)
	}

	return nodesToScore
}

// pushChildren pushes the element children of n so the first child is popped first.
func pushChildren(stack []*html.Node, n *html.Node) []*html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			stack = append(stack, c)
		}
	}
	return stack
}

// divToParagraph replaces div with a <p> holding the same children. It
// returns nil when the tree refused the change.
func (s *Session) divToParagraph(div *html.Node) *html.Node {
	p := createElement("p")
	ok := s.tryMutate("divToParagraph", func() {
		replaceNode(p, div)
		moveChildren(p, div)
	})
	if !ok {
		return nil
	}
	return p
}

// wrapTextChildren wraps each non-blank text child of div in an inline
// paragraph, so loose text inside block containers gets scored.
func (s *Session) wrapTextChildren(div *html.Node) {
	for c := div.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && !isWhitespaceText(c) {
			text := c
			s.tryMutate("wrapTextChildren", func() {
				p := createElement("p")
				setAttr(p, "style", "display:inline")
				setAttr(p, "class", "readability-styled")
				replaceNode(p, text)
				p.AppendChild(text)
			})
		}
		c = next
	}
}

// scoreParagraphs credits each paragraph's parent and, by half, its
// grandparent. It returns the scored ancestors in first-encounter order.
func (s *Session) scoreParagraphs(nodesToScore []*html.Node) []*html.Node {
	var candidates []*html.Node

	for _, node := range nodesToScore {
		parent := node.Parent
		if parent == nil || parent.Type != html.ElementNode {
			continue
		}

		text := innerText(node)
		if simplifiers.Length(text) < minParagraphLength {
			continue
		}

		if !s.isScored(parent) {
			s.initializeNode(parent)
			candidates = append(candidates, parent)
		}

		grandParent := parent.Parent
		if grandParent != nil && grandParent.Type != html.ElementNode {
			grandParent = nil
		}
		if grandParent != nil && !s.isScored(grandParent) {
			s.initializeNode(grandParent)
			candidates = append(candidates, grandParent)
		}

		score := contentScore(text)
		s.scores[parent] += score
		if grandParent != nil {
			s.scores[grandParent] += score / 2
		}
	}

	return candidates
}

// selectTopCandidate scales every candidate by its link density and returns
// the best one. Ties keep the earlier candidate. When nothing usable wins,
// the whole page is moved into a new scored div which is returned instead.
func (s *Session) selectTopCandidate(page *html.Node, candidates []*html.Node) *html.Node {
	var top *html.Node

	for _, c := range candidates {
		s.scores[c] *= 1 - linkDensity(c)

		s.logger.Debug().
			Str("tag", tagName(c)).
			Str("class", className(c)).
			Str("id", nodeID(c)).
			Float64("score", s.scores[c]).
			Msg("candidate")

		if top == nil || s.scores[c] > s.scores[top] {
			top = c
		}
	}

	if top == nil || tagName(top) == "BODY" || top == page || top.Parent == nil || !contains(page, top) {
		top = createElement("div")
		moveChildren(top, page)
		page.AppendChild(top)
		s.initializeNode(top)
	}

	return top
}

// mergeSiblings collects the top candidate and the siblings that look like
// part of the same article into a new <div id="content">.
func (s *Session) mergeSiblings(top *html.Node) *html.Node {
	article := createElement("div")
	setAttr(article, "id", "content")

	topScore := s.scores[top]
	threshold := math.Max(10, topScore*0.2)
	topClass := className(top)

	for _, sibling := range childElements(top.Parent) {
		appendIt := sibling == top

		bonus := 0.0
		if topClass != "" && className(sibling) == topClass {
			bonus += topScore * 0.2
		}

		if score, ok := s.scores[sibling]; ok && score+bonus >= threshold {
			appendIt = true
		}

		if tagName(sibling) == "P" {
			density := linkDensity(sibling)
			text := innerText(sibling)
			length := simplifiers.Length(text)

			if length > 80 && density < 0.25 {
				appendIt = true
			} else if length < 80 && density == 0 && RegexpSentenceEnd.MatchString(text) {
				appendIt = true
			}
		}

		if !appendIt {
			continue
		}

		s.logger.Debug().Str("tag", tagName(sibling)).Str("class", className(sibling)).Msg("appending sibling")

		nodeToAppend := sibling
		if tag := tagName(sibling); tag != "DIV" && tag != "P" {
			div := createElement("div")
			if id := nodeID(sibling); id != "" {
				setAttr(div, "id", id)
			}
			if s.tryMutate("alterSiblingToDiv", func() { moveChildren(div, sibling) }) {
				nodeToAppend = div
			}
		}

		removeAttr(nodeToAppend, "class")
		appendChild(article, nodeToAppend)
	}

	return article
}
