package readability

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// CollapseBreaks turns runs of two or more <br> into a paragraph break.
func CollapseBreaks(markup string) string {
	return RegexpReplaceBrs.ReplaceAllString(markup, "</p><p>")
}

// ReplaceFonts turns <font> tags into <span> tags.
func ReplaceFonts(markup string) string {
	return RegexpReplaceFonts.ReplaceAllString(markup, "<${1}span>")
}

// PreprocessMarkup applies the raw-markup rewrites done before the first
// parse: the first <html ...> tag loses its attributes, break runs become
// paragraphs and fonts become spans.
func PreprocessMarkup(markup string) string {
	if loc := RegexpHTMLOpenTag.FindStringIndex(markup); loc != nil {
		markup = markup[:loc[0]] + "<html>" + markup[loc[1]:]
	}
	return ReplaceFonts(CollapseBreaks(markup))
}

// PreprocessPageMarkup readies a fetched next page: scripts go, noscript
// content becomes visible, then the usual break and font rewrites apply.
func PreprocessPageMarkup(markup string) string {
	markup = RegexpScriptBlock.ReplaceAllString(markup, "")
	markup = RegexpNoscriptTag.ReplaceAllString(markup, "<${1}div")
	return ReplaceFonts(CollapseBreaks(markup))
}

// findBody returns the <body> of doc, or its <frameset> for frame documents.
func findBody(doc *goquery.Document) *html.Node {
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body.Get(0)
	}
	if frameset := doc.Find("frameset").First(); frameset.Length() > 0 {
		return frameset.Get(0)
	}
	return nil
}

// isBlankBody reports whether body holds nothing to extract: no text and no
// elements besides scripts, styles, iframes and <noscript> blocks that were
// kept as raw text.
func isBlankBody(body *html.Node) bool {
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if !isWhitespaceText(c) {
				return false
			}
		case html.ElementNode:
			switch tagName(c) {
			case "SCRIPT", "STYLE", "IFRAME":
			case "NOSCRIPT":
				if len(childElements(c)) > 0 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// prepareDocument establishes the body root, swaps in the best frame for
// frame documents and strips noise. It returns the node extraction starts from.
func (s *Session) prepareDocument(ctx context.Context, doc *goquery.Document) (*html.Node, error) {
	if doc == nil {
		return nil, WrapParseError(ErrNoBody, "prepareDocument", "no document")
	}

	body := findBody(doc)
	if body == nil {
		return nil, WrapParseError(ErrNoBody, "prepareDocument", "")
	}

	if tagName(body) == "FRAMESET" {
		body = s.substituteFrame(ctx, body)
	}

	root := doc.Selection.Get(0)
	for _, tag := range []string{"script", "style", "iframe"} {
		removeTags(root, tag)
	}
	s.removeCommentNodes(body)

	if isBlankBody(body) {
		return nil, WrapParseError(ErrNoBody, "prepareDocument", "body is empty")
	}
	return body, nil
}

// substituteFrame picks the largest frame that is same-origin and loadable
// and returns a new body holding its content. When none qualifies the
// frameset itself is kept.
func (s *Session) substituteFrame(ctx context.Context, frameset *html.Node) *html.Node {
	frames := getElementsByTagName(frameset, "frame")
	if len(frames) == 0 {
		return frameset
	}

	var biggest *html.Node
	biggestSize, bestSize := 0, -1
	var bestBody *html.Node

	for _, frame := range frames {
		size := frameSize(frame)
		if size > biggestSize {
			biggestSize = size
			biggest = frame
		}
		if size > bestSize {
			if body := s.loadFrameBody(ctx, frame); body != nil {
				bestSize = size
				bestBody = body
			}
		}
	}

	if biggest != nil {
		s.logger.Debug().Str("src", getAttr(biggest, "src")).Int("size", biggestSize).Msg("biggest frame")
	}
	if bestBody == nil || frameset.Parent == nil {
		return frameset
	}

	newBody := createElement("body")
	moveChildren(newBody, bestBody)
	replaceNode(newBody, frameset)
	return newBody
}

// frameSize is width plus height, from the frame's attributes or else from
// the cols and rows of its frameset.
func frameSize(frame *html.Node) int {
	index := 0
	for sib := frame.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if tagName(sib) == "FRAME" || tagName(sib) == "FRAMESET" {
			index++
		}
	}

	width := leadingInt(getAttr(frame, "width"))
	height := leadingInt(getAttr(frame, "height"))
	if width == 0 {
		width = framesetDimension(frame.Parent, "cols", index)
	}
	if height == 0 {
		height = framesetDimension(frame.Parent, "rows", index)
	}
	return width + height
}

func framesetDimension(frameset *html.Node, attr string, index int) int {
	if frameset == nil {
		return 0
	}
	parts := strings.Split(getAttr(frameset, attr), ",")
	if index >= len(parts) {
		return 0
	}
	return leadingInt(parts[index])
}

// leadingInt reads the decimal digits at the start of s, ignoring spaces.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// loadFrameBody fetches a same-origin frame and returns its body.
func (s *Session) loadFrameBody(ctx context.Context, frame *html.Node) *html.Node {
	src := getAttr(frame, "src")
	if src == "" || s.pageURL == nil || s.fetcher == nil {
		return nil
	}
	u, err := s.pageURL.Parse(src)
	if err != nil || u.Scheme != s.pageURL.Scheme || u.Host != s.pageURL.Host {
		return nil
	}

	resp, err := s.fetchPage(ctx, u.String())
	if err != nil {
		s.logger.Debug().Err(err).Str("src", u.String()).Msg("frame not accessible")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(PreprocessMarkup(resp.Body)))
	if err != nil {
		return nil
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return body.Get(0)
}

func isCommentNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	attrs := strings.Join([]string{
		getAttr(n, "id"),
		getAttr(n, "class"),
		getAttr(n, "name"),
		getAttr(n, "rel"),
	}, " ")
	return !RegexpPossibleContentNode.MatchString(attrs) && RegexpCommentNode.MatchString(attrs)
}

// removeCommentNodes drops comment sections and widgets, walking children
// last to first.
func (s *Session) removeCommentNodes(n *html.Node) {
	for c := n.LastChild; c != nil; {
		prev := c.PrevSibling
		if isCommentNode(c) {
			s.logger.Debug().Str("id", nodeID(c)).Str("class", className(c)).Msg("removing possible comment node")
			removeNode(c)
		} else {
			s.removeCommentNodes(c)
		}
		c = prev
	}
}

// cleanArticle readies the selected content for presentation.
func (s *Session) cleanArticle(article *html.Node) {
	cleanStyles(article)
	killBreaks(article)

	s.cleanConditionally(article, "form")
	s.clean(article, "object")
	s.clean(article, "embed")
	s.clean(article, "h1")

	// A lone h2 is most likely the page title again.
	if countTag(article, "h2") == 1 {
		s.clean(article, "h2")
	}
	s.clean(article, "iframe")

	s.cleanHeaders(article)

	s.cleanConditionally(article, "table")
	s.cleanConditionally(article, "ul")
	s.cleanConditionally(article, "div")

	s.prof.timed("prepArticle remove extra paragraphs", func() {
		removeEmptyParagraphs(article)
	})
	s.prof.timed("prepArticle breaks before paragraphs", func() {
		removeBreaksBeforeParagraphs(article)
	})
}

// cleanStyles drops style attributes from n and below, except on the inline
// paragraphs created during prepping.
func cleanStyles(n *html.Node) {
	if n.Type == html.ElementNode && className(n) != "readability-styled" {
		removeAttr(n, "style")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			cleanStyles(c)
		}
	}
}

// killBreaks collapses each run of <br> and whitespace into one <br>.
func killBreaks(root *html.Node) {
	for _, br := range getElementsByTagName(root, "br") {
		if br.Parent == nil {
			continue
		}
		for next := br.NextSibling; next != nil; next = br.NextSibling {
			if next.Type == html.TextNode {
				trimmed := strings.TrimLeftFunc(next.Data, isBreakSpace)
				if trimmed == "" {
					removeNode(next)
					continue
				}
				next.Data = trimmed
				break
			}
			if tagName(next) == "BR" {
				removeNode(next)
				continue
			}
			break
		}
	}
}

func isBreakSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v', '\u00a0':
		return true
	}
	return false
}

// clean removes every tag element below root. Objects and embeds pointing
// at an allowed video host are kept.
func (s *Session) clean(root *html.Node, tag string) {
	isEmbed := tag == "object" || tag == "embed"
	nodes := getElementsByTagName(root, tag)

	for i := len(nodes) - 1; i >= 0; i-- {
		if isEmbed && isVideoEmbed(nodes[i]) {
			continue
		}
		removeNode(nodes[i])
	}
}

func isVideoEmbed(n *html.Node) bool {
	var values strings.Builder
	for _, a := range n.Attr {
		values.WriteString(a.Val)
		values.WriteString("|")
	}
	if RegexpVideos.MatchString(values.String()) {
		return true
	}
	return RegexpVideos.MatchString(innerHTML(n))
}

// cleanHeaders removes h1 and h2 elements that look like navigation.
func (s *Session) cleanHeaders(root *html.Node) {
	for _, tag := range []string{"h1", "h2"} {
		headers := getElementsByTagName(root, tag)
		for i := len(headers) - 1; i >= 0; i-- {
			if s.classWeight(headers[i]) < 0 || linkDensity(headers[i]) > 0.33 {
				removeNode(headers[i])
			}
		}
	}
}

// removeEmptyParagraphs drops paragraphs with no text and no media.
func removeEmptyParagraphs(root *html.Node) {
	paragraphs := getElementsByTagName(root, "p")
	for i := len(paragraphs) - 1; i >= 0; i-- {
		p := paragraphs[i]
		media := countTag(p, "img") + countTag(p, "embed") + countTag(p, "object")
		if media == 0 && simplifiers.InnerText(p, false) == "" {
			removeNode(p)
		}
	}
}

// removeBreaksBeforeParagraphs drops a <br> whose next non-blank sibling is
// a paragraph.
func removeBreaksBeforeParagraphs(root *html.Node) {
	for _, br := range getElementsByTagName(root, "br") {
		next := br.NextSibling
		var blanks []*html.Node
		for next != nil && isWhitespaceText(next) {
			blanks = append(blanks, next)
			next = next.NextSibling
		}
		if tagName(next) != "P" {
			continue
		}
		for _, b := range blanks {
			removeNode(b)
		}
		removeNode(br)
	}
}
