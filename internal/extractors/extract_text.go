package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// blockSelector lists the elements that become a text block of their own
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, pre, blockquote, dt, dd, td, th"

// ExtractTextBlocks splits article content into plain text blocks in
// document order. Blocks nested in other blocks are only emitted by the
// innermost one; list items are prefixed with "* ".
func ExtractTextBlocks(content string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Skip containers, their inner blocks are visited on their own
		if s.Find(blockSelector).Length() > 0 {
			return
		}

		text := simplifiers.NormalizeText(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "* " + text
		}
		blocks = append(blocks, text)
	})

	if len(blocks) == 0 {
		if text := simplifiers.NormalizeText(doc.Text()); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// PlainText renders article content as paragraphs separated by blank lines.
func PlainText(content string) string {
	return strings.Join(ExtractTextBlocks(content), "\n\n")
}
