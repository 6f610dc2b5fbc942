package readability

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Readability runs the extraction engine over one document. It owns the
// document for its lifetime and mutates it in place.
type Readability struct {
	doc     *goquery.Document
	options Options
	session *Session
	body    *html.Node
}

// Result is the outcome of Parse.
type Result struct {
	Content string     // Article markup
	Node    *html.Node // Container the content was rendered from
	Found   bool       // false when every pass came up short
	Pages   int        // Pages assembled, the first included
}

// NewFromDocument creates a new Readability parser from a goquery document
func NewFromDocument(doc *goquery.Document, opts *Options) *Readability {
	options := DefaultOptions()
	if opts != nil {
		options = *opts
	}

	return &Readability{
		doc:     doc,
		options: options,
		session: NewSession(options),
	}
}

// NewFromHTML preprocesses and parses markup. When the default parse leaves
// the body empty and HTML5 is set, the markup is parsed again with scripting disabled
// so <noscript> content becomes part of the tree.
func NewFromHTML(markup string, opts *Options) (*Readability, error) {
	options := DefaultOptions()
	if opts != nil {
		options = *opts
	}

	markup = PreprocessMarkup(markup)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, WrapParseError(err, "NewFromHTML", "failed to parse HTML document")
	}

	if body := findBody(doc); (body == nil || isBlankBody(body)) && options.HTML5 {
		root, err := html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
		if err != nil {
			return nil, WrapParseError(err, "NewFromHTML", "html5 re-parse failed")
		}
		doc = goquery.NewDocumentFromNode(root)
	}

	return NewFromDocument(doc, &options), nil
}

// Document returns the document being extracted from.
func (r *Readability) Document() *goquery.Document {
	return r.doc
}

// Session returns the extraction session.
func (r *Readability) Session() *Session {
	return r.session
}

// Body returns the prepared body, nil before Prepare.
func (r *Readability) Body() *html.Node {
	return r.body
}

// Prepare establishes the body and strips scripts, styles, iframes and
// comment sections. It fails with ErrNoBody when no body can be found or made.
func (r *Readability) Prepare(ctx context.Context) error {
	var err error
	r.session.prof.timed("prepDocument", func() {
		r.body, err = r.session.prepareDocument(ctx, r.doc)
	})
	return err
}

// Parse selects the article content, follows next-page links when
// pagination is on, and renders the result. Running out of heuristics is not
// an error: the result is empty with Found unset.
func (r *Readability) Parse(ctx context.Context) (*Result, error) {
	if r.body == nil {
		if err := r.Prepare(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, WrapTimeoutError(err, "Parse", "")
	}

	s := r.session
	if href := s.currentHref(); href != "" {
		s.parsedPages[href] = true
	}

	// Look for the next page before the tree is rearranged.
	var nextPageLink string
	if s.pagination {
		nextPageLink = s.findNextPageLink(r.body)
	}

	var article *html.Node
	s.prof.timed("grabArticle", func() {
		article = s.grabArticle(r.body)
	})

	found := article != nil
	if !found {
		article = createElement("div")
		setAttr(article, "id", "content")
	}

	if found && nextPageLink != "" {
		s.prof.timed("appendNextPages", func() {
			s.appendNextPages(ctx, article, nextPageLink)
		})
	}

	if r.options.RemoveReadabilityArtifacts {
		removeReadabilityArtifacts(article)
	}
	if r.options.RemoveClassNames {
		removeClassNames(article)
	}

	content := outerHTML(article)
	if r.options.RemoveReadabilityArtifacts {
		content = innerHTML(article)
	}

	return &Result{
		Content: content,
		Node:    article,
		Found:   found,
		Pages:   s.curPageNum,
	}, nil
}
