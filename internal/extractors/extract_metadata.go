package extractors

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/readability"
	"github.com/sr3d/node-readability/types"
)

// Metadata is what the heuristics found besides the content.
type Metadata struct {
	Title         string
	RawTitle      string
	Author        string
	PublishedDate *types.PublishedDate
	Images        []types.Image
}

// Extractor runs the metadata heuristics over a prepared document.
type Extractor struct {
	Dates  DateParser
	Logger zerolog.Logger
}

// NewExtractor returns an Extractor logging to logger.
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{Logger: logger}
}

// Extract runs, in order: images, meta author, meta date, URL date, time
// tags, the tree search for the author and finally dates near the author.
// Each date source is only consulted while no date has been found. A
// heuristic that panics is logged and skipped.
func (e *Extractor) Extract(doc *html.Node, pageURL string) Metadata {
	var md Metadata
	var author *Author

	e.guard("title", func() {
		md.RawTitle = DocumentTitle(doc)
		md.Title = ExtractTitle(doc)
	})
	e.guard("images", func() { md.Images = ExtractImages(doc, pageURL) })
	e.guard("authorMeta", func() { author = AuthorFromMeta(doc) })

	e.guard("dateMeta", func() { md.PublishedDate = e.Dates.FromMeta(doc) })
	if md.PublishedDate == nil && pageURL != "" {
		e.guard("dateURL", func() { md.PublishedDate = e.Dates.FromURL(pageURL) })
	}
	if md.PublishedDate == nil {
		e.guard("dateTimeTags", func() { md.PublishedDate = e.Dates.FromTimeTags(doc) })
	}

	e.guard("authorTree", func() {
		if author == nil {
			author = AuthorFromTree(doc)
		}
		if md.PublishedDate == nil && author != nil && len(author.Nodes) > 0 {
			md.PublishedDate = e.Dates.NearAuthor(author.Nodes)
		}
	})

	if author != nil {
		md.Author = CleanAuthor(author.Name)
		e.Logger.Debug().Str("author", md.Author).Str("algorithm", author.Algorithm).Msg("author found")
	}
	if md.PublishedDate != nil {
		e.Logger.Debug().Str("date", md.PublishedDate.Date).Str("algorithm", md.PublishedDate.Algorithm).Msg("date found")
	}
	return md
}

func (e *Extractor) guard(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := readability.WrapMetadataError(fmt.Errorf("%v", r), stage, "heuristic panicked")
			e.Logger.Warn().Err(err).Msg("metadata heuristic skipped")
		}
	}()
	fn()
}
