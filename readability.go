package readability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/sr3d/node-readability/internal/extractors"
	"github.com/sr3d/node-readability/internal/fetch"
	core "github.com/sr3d/node-readability/internal/readability"
)

// NoBodyTitle is the title of the error article returned for markup that
// has no body.
const NoBodyTitle = "ERROR Unable to parse HTML.  doc.body is null"

// ErrTimeout is wrapped by the error returned when an extraction outlives
// its timeout.
var ErrTimeout = core.ErrTimeout

// Extractor defines the interface for article extraction.
// It provides methods to extract article content from HTML strings, readers
// or a URL. pageURL is the address the markup was loaded from; it resolves
// relative links and enables pagination and URL dates. It may be empty.
type Extractor interface {
	// ExtractFromHTML extracts article content from an HTML string
	ExtractFromHTML(ctx context.Context, html, pageURL string) (*Article, error)

	// ExtractFromReader extracts article content from an io.Reader
	ExtractFromReader(ctx context.Context, r io.Reader, pageURL string) (*Article, error)

	// ExtractFromURL fetches pageURL and extracts article content from it
	ExtractFromURL(ctx context.Context, pageURL string) (*Article, error)
}

// articleExtractor is the concrete implementation of the Extractor interface.
type articleExtractor struct {
	options Options
	fetcher Fetcher
}

// New creates a new Extractor instance with the provided options.
//
// Example:
//
//	extractor := readability.New(
//	    readability.WithPagination(true),
//	    readability.WithTimeout(time.Second*60),
//	)
func New(opts ...Option) Extractor {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	fetcher := options.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient(options.UserAgent, options.FetchTimeout, options.Logger)
	}

	return &articleExtractor{
		options: options,
		fetcher: fetcher,
	}
}

// ExtractFromHTML extracts article content from an HTML string.
// Markup without usable content yields an article with empty content and a
// nil error; errors are only returned on timeout or cancellation.
func (e *articleExtractor) ExtractFromHTML(ctx context.Context, html, pageURL string) (*Article, error) {
	return e.withTimeout(ctx, "ExtractFromHTML", func(ctx context.Context) (*Article, error) {
		return e.extract(ctx, html, pageURL, "")
	})
}

// ExtractFromReader reads the entire content from the reader and passes it to
// ExtractFromHTML.
func (e *articleExtractor) ExtractFromReader(ctx context.Context, r io.Reader, pageURL string) (*Article, error) {
	html, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return e.ExtractFromHTML(ctx, string(html), pageURL)
}

// ExtractFromURL fetches the page through the configured Fetcher. The final
// URL after redirects becomes the page URL, and the page's ETag is recorded
// so a next page serving the same document is skipped.
func (e *articleExtractor) ExtractFromURL(ctx context.Context, pageURL string) (*Article, error) {
	return e.withTimeout(ctx, "ExtractFromURL", func(ctx context.Context) (*Article, error) {
		resp, err := e.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
		}
		if !resp.Successful() {
			return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.Status)
		}

		finalURL := resp.URL
		if finalURL == "" {
			finalURL = pageURL
		}
		return e.extract(ctx, resp.Body, finalURL, resp.ETag())
	})
}

// withTimeout runs fn in its own goroutine and waits for the result, the
// timeout or the caller's cancellation, whichever comes first.
func (e *articleExtractor) withTimeout(ctx context.Context, op string, fn func(context.Context) (*Article, error)) (*Article, error) {
	ctx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	type result struct {
		article *Article
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		article, err := fn(ctx)
		resultCh <- result{article, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil && ctx.Err() != nil {
			return nil, e.contextError(ctx, op)
		}
		return res.article, res.err
	case <-ctx.Done():
		return nil, e.contextError(ctx, op)
	}
}

func (e *articleExtractor) contextError(ctx context.Context, op string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return core.WrapTimeoutError(ErrTimeout, op, fmt.Sprintf("extraction timed out after %v", e.options.Timeout))
	}
	return ctx.Err()
}

// extract runs the stages in order: parse, prepare, metadata, content
// selection with pagination, then cleanup of the rendered content.
func (e *articleExtractor) extract(ctx context.Context, html, pageURL, etag string) (*Article, error) {
	start := time.Now()
	inputLength := utf8.RuneCountInString(html)

	r, err := core.NewFromHTML(html, e.coreOptions(pageURL))
	if err != nil {
		return nil, err
	}
	session := r.Session()
	logger := session.Logger()

	if err := r.Prepare(ctx); err != nil {
		if !errors.Is(err, core.ErrNoBody) {
			return nil, err
		}
		logger.Warn().Err(err).Str("url", pageURL).Msg("document has no body")
		return &Article{
			Title:       NoBodyTitle,
			Images:      []Image{},
			Time:        time.Since(start).Seconds(),
			InputLength: inputLength,
			Error:       true,
		}, nil
	}
	session.RecordETag(etag)

	var md extractors.Metadata
	session.Timed("metadata", func() {
		md = extractors.NewExtractor(*logger).Extract(r.Document().Selection.Get(0), pageURL)
	})

	res, err := r.Parse(ctx)
	if err != nil {
		return nil, err
	}
	session.ReportProfile()

	if !res.Found {
		logger.Info().Str("url", pageURL).Msg("no article content found")
	}

	article := &Article{
		Title:         md.Title,
		RawTitle:      md.RawTitle,
		Content:       res.Content,
		Images:        md.Images,
		Author:        md.Author,
		PublishedDate: md.PublishedDate,
		Time:          time.Since(start).Seconds(),
		InputLength:   inputLength,
		Pages:         res.Pages,
	}
	if article.Images == nil {
		article.Images = []Image{}
	}
	if md.PublishedDate != nil {
		article.Date = md.PublishedDate.Date
	}
	return article, nil
}

func (e *articleExtractor) coreOptions(pageURL string) *core.Options {
	logger := e.options.Logger
	return &core.Options{
		Debug:                      e.options.Debug,
		Profile:                    e.options.Profile,
		RemoveReadabilityArtifacts: e.options.RemoveReadabilityArtifacts,
		RemoveClassNames:           e.options.RemoveClassNames,
		HTML5:                      e.options.HTML5,
		Pagination:                 e.options.Pagination,
		MaxPages:                   e.options.MaxPages,
		FetchTimeout:               e.options.FetchTimeout,
		Fetcher:                    e.fetcher,
		PageURL:                    pageURL,
		Logger:                     &logger,
	}
}
