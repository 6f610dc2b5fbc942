package readability

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sr3d/node-readability/types"
)

// DefaultTimeout bounds a whole extraction, pagination included.
const DefaultTimeout = 30 * time.Second

// Options configures the extraction process.
type Options struct {
	Debug   bool // Log candidate scores, removed nodes and paging decisions
	Profile bool // Log the time spent in each stage

	RemoveReadabilityArtifacts bool // Unwrap page containers and drop page separators
	RemoveClassNames           bool // Strip every class attribute from the content
	HTML5                      bool // Re-parse with scripting disabled when no body is found

	Pagination   bool          // Follow next-page links
	MaxPages     int           // Pages stitched before a link to the rest is left instead
	Timeout      time.Duration // Bound on the whole extraction
	FetchTimeout time.Duration // Bound on each page request

	Fetcher   types.Fetcher // Retrieves next pages, frames and ExtractFromURL pages
	UserAgent string        // Sent by the default fetcher
	Logger    zerolog.Logger
}

// DefaultOptions returns the default extraction options: artifacts and class
// names are removed, pagination is off and up to 30 pages are stitched when
// it is turned on. Logging is disabled.
func DefaultOptions() Options {
	return Options{
		RemoveReadabilityArtifacts: true,
		RemoveClassNames:           true,
		MaxPages:                   30,
		Timeout:                    DefaultTimeout,
		FetchTimeout:               10 * time.Second,
		Logger:                     zerolog.Nop(),
	}
}

// Option represents a function that modifies Options.
// This follows the functional options pattern for configuring the extractor.
type Option func(*Options)

// WithDebug enables debug traces on the logger.
func WithDebug(enable bool) Option {
	return func(o *Options) {
		o.Debug = enable
	}
}

// WithProfile enables per-stage timing, reported at info level when the
// extraction finishes.
func WithProfile(enable bool) Option {
	return func(o *Options) {
		o.Profile = enable
	}
}

// WithRemoveReadabilityArtifacts controls whether page containers are
// unwrapped and page separators dropped from the content.
func WithRemoveReadabilityArtifacts(enable bool) Option {
	return func(o *Options) {
		o.RemoveReadabilityArtifacts = enable
	}
}

// WithRemoveClassNames controls whether class attributes are stripped from
// the content.
func WithRemoveClassNames(enable bool) Option {
	return func(o *Options) {
		o.RemoveClassNames = enable
	}
}

// WithHTML5 re-parses documents that have no body with scripting disabled,
// so markup inside <noscript> is recovered.
func WithHTML5(enable bool) Option {
	return func(o *Options) {
		o.HTML5 = enable
	}
}

// WithPagination enables following next-page links.
func WithPagination(enable bool) Option {
	return func(o *Options) {
		o.Pagination = enable
	}
}

// WithMaxPages sets the number of pages stitched together. Past it a link to
// the next page is appended instead.
func WithMaxPages(n int) Option {
	return func(o *Options) {
		o.MaxPages = n
	}
}

// WithTimeout sets the timeout duration for extraction.
// This prevents extraction from hanging indefinitely on problematic documents.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithFetchTimeout bounds each page request.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.FetchTimeout = timeout
	}
}

// WithFetcher replaces the HTTP client used for pages and frames.
func WithFetcher(f types.Fetcher) Option {
	return func(o *Options) {
		o.Fetcher = f
	}
}

// WithUserAgent sets the User-Agent of the default fetcher.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.UserAgent = ua
	}
}

// WithLogger sets the logger used by every stage.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
