package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/types"
)

// Options configures an extraction session.
type Options struct {
	Debug   bool // Debug mode: trace scores, removals and paging decisions
	Profile bool // Time each stage and report when done

	RemoveReadabilityArtifacts bool // Unwrap page containers and drop separators
	RemoveClassNames           bool // Strip every class attribute from the output
	HTML5                      bool // Re-parse with scripting disabled when no body is found

	Pagination   bool          // Follow next-page links
	MaxPages     int           // Pages stitched before a manual link is left (0 = DefaultMaxPages)
	FetchTimeout time.Duration // Per next-page request (0 = DefaultFetchTimeout)
	Fetcher      types.Fetcher // Used for next pages and same-origin frames

	PageURL string          // Address the document was loaded from
	Logger  *zerolog.Logger // nil disables logging
}

// DefaultOptions mirrors the defaults of the public API.
func DefaultOptions() Options {
	return Options{
		RemoveReadabilityArtifacts: true,
		RemoveClassNames:           true,
		MaxPages:                   DefaultMaxPages,
		FetchTimeout:               DefaultFetchTimeout,
	}
}

// Session carries the state of one multi-page extraction. It is built fresh
// for every document and must not be shared between goroutines.
type Session struct {
	flags  int
	scores map[*html.Node]float64

	parsedPages map[string]bool
	pageETags   map[string]bool
	curPageNum  int

	pageURL      *url.URL
	pagination   bool
	maxPages     int
	fetcher      types.Fetcher
	fetchTimeout time.Duration

	logger zerolog.Logger
	prof   *profiler
}

// NewSession creates a session with every flag active.
func NewSession(opts Options) *Session {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else if logger.GetLevel() < zerolog.InfoLevel {
		logger = logger.Level(zerolog.InfoLevel)
	}

	s := &Session{
		flags:        flagsAll,
		scores:       make(map[*html.Node]float64),
		parsedPages:  make(map[string]bool),
		pageETags:    make(map[string]bool),
		curPageNum:   1,
		pagination:   opts.Pagination,
		maxPages:     opts.MaxPages,
		fetcher:      opts.Fetcher,
		fetchTimeout: opts.FetchTimeout,
		logger:       logger,
	}
	if s.maxPages <= 0 {
		s.maxPages = DefaultMaxPages
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	if opts.PageURL != "" {
		if u, err := url.Parse(opts.PageURL); err == nil {
			s.pageURL = u
		} else {
			logger.Debug().Err(err).Str("url", opts.PageURL).Msg("ignoring unparseable page url")
		}
	}
	s.prof = newProfiler(opts.Profile, logger)
	return s
}

func (s *Session) flagIsActive(flag int) bool {
	return s.flags&flag > 0
}

func (s *Session) addFlag(flag int) {
	s.flags |= flag
}

func (s *Session) removeFlag(flag int) {
	s.flags &^= flag
}

// resetFlags re-arms every heuristic and forgets all scores; used at the
// start of each page.
func (s *Session) resetFlags() {
	s.addFlag(flagsAll)
	s.scores = make(map[*html.Node]float64)
}

// RecordETag marks an ETag as already seen, typically the one of the first
// page when it was fetched by the caller.
func (s *Session) RecordETag(etag string) {
	if etag != "" {
		s.pageETags[etag] = true
	}
}

// Pages returns the number of pages assembled so far.
func (s *Session) Pages() int {
	return s.curPageNum
}

// Logger returns the session logger.
func (s *Session) Logger() *zerolog.Logger {
	return &s.logger
}

// ReportProfile logs the per-stage timings collected so far.
func (s *Session) ReportProfile() {
	s.prof.report()
}

// Timed runs fn as a named profiling stage.
func (s *Session) Timed(name string, fn func()) {
	s.prof.timed(name, fn)
}

// currentHref is the page URL without a trailing slash.
func (s *Session) currentHref() string {
	if s.pageURL == nil {
		return ""
	}
	return strings.TrimSuffix(s.pageURL.String(), "/")
}

// tryMutate runs a tree mutation and recovers if the tree rejects it. The
// node involved is left where it was.
func (s *Session) tryMutate(op string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug().
				Err(WrapCleanupError(ErrMutation, op, "node left in place")).
				Interface("panic", r).
				Msg("mutation skipped")
			ok = false
		}
	}()
	fn()
	return true
}
