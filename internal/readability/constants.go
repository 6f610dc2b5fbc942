// Package readability implements the Arc90 content-identification engine:
// node scoring, candidate selection with flag relaxation, conditional
// cleaning and multi-page stitching.
package readability

import (
	"regexp"
	"time"
)

// Flags for controlling the content extraction process
const (
	FlagStripUnlikelys     = 0x1
	FlagWeightClasses      = 0x2
	FlagCleanConditionally = 0x4

	flagsAll = FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally
)

// Default settings
const (
	// DefaultMaxPages is the number of pages stitched before a manual link is left instead.
	DefaultMaxPages = 30

	// DefaultFetchTimeout bounds each next-page request.
	DefaultFetchTimeout = 10 * time.Second

	// minArticleLength is the text length a pass must reach to be accepted.
	minArticleLength = 250

	// minParagraphLength is the text length below which a paragraph is not scored.
	minParagraphLength = 25

	// nextPageMinScore is the confidence a next-page link needs.
	nextPageMinScore = 50
)

// Class weights
const (
	ClassWeightPositive = 25
	ClassWeightNegative = 25
)

// Regular expressions used in the Readability algorithm.
// These are tuned heuristics; keep their literal semantics.
var (
	RegexpUnlikelyCandidates = regexp.MustCompile(`(?i)combx|comment|community|disqus|extra|foot|header|menu|remark|rss|shoutbox|sidebar|sponsor|ad-break|agegate|pagination|pager|popup|tweet|twitter`)

	RegexpMaybeCandidate = regexp.MustCompile(`(?i)and|article|body|column|main|shadow`)

	RegexpPositive = regexp.MustCompile(`(?i)article|body|content|entry|hentry|main|page|pagination|post|text|blog|story`)

	RegexpNegative = regexp.MustCompile(`(?i)combx|comment|com-|contact|foot|footer|footnote|masthead|media|meta|outbrain|promo|related|scroll|shoutbox|sidebar|sponsor|shopping|tags|tool|widget`)

	RegexpExtraneous = regexp.MustCompile(`(?i)print|archive|comment|discuss|e[\-]?mail|share|reply|all|login|sign|single`)

	// Markup that keeps a <div> from being turned into a <p>
	RegexpDivToPElements = regexp.MustCompile(`(?i)<(a|blockquote|dl|div|img|ol|p|pre|table|ul)`)

	RegexpReplaceBrs = regexp.MustCompile(`(?i)(<br[^>]*>[ \n\r\t]*){2,}`)

	RegexpReplaceFonts = regexp.MustCompile(`(?i)<(/?)font[^>]*>`)

	RegexpVideos = regexp.MustCompile(`(?i)http://(www\.)?(youtube|vimeo)\.com`)

	RegexpNextLink = regexp.MustCompile(`(?i)(next|weiter|continue|>([^\|]|$)|»([^\|]|$))`)

	RegexpPrevLink = regexp.MustCompile(`(?i)(prev|earl|old|new|<|«)`)

	RegexpPaging = regexp.MustCompile(`(?i)pag(e|ing|inat)`)

	RegexpFirstLast = regexp.MustCompile(`(?i)(first|last)`)

	RegexpPagingURL = regexp.MustCompile(`(?i)p(a|g|ag)?(e|ing|ination)?(=|/)[0-9]{1,2}`)

	RegexpPageWord = regexp.MustCompile(`(?i)(page|paging)`)

	RegexpPageNumberSuffix = regexp.MustCompile(`(?i)((_|-)?p[a-z]*|(_|-))[0-9]{1,2}$`)

	RegexpComma = regexp.MustCompile(`[\x{ff0c},]`)

	RegexpSentenceEnd = regexp.MustCompile(`\.( |$)`)

	RegexpCommentNode = regexp.MustCompile(`(?i)disqus|comment|archive|widget`)

	RegexpPossibleContentNode = regexp.MustCompile(`(?i)content|post|entry`)

	RegexpHTMLOpenTag = regexp.MustCompile(`(?i)<html[^>]*>`)

	RegexpScriptBlock = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)

	RegexpNoscriptTag = regexp.MustCompile(`(?i)<(/?)noscript`)
)
