package extractors

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
	"github.com/sr3d/node-readability/types"
)

// DateLayout is the format of every extracted date.
const DateLayout = "2006-01-02"

const (
	minURLYear         = 1990
	maxFuzzyDateLength = 50
)

var (
	// Meta and element attributes that may carry a date
	possibleDateRegex   = regexp.MustCompile(`(?i)publish|publishdate|lastModifiedDate|date|time|datePublished|displaydate`)
	blacklistedDateMeta = regexp.MustCompile(`(?i)msvalidate|timezone`)
	exactDateMeta       = regexp.MustCompile(`(?i)dc\.date`)

	// Text that looks like it contains a date
	possibleDateValue = regexp.MustCompile(`(?i)\b20\d\d|\bJan|\bFeb|\bMar|\bApril|\bMay|\bJun|\bJul|\bAug|\bSep|\bOct|\bNov|\bDec|\bSun|\bMon|\bTue|\bWed|\bThu|\bFri|\bSat|\d+[\\|/]\d+[\\|/]\d{2}`)

	urlDateRegex = regexp.MustCompile(`/(\d{4}.\d{1,2}.\d{1,2})`)
	nonDigit     = regexp.MustCompile(`\D`)

	// Older NYTimes style 20101028
	compactDateRegex = regexp.MustCompile(`\d{6,}`)

	atRegex       = regexp.MustCompile(`(?i)\bat\b`)
	ordinalRegex  = regexp.MustCompile(`(?i)(\d)(th|st|nd|rd)\b`)
	clockRegex    = regexp.MustCompile(`(?i)\d+\s*:\d+\s*[ap]m`)
	timezoneRegex = regexp.MustCompile(`(?i)\b[pemc][ds]t\b`)
)

// strictLayouts are tried in order before the fuzzy parser.
var strictLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999Z",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01-02Z",
	"20060102T150405Z",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,

	// U.S. before European
	"01/02/2006", "01-02-2006", "01.02.2006",
	"02/01/2006", "02-01-2006", "02.01.2006",
	"01/02/06", "02/01/06",

	"January 2, 2006", "January 2 2006", "2 January 2006",
	"Jan 2, 2006", "Jan 2 2006", "2 Jan 2006",
	"Monday, January 2, 2006", "Mon, January 2, 2006", "Mon, Jan 2, 2006",

	"2006/01/02", "2006.01.02",
}

var relativeDates = []struct {
	re    *regexp.Regexp
	scale func(int) time.Duration
}{
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:second|sec)s?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * time.Second },
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:minute|min)s?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * time.Minute },
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:hour|hr)s?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * time.Hour },
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*days?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * 24 * time.Hour },
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*weeks?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * 7 * 24 * time.Hour },
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*months?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * 30 * 24 * time.Hour }, // Approximation
	},
	{
		re:    regexp.MustCompile(`(?i)(\d+)\s*years?\s*ago`),
		scale: func(n int) time.Duration { return time.Duration(n) * 365 * 24 * time.Hour }, // Approximation
	},
	{
		re:    regexp.MustCompile(`(?i)\byesterday\b`),
		scale: func(_ int) time.Duration { return 24 * time.Hour },
	},
}

// DateParser turns free-form date strings into YYYY-MM-DD. Now anchors
// relative dates such as "3 days ago" and bounds dates read from URLs; nil
// means time.Now.
type DateParser struct {
	Now func() time.Time
}

func (p DateParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Strict parses s with the compact, ISO and regional layouts only.
func (p DateParser) Strict(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if digits := compactDateRegex.FindString(s); digits != "" {
		if date, ok := parseCompactDate(digits); ok {
			return date, true
		}
	}

	if t, ok := parseLayouts(s); ok {
		return t.Format(DateLayout), true
	}

	cleaned := cleanDateString(s)
	if cleaned != s {
		if t, ok := parseLayouts(cleaned); ok {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// Fuzzy resolves relative dates and falls back to dateparse for everything
// the strict layouts do not cover.
func (p DateParser) Fuzzy(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, rel := range relativeDates {
		if m := rel.re.FindStringSubmatch(s); m != nil {
			n := 1
			if len(m) > 1 {
				n, _ = strconv.Atoi(m[1])
			}
			return p.now().Add(-rel.scale(n)).Format(DateLayout), true
		}
	}

	for _, candidate := range []string{cleanDateString(s), s} {
		if candidate == "" {
			continue
		}
		if t, err := dateparse.ParseAny(candidate); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// Parse tries Strict and then Fuzzy.
func (p DateParser) Parse(s string) (string, bool) {
	if date, ok := p.Strict(s); ok {
		return date, true
	}
	return p.Fuzzy(s)
}

// cleanDateString drops what confuses the parsers: "at", ordinal suffixes,
// clock times and US timezone abbreviations.
func cleanDateString(s string) string {
	s = atRegex.ReplaceAllString(s, "")
	s = ordinalRegex.ReplaceAllString(s, "$1")
	s = clockRegex.ReplaceAllString(s, "")
	s = timezoneRegex.ReplaceAllString(s, "")
	return strings.Trim(simplifiers.NormalizeWhitespace(s), " ,")
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCompactDate reads YYYYMMDD, or YYYYMM as the first of the month.
func parseCompactDate(digits string) (string, bool) {
	layout := "20060102"
	if len(digits) < 8 {
		digits, layout = digits[:6], "200601"
	} else {
		digits = digits[:8]
	}
	t, err := time.Parse(layout, digits)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// FromMeta ranks the date-like meta tags by frequency. A Dublin Core date
// wins outright and ends the scan. Values that do not parse are skipped.
func (p DateParser) FromMeta(doc *html.Node) *types.PublishedDate {
	counts := newTally()

	for _, meta := range metas(doc) {
		attributes := attrs(meta, "property", "name", "itemprop")
		if !possibleDateRegex.MatchString(attributes) || blacklistedDateMeta.MatchString(attributes) {
			continue
		}
		content := strings.TrimSpace(htmlquery.SelectAttr(meta, "content"))
		if content == "" {
			continue
		}
		if exactDateMeta.MatchString(htmlquery.SelectAttr(meta, "name")) {
			c := counts.add(content, content, meta, 0)
			c.score = 99
			break
		}
		counts.add(content, content, meta, 1)
	}

	for _, c := range counts.ranked() {
		if date, ok := p.Parse(c.value); ok {
			return &types.PublishedDate{Date: date, Raw: c.raw, Count: int(c.score), Algorithm: "meta"}
		}
	}
	return nil
}

// FromURL reads dates embedded in paths such as /2013/05/03/ or /2013_05_02/.
// Years before 1990 or in the future are rejected.
func (p DateParser) FromURL(pageURL string) *types.PublishedDate {
	m := urlDateRegex.FindStringSubmatch(pageURL)
	if m == nil {
		return nil
	}

	date, ok := p.Parse(nonDigit.ReplaceAllString(m[1], "/"))
	if !ok {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < minURLYear || year > p.now().Year() {
		return nil
	}
	return &types.PublishedDate{Date: date, Raw: m[1], Algorithm: "url"}
}

// FromTimeTags ranks the datetime attributes of <time> elements by frequency.
func (p DateParser) FromTimeTags(doc *html.Node) *types.PublishedDate {
	counts := newTally()
	for _, tag := range htmlquery.Find(doc, "//time[@datetime]") {
		raw := htmlquery.SelectAttr(tag, "datetime")
		if date, ok := p.Parse(raw); ok {
			counts.add(date, raw, tag, 1)
		}
	}

	ranked := counts.ranked()
	if len(ranked) == 0 {
		return nil
	}
	return &types.PublishedDate{
		Date:      ranked[0].value,
		Raw:       ranked[0].raw,
		Count:     int(ranked[0].score),
		Algorithm: "based on time tag",
	}
}

// NearAuthor looks for dates around the nodes the author was found in. For
// each node it climbs the ancestors until a level has a child whose id,
// class, name or rel suggests a date, then searches those children.
func (p DateParser) NearAuthor(authorNodes []*html.Node) *types.PublishedDate {
	counts := newTally()

	for _, authorNode := range authorNodes {
		for _, date := range p.datesNearNode(authorNode) {
			counts.add(date, date, nil, 1)
		}
	}

	ranked := counts.ranked()
	if len(ranked) == 0 {
		return nil
	}
	return &types.PublishedDate{
		Date:      ranked[0].value,
		Count:     int(ranked[0].score),
		Algorithm: "based on author",
	}
}

func (p DateParser) datesNearNode(authorNode *html.Node) []string {
	var dates []string
	found := false

	for parent := authorNode.Parent; !found && parent != nil; parent = parent.Parent {
		for n := parent.FirstChild; n != nil; n = n.NextSibling {
			if n.Type != html.ElementNode || !isPossiblyDateNode(n) {
				continue
			}

			value := strings.TrimSpace(innerText(n))
			date, ok := p.Strict(value)
			if !ok && simplifiers.Length(value) < maxFuzzyDateLength {
				date, ok = p.Fuzzy(value)
			}
			if ok {
				dates = append(dates, date)
			}

			dates = append(dates, p.searchDateNodes(n, value)...)
			found = true
		}
	}
	return dates
}

func isPossiblyDateNode(n *html.Node) bool {
	return possibleDateRegex.MatchString(attrs(n, "id", "class", "name", "rel"))
}

// searchDateNodes walks n depth first through children whose text looks like
// a date and is no longer than the text of n.
func (p DateParser) searchDateNodes(n *html.Node, possibleValue string) []string {
	if n.Type == html.TextNode {
		value := strings.TrimSpace(n.Data)
		if possibleDateValue.MatchString(value) {
			if date, ok := p.Parse(value); ok {
				return []string{date}
			}
		}
		return nil
	}

	var found []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		childContent := strings.TrimSpace(innerText(c))
		if possibleDateValue.MatchString(childContent) &&
			simplifiers.Length(childContent) <= simplifiers.Length(possibleValue) {
			found = append(found, p.searchDateNodes(c, childContent)...)
		}
	}
	return found
}
