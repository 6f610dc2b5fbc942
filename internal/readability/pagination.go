package readability

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
	"github.com/sr3d/node-readability/types"
)

// pageCandidate is a possible next-page link. Repeated links to the same
// href share one candidate.
type pageCandidate struct {
	href     string
	score    float64
	linkText string
}

// findBaseURL strips page numbers, index segments and file extensions from
// the page URL so links to sibling pages can be recognised.
func (s *Session) findBaseURL() string {
	if s.pageURL == nil {
		return ""
	}

	segments := strings.Split(s.pageURL.Path, "/")
	reversed := make([]string, len(segments))
	for i, seg := range segments {
		reversed[len(segments)-1-i] = seg
	}

	firstHasLetters := strings.IndexFunc(reversed[0], isASCIILetter) >= 0

	var cleaned []string
	for i, segment := range reversed {
		// Drop anything that looks like a file extension.
		if dot := strings.Index(segment, "."); dot >= 0 {
			parts := strings.Split(segment, ".")
			if strings.IndexFunc(parts[1], func(r rune) bool { return !isASCIILetter(r) }) < 0 {
				segment = parts[0]
			}
		}

		// EW-CMS style ids, e.g. 0,,20313460_20369436,00.html
		segment = strings.Replace(segment, ",00", "", 1)

		if i < 2 && RegexpPageNumberSuffix.MatchString(segment) {
			segment = RegexpPageNumberSuffix.ReplaceAllString(segment, "")
		}

		del := false
		if i < 2 && isShortNumber(segment) {
			del = true
		}
		if i == 0 && strings.ToLower(segment) == "index" {
			del = true
		}
		if i < 2 && len(segment) < 3 && !firstHasLetters {
			del = true
		}

		if !del {
			cleaned = append(cleaned, segment)
		}
	}

	for i, j := 0, len(cleaned)-1; i < j; i, j = i+1, j-1 {
		cleaned[i], cleaned[j] = cleaned[j], cleaned[i]
	}

	return s.pageURL.Scheme + "://" + s.pageURL.Host + strings.Join(cleaned, "/")
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isShortNumber matches one or two digits.
func isShortNumber(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeHref resolves href against the page URL and drops the fragment
// and one trailing slash.
func (s *Session) normalizeHref(href string) string {
	u, err := s.pageURL.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := u.String()
	if i := strings.Index(resolved, "#"); i >= 0 {
		resolved = resolved[:i]
	}
	return strings.TrimSuffix(resolved, "/")
}

// findNextPageLink scores every anchor below root as a possible link to the
// next page of the article. The best href scoring at least 50 is recorded as
// parsed and returned; "" means none qualified.
func (s *Session) findNextPageLink(root *html.Node) string {
	if s.pageURL == nil {
		return ""
	}

	baseURL := s.findBaseURL()
	current := s.pageURL.String()

	possiblePages := make(map[string]*pageCandidate)
	var order []*pageCandidate

	for _, link := range getElementsByTagName(root, "a") {
		if !hasAttr(link, "href") {
			continue
		}
		linkHref := s.normalizeHref(getAttr(link, "href"))

		if linkHref == "" || linkHref == baseURL || linkHref == current || s.parsedPages[linkHref] {
			continue
		}

		hrefURL, err := url.Parse(linkHref)
		if err != nil || hrefURL.Host != s.pageURL.Host {
			continue
		}

		linkText := innerText(link)
		if RegexpExtraneous.MatchString(linkText) || simplifiers.Length(linkText) > 25 {
			continue
		}

		leftover := strings.Replace(linkHref, baseURL, "", 1)
		if strings.IndexFunc(leftover, isDigit) < 0 {
			continue
		}

		candidate, seen := possiblePages[linkHref]
		if !seen {
			candidate = &pageCandidate{href: linkHref, linkText: linkText}
			possiblePages[linkHref] = candidate
			order = append(order, candidate)
		} else {
			candidate.linkText += " | " + linkText
		}

		candidate.score += s.scorePageLink(link, linkHref, linkText, baseURL, candidate.linkText)
	}

	var top *pageCandidate
	for _, candidate := range order {
		if candidate.score >= nextPageMinScore && (top == nil || top.score < candidate.score) {
			top = candidate
		}
	}
	if top == nil {
		return ""
	}

	nextHref := strings.TrimSuffix(top.href, "/")
	s.logger.Debug().Str("href", nextHref).Float64("score", top.score).Msg("next page found")
	s.parsedPages[nextHref] = true
	return nextHref
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scorePageLink is the score one anchor adds to its href's candidate.
func (s *Session) scorePageLink(link *html.Node, linkHref, linkText, baseURL, accumulatedText string) float64 {
	score := 0.0

	// Links outside the article base are less likely but still possible.
	if !strings.HasPrefix(linkHref, baseURL) {
		score -= 25
	}

	linkData := linkText + " " + className(link) + " " + nodeID(link)
	if RegexpNextLink.MatchString(linkData) {
		score += 50
	}
	if RegexpPaging.MatchString(linkData) {
		score += 25
	}
	if RegexpFirstLast.MatchString(linkData) {
		// "last" is fine once "next" matched; otherwise it's a jump link.
		if !RegexpNextLink.MatchString(accumulatedText) {
			score -= 65
		}
	}
	if RegexpNegative.MatchString(linkData) || RegexpExtraneous.MatchString(linkData) {
		score -= 50
	}
	if RegexpPrevLink.MatchString(linkData) {
		score -= 200
	}

	positiveNodeMatch, negativeNodeMatch := false, false
	for parent := link.Parent; parent != nil && parent.Type == html.ElementNode; parent = parent.Parent {
		classAndID := className(parent) + " " + nodeID(parent)
		if !positiveNodeMatch && RegexpPaging.MatchString(classAndID) {
			positiveNodeMatch = true
			score += 25
		}
		// "footer" is negative, "body-and-footer" is not.
		if !negativeNodeMatch && RegexpNegative.MatchString(classAndID) && !RegexpPositive.MatchString(classAndID) {
			negativeNodeMatch = true
			score -= 25
		}
	}

	// /page/2/, /pagenum/2, ?p=3, ?page=11, ?pagination=34
	if RegexpPagingURL.MatchString(linkHref) || RegexpPageWord.MatchString(linkHref) {
		score += 25
	}

	if RegexpExtraneous.MatchString(linkHref) {
		score -= 15
	}

	// Numbered links get a small bonus biased toward lower pages; 1 is
	// most likely the page we are on.
	if n, ok := parseLeadingInt(linkText); ok && n != 0 {
		if n == 1 {
			score -= 10
		} else {
			score += math.Max(0, float64(10-n))
		}
	}

	return score
}

// parseLeadingInt reads an optionally signed integer at the start of s.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// appendNextPages fetches and appends pages one at a time, starting at next,
// until no further link is found, a duplicate shows up, a fetch fails, the
// page cap is hit or ctx is done.
func (s *Session) appendNextPages(ctx context.Context, article *html.Node, next string) {
	for next != "" {
		if err := ctx.Err(); err != nil {
			s.logger.Debug().Err(WrapTimeoutError(err, "appendNextPages", "")).Msg("pagination stopped")
			return
		}

		s.curPageNum++

		articlePage := createElement("div")
		setAttr(articlePage, "id", fmt.Sprintf("page-%d", s.curPageNum))
		setAttr(articlePage, "class", "page")
		separator := fmt.Sprintf(`<p class="page-separator" title="Page %d">&sect;</p>`, s.curPageNum)
		if err := setInnerHTML(articlePage, separator); err != nil {
			return
		}
		article.AppendChild(articlePage)

		if s.curPageNum > s.maxPages {
			link := fmt.Sprintf(`<div style="text-align: center"><a href="%s">View Next Page</a></div>`, html.EscapeString(next))
			if frag, err := parseFragment(link); err == nil {
				for _, n := range frag {
					articlePage.AppendChild(n)
				}
			}
			return
		}

		next = s.appendPage(ctx, article, articlePage, next)
	}
}

// appendPage loads one page into articlePage and returns the link to the
// page after it.
func (s *Session) appendPage(ctx context.Context, article, articlePage *html.Node, pageURL string) string {
	resp, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		msg := "next page fetch timed out"
		if IsPaginationError(err) {
			msg = "next page fetch failed"
		}
		s.logger.Warn().Err(err).Str("url", pageURL).Msg(msg)
		removeNode(articlePage)
		s.curPageNum--
		return ""
	}

	if etag := resp.ETag(); etag != "" {
		if s.pageETags[etag] {
			s.logger.Debug().Str("etag", etag).Msg("exact duplicate page found via ETag")
			setAttr(articlePage, "style", "display:none")
			return ""
		}
		s.pageETags[etag] = true
	}

	page := createElement("div")
	if err := setInnerHTML(page, PreprocessPageMarkup(resp.Body)); err != nil {
		s.logger.Warn().Err(WrapPaginationError(err, "appendPage", pageURL)).Msg("next page unparseable")
		return ""
	}

	s.resetFlags()

	nextPageLink := s.findNextPageLink(page)
	content := s.grabArticle(page)
	if content == nil {
		s.logger.Debug().Str("url", pageURL).Msg("no content found in page to append")
		return ""
	}

	// The same first paragraph in an earlier page means the site served
	// the same article again.
	if firstP := getElementsByTagName(content, "p"); len(firstP) > 0 {
		pHTML := innerHTML(firstP[0])
		if utf8.RuneCountInString(pHTML) > 100 {
			for i := 1; i <= s.curPageNum; i++ {
				rPage := getElementByID(article, fmt.Sprintf("page-%d", i))
				if rPage != nil && strings.Contains(innerHTML(rPage), pHTML) {
					s.logger.Debug().Int("page", i).Msg("duplicate of earlier page, skipping")
					setAttr(articlePage, "style", "display:none")
					s.parsedPages[pageURL] = true
					return ""
				}
			}
		}
	}

	removeTags(content, "script")
	moveChildren(articlePage, content)

	return nextPageLink
}

// fetchPage requests u through the configured fetcher within the per-page
// timeout.
func (s *Session) fetchPage(ctx context.Context, u string) (*types.PageResponse, error) {
	if s.fetcher == nil {
		return nil, WrapPaginationError(ErrFetchFailed, "fetchPage", "no fetcher configured")
	}

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	resp, err := s.fetcher.Fetch(fctx, u)
	if err != nil {
		if fctx.Err() != nil {
			return nil, WrapTimeoutError(fmt.Errorf("%w: %v", ErrTimeout, err), "fetchPage", u)
		}
		return nil, WrapPaginationError(fmt.Errorf("%w: %v", ErrFetchFailed, err), "fetchPage", u)
	}
	if !resp.Successful() {
		return nil, WrapPaginationError(fmt.Errorf("%w: status %d", ErrFetchFailed, resp.Status), "fetchPage", u)
	}
	return resp, nil
}

func parseFragment(markup string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), createElement("div"))
}
