package extractors

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/types"
)

const minImageSize = 100

var (
	jpegRegex     = regexp.MustCompile(`(?i)\.jpe?g`)
	absoluteRegex = regexp.MustCompile(`(?i)^http`)
	styleWidth    = regexp.MustCompile(`(?i)width:\s*(\d+)px`)
	styleHeight   = regexp.MustCompile(`(?i)height:\s*(\d+)px`)
	sizeQuery     = regexp.MustCompile(`(?i)\?w=(\d+)&h=(\d+)`)

	blacklistedImageDomains = []*regexp.Regexp{
		regexp.MustCompile(`(?i)media-cache.+\.pinterest\.com`),
		regexp.MustCompile(`(?i)media-cache.+\.pinimg\.com`),
	}
)

// ExtractImages returns the og:image when the page declares one. Otherwise
// it returns every JPEG that is not known to be a thumbnail.
func ExtractImages(doc *html.Node, pageURL string) []types.Image {
	if og := openGraphImage(doc); og != "" {
		return []types.Image{{URL: resolveURL(og, pageURL), Algorithm: "opengraph"}}
	}

	var images []types.Image
	for _, img := range htmlquery.Find(doc, "//img") {
		src := htmlquery.SelectAttr(img, "src")
		style := htmlquery.SelectAttr(img, "style")

		width := atoi(htmlquery.SelectAttr(img, "width"))
		if width == 0 {
			width = styleDimension(styleWidth, style)
		}
		height := atoi(htmlquery.SelectAttr(img, "height"))
		if height == 0 {
			height = styleDimension(styleHeight, style)
		}
		if m := sizeQuery.FindStringSubmatch(src); m != nil {
			width, height = atoi(m[1]), atoi(m[2])
		}

		if !validImage(src, width, height) {
			continue
		}

		image := types.Image{
			URL:     resolveURL(src, pageURL),
			Width:   width,
			Height:  height,
			Caption: htmlquery.SelectAttr(img, "alt"),
		}
		if width > 0 && height > 0 {
			image.Algorithm = "inline"
		}
		images = append(images, image)
	}
	return images
}

func openGraphImage(doc *html.Node) string {
	for _, meta := range metas(doc) {
		if strings.ToLower(htmlquery.SelectAttr(meta, "property")) == "og:image" {
			return strings.TrimSpace(htmlquery.SelectAttr(meta, "content"))
		}
	}
	return ""
}

// validImage accepts JPEGs off the blacklisted hosts. Size is only checked
// when both dimensions are known.
func validImage(src string, width, height int) bool {
	if !jpegRegex.MatchString(src) {
		return false
	}
	for _, domain := range blacklistedImageDomains {
		if domain.MatchString(src) {
			return false
		}
	}
	if width > 0 && height > 0 && (width < minImageSize || height < minImageSize) {
		return false
	}
	return true
}

func styleDimension(re *regexp.Regexp, style string) int {
	if m := re.FindStringSubmatch(style); m != nil {
		return atoi(m[1])
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// resolveURL makes a relative reference absolute against base. Absolute
// references and unparseable input are returned unchanged.
func resolveURL(ref, base string) string {
	if absoluteRegex.MatchString(ref) || base == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
