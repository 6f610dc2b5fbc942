package readability

import (
	"github.com/sr3d/node-readability/types"
)

// Article represents the extracted content and metadata from a webpage.
// It contains the title, the HTML content, the author, the publish date and
// representative images.
type Article = types.Article

// Image is a representative picture of the article.
type Image = types.Image

// PublishedDate is the winning publish date and how it was found.
type PublishedDate = types.PublishedDate

// PageResponse is what a Fetcher returns for one page.
type PageResponse = types.PageResponse

// Fetcher retrieves pages for ExtractFromURL, pagination and frames.
type Fetcher = types.Fetcher

// BuildInfo contains version and build information for the library.
type BuildInfo = types.BuildInfo

// GetBuildInfo returns the current version information for the library.
func GetBuildInfo() BuildInfo {
	return types.GetBuildInfo()
}

// Version is the current version of the library.
var Version = types.Version

// Name is the name of the library.
var Name = types.Name
