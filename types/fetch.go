package types

import (
	"context"
	"net/http"
)

// PageResponse is the result of a GET issued by a Fetcher.
type PageResponse struct {
	URL    string
	Status int
	Header http.Header
	Body   string
}

// ETag returns the ETag response header, if any.
func (r *PageResponse) ETag() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("ETag")
}

// Successful reports whether the response can be used as a page:
// any 2xx, 304, or status 0 with a non-empty body.
func (r *PageResponse) Successful() bool {
	if r == nil {
		return false
	}
	return (r.Status >= 200 && r.Status < 300) || r.Status == http.StatusNotModified ||
		(r.Status == 0 && r.Body != "")
}

// Fetcher retrieves HTML pages. Implementations must honour ctx cancellation
// and send "Accept: text/html".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*PageResponse, error)
}
