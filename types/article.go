// Package types provides the core data structures shared by the public API
// and the internal extraction packages.
package types

// Image is a representative picture found on the page.
type Image struct {
	URL       string `json:"url"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
}

// PublishedDate describes the winning publish date candidate.
// Date is always formatted as YYYY-MM-DD.
type PublishedDate struct {
	Date      string `json:"date"`
	Raw       string `json:"raw,omitempty"`
	Count     int    `json:"count,omitempty"`
	Algorithm string `json:"algorithm"`
}

// Article represents the extracted content and metadata from a webpage.
// Title is the cleaned-up headline and RawTitle the document <title> as
// found. Content is an HTML fragment. Time is the wall-clock extraction time in seconds
// and InputLength is the rune count of the raw HTML.
type Article struct {
	Title         string         `json:"title"`
	RawTitle      string         `json:"rawTitle,omitempty"`
	Content       string         `json:"content"`
	Images        []Image        `json:"images"`
	Author        string         `json:"author,omitempty"`
	PublishedDate *PublishedDate `json:"publishedDate,omitempty"`
	Date          string         `json:"date,omitempty"`
	Time          float64        `json:"time"`
	InputLength   int            `json:"inputLength"`
	Pages         int            `json:"pages,omitempty"`
	Error         bool           `json:"error,omitempty"`
}
