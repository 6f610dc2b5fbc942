package extractors

import (
	"testing"

	"github.com/sr3d/node-readability/types"
)

const imagePageURL = "http://example.com/news/story"

func TestExtractImagesOpenGraph(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta property="og:image" content="/img/lead.jpg">
	</head><body>
		<img src="http://cdn.example.com/other.jpg" width="640" height="480">
	</body></html>`)

	images := ExtractImages(doc, imagePageURL)
	if len(images) != 1 {
		t.Fatalf("Expected only the og:image, got %+v", images)
	}
	expected := types.Image{URL: "http://example.com/img/lead.jpg", Algorithm: "opengraph"}
	if images[0] != expected {
		t.Errorf("Expected %+v, got %+v", expected, images[0])
	}
}

func TestExtractImagesInline(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="http://cdn.example.com/harbour.jpg" width="640" height="480" alt="The harbour at dawn">
		<img src="/chart.png" width="640" height="480">
		<img src="/thumb.jpg" width="50" height="50">
		<img src="/wide.jpeg" style="width: 300px; height: 200px">
		<img src="http://media-cache-ec0.pinimg.com/pin.jpg" width="640" height="480">
		<img src="/resized.jpg?w=60&amp;h=60" width="800" height="600">
		<img src="/cropped.jpg?w=400&amp;h=300">
		<img src="photo.jpg">
	</body></html>`)

	expected := []types.Image{
		{URL: "http://cdn.example.com/harbour.jpg", Width: 640, Height: 480, Caption: "The harbour at dawn", Algorithm: "inline"},
		{URL: "http://example.com/wide.jpeg", Width: 300, Height: 200, Algorithm: "inline"},
		{URL: "http://example.com/cropped.jpg?w=400&h=300", Width: 400, Height: 300, Algorithm: "inline"},
		{URL: "http://example.com/news/photo.jpg"},
	}

	images := ExtractImages(doc, imagePageURL)
	if len(images) != len(expected) {
		t.Fatalf("Expected %d images, got %d: %+v", len(expected), len(images), images)
	}
	for i := range expected {
		if images[i] != expected[i] {
			t.Errorf("Image %d: expected %+v, got %+v", i, expected[i], images[i])
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		ref, base, expected string
	}{
		{"/a.jpg", "http://example.com/x/y", "http://example.com/a.jpg"},
		{"a.jpg", "http://example.com/x/y", "http://example.com/x/a.jpg"},
		{"HTTP://cdn.example.com/a.jpg", "http://example.com/", "HTTP://cdn.example.com/a.jpg"},
		{"/a.jpg", "", "/a.jpg"},
	}
	for _, tt := range tests {
		if result := resolveURL(tt.ref, tt.base); result != tt.expected {
			t.Errorf("resolveURL(%q, %q) = %q, expected %q", tt.ref, tt.base, result, tt.expected)
		}
	}
}
