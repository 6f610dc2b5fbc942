package extractors

import "testing"

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Site name after a pipe is dropped",
			html:     `<html><head><title>How the quick brown fox escaped | Daily News</title></head><body></body></html>`,
			expected: "How the quick brown fox escaped",
		},
		{
			name:     "Short remainder keeps the original",
			html:     `<html><head><title>Daily News - Fox escapes</title></head><body></body></html>`,
			expected: "Daily News - Fox escapes",
		},
		{
			name:     "Section prefix before a colon is dropped",
			html:     `<html><head><title>Science: Researchers find a new species of frog</title></head><body></body></html>`,
			expected: "Researchers find a new species of frog",
		},
		{
			name:     "Short title falls back to the only h1",
			html:     `<html><head><title>Home</title></head><body><h1>Scientists discover a new species in the Amazon</h1></body></html>`,
			expected: "Scientists discover a new species in the Amazon",
		},
		{
			name: "Several h1 elements keep the original",
			html: `<html><head><title>Home</title></head><body>
				<h1>Scientists discover a new species in the Amazon</h1>
				<h1>Other stories from around the world today</h1>
			</body></html>`,
			expected: "Home",
		},
		{
			name:     "Whitespace is collapsed",
			html:     "<html><head><title>\n  A   long and winding road\n  through the hills </title></head><body></body></html>",
			expected: "A long and winding road through the hills",
		},
		{
			name:     "No title",
			html:     `<html><head></head><body><p>Nothing here</p></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ExtractTitle(parseDoc(t, tt.html)); result != tt.expected {
				t.Errorf("Expected title %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Site name is kept",
			html:     `<html><head><title>How the quick brown fox escaped | Daily News</title></head><body></body></html>`,
			expected: "How the quick brown fox escaped | Daily News",
		},
		{
			name:     "Whitespace is collapsed",
			html:     "<html><head><title>\n  Science:   new   frog\n</title></head><body></body></html>",
			expected: "Science: new frog",
		},
		{
			name:     "No title",
			html:     `<html><head></head><body></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := DocumentTitle(parseDoc(t, tt.html)); result != tt.expected {
				t.Errorf("Expected raw title %q, got %q", tt.expected, result)
			}
		})
	}
}
