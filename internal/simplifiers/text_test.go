package simplifiers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestNormalizeUnicode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "NFKC normalization combines characters",
			input: "é",
			want:  "é",
		},
		{
			name:  "NFKC normalization handles special spaces",
			input: "hello world",
			want:  "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeUnicode(tt.input); got != tt.want {
				t.Errorf("NormalizeUnicode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "  Jane \t Doe\n", "Jane Doe"},
		{"strips control chars", "Jane\u0000 Doe", "Jane Doe"},
		{"nbsp becomes a space", "Jane Doe", "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestInnerText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body><div id="x">  Hello <!-- skipped --><b>big</b>
		   world  </div></body></html>`))
	require.NoError(t, err)

	var div *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			div = n
			return
		}
		for c := n.FirstChild; c != nil && div == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	require.NotNil(t, div)

	assert.Equal(t, "Hello big world", InnerText(div, true))
	assert.Contains(t, InnerText(div, false), "\n")
	assert.NotContains(t, NodeText(div), "skipped")
	assert.Equal(t, "", InnerText(nil, true))
}

func TestLength(t *testing.T) {
	assert.Equal(t, 4, Length("caf\u00e9"))
	assert.Equal(t, 0, Length(""))
}
