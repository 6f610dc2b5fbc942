package readability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sr3d/node-readability"
)

// buildNestedHTML wraps three paragraphs in the given elements, outermost first.
func buildNestedHTML(elements []string, sentence string) string {
	var builder strings.Builder
	builder.WriteString(`<!DOCTYPE html><html><head><title>Test</title></head><body>`)
	for _, el := range elements {
		builder.WriteString("<" + el + ">")
	}
	builder.WriteString("<h3>Deeply Nested Title</h3>")
	for i := 0; i < 3; i++ {
		builder.WriteString("<p>" + prose(sentence) + "</p>")
	}
	for i := len(elements) - 1; i >= 0; i-- {
		builder.WriteString("</" + elements[i] + ">")
	}
	builder.WriteString(`</body></html>`)
	return builder.String()
}

func repeated(el string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = el
	}
	return out
}

func TestDeeplyNestedContent(t *testing.T) {
	testCases := []struct {
		name     string
		elements []string
	}{
		{"ShallowNesting_3Levels", repeated("div", 3)},
		{"NestedDivs_8Levels", repeated("div", 8)},
		{"MixedNesting_10Levels", []string{"article", "section", "div", "div", "div", "main", "div", "div", "div", "div"}},
		{"ExtremeNesting_500Levels", repeated("div", 500)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			markup := buildNestedHTML(tc.elements, "Deeply nested content, several levels down, should still be found. ")

			article, err := readability.New().ExtractFromHTML(context.Background(), markup, "")
			require.NoError(t, err, "Extraction should not fail")
			require.NotNil(t, article, "Article should not be nil")

			assert.Contains(t, article.Content, "should still be found")
			assert.Equal(t, 3, strings.Count(article.Content, "<p>"))
		})
	}
}

func TestDeeplyNestedWithUnlikelyCandidates(t *testing.T) {
	markup := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
	<div class="sidebar"><p>` + prose("Sidebar links and promotions, updated daily, are not part of it. ") + `</p></div>
	<div><div><div><div><div><div class="content-wrapper">
		<h2>Important Nested Heading</h2>
		<p>` + prose("This content is deeply nested, in a wrapper, with strong content signals. ") + `</p>
		<p>` + prose("More substantial paragraph content, to ensure this section has enough text. ") + `</p>
		<p>` + prose("Additional paragraph providing even more context, and more content value. ") + `</p>
	</div></div></div></div></div></div>
</body>
</html>`

	article, err := readability.New().ExtractFromHTML(context.Background(), markup, "")
	require.NoError(t, err)

	assert.Contains(t, article.Content, "deeply nested, in a wrapper")
	assert.NotContains(t, article.Content, "Sidebar links")
}
