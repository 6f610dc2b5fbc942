package readability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sr3d/node-readability"
)

// prose repeats sentence into a 150 character paragraph.
func prose(sentence string) string {
	return strings.Repeat(sentence, 150/len(sentence)+1)[:150]
}

func storyPage(title, sentence, next string) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>` + title + `</title>
		<meta name="author" content="By Jane Doe">
	</head><body>
		<div id="nav"><a href="/">Home</a> <a href="/news">News</a></div>
		<div class="article">`)
	for i := 0; i < 3; i++ {
		b.WriteString("<p>" + prose(sentence) + "</p>\n")
	}
	b.WriteString(`</div>`)
	if next != "" {
		b.WriteString(`<p><a href="` + next + `">Next</a></p>`)
	}
	b.WriteString(`<div class="footer">Copyright 2013 Daily News</div></body></html>`)
	return b.String()
}

const (
	foxTitle    = "How the quick brown fox escaped | Daily News"
	foxSentence = "The fox slipped through the fence, crossed the field and vanished into the woods. "
	henSentence = "Later that week, the farmer counted his hens twice and found none missing at all. "
)

func TestExtractFromHTML(t *testing.T) {
	ext := readability.New()
	markup := storyPage(foxTitle, foxSentence, "")

	article, err := ext.ExtractFromHTML(context.Background(), markup, "http://example.com/2013/05/03/fox-escapes")
	require.NoError(t, err)

	assert.Equal(t, "How the quick brown fox escaped", article.Title)
	assert.Equal(t, foxTitle, article.RawTitle)
	assert.Equal(t, "Jane Doe", article.Author)
	require.NotNil(t, article.PublishedDate)
	assert.Equal(t, "2013-05-03", article.PublishedDate.Date)
	assert.Equal(t, "url", article.PublishedDate.Algorithm)
	assert.Equal(t, "2013-05-03", article.Date)

	assert.Contains(t, article.Content, "vanished into the woods")
	assert.NotContains(t, article.Content, "Copyright")
	assert.NotContains(t, article.Content, "class=")
	assert.Equal(t, 1, article.Pages)
	assert.False(t, article.Error)
	assert.NotNil(t, article.Images)
	assert.Equal(t, utf8.RuneCountInString(markup), article.InputLength)
	assert.GreaterOrEqual(t, article.Time, 0.0)
}

func TestExtractKeepsClassNamesWhenAsked(t *testing.T) {
	ext := readability.New(readability.WithRemoveClassNames(false))
	markup := strings.Replace(storyPage(foxTitle, foxSentence, ""), "<p>", `<p class="lead">`, 1)

	article, err := ext.ExtractFromHTML(context.Background(), markup, "")
	require.NoError(t, err)
	assert.Contains(t, article.Content, `class="lead"`)
}

func TestExtractEmptyDocument(t *testing.T) {
	for _, markup := range []string{"", "<html><body></body></html>", "<!-- x -->", "<frameset></frameset>"} {
		article, err := readability.New().ExtractFromHTML(context.Background(), markup, "")
		require.NoError(t, err, markup)

		assert.True(t, article.Error, markup)
		assert.Equal(t, readability.NoBodyTitle, article.Title, markup)
		assert.Equal(t, "", article.Content, markup)
		assert.NotNil(t, article.Images, markup)
		assert.Empty(t, article.Images, markup)
		assert.Nil(t, article.PublishedDate, markup)
	}
}

func TestExtractNoscriptOnlyPage(t *testing.T) {
	markup := `<html><head><title>` + foxTitle + `</title></head><body><noscript><div class="article">` +
		`<p>` + prose(foxSentence) + `</p><p>` + prose(foxSentence) + `</p><p>` + prose(foxSentence) + `</p>` +
		`</div></noscript></body></html>`

	article, err := readability.New().ExtractFromHTML(context.Background(), markup, "")
	require.NoError(t, err)
	assert.True(t, article.Error, "noscript content stays raw text without html5")

	article, err = readability.New(readability.WithHTML5(true)).ExtractFromHTML(context.Background(), markup, "")
	require.NoError(t, err)
	assert.False(t, article.Error)
	assert.Equal(t, "How the quick brown fox escaped", article.Title)
	assert.Contains(t, article.Content, "vanished into the woods")
}

func TestExtractCountsRunes(t *testing.T) {
	markup := "<html><body><p>café</p></body></html>"
	article, err := readability.New().ExtractFromHTML(context.Background(), markup, "")
	require.NoError(t, err)
	assert.Equal(t, len(markup)-1, article.InputLength)
}

func TestExtractFromReader(t *testing.T) {
	ext := readability.New()

	article, err := ext.ExtractFromReader(context.Background(), strings.NewReader(storyPage(foxTitle, foxSentence, "")), "")
	require.NoError(t, err)
	assert.Contains(t, article.Content, "crossed the field")

	_, err = ext.ExtractFromReader(context.Background(), iotest.ErrReader(errors.New("disk on fire")), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestExtractFromURLFollowsPages(t *testing.T) {
	var requests int32
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(storyPage(foxTitle, foxSentence, "/article/page/2")))
	})
	mux.HandleFunc("/article/page/2", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(storyPage(foxTitle, henSentence, "")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ext := readability.New(readability.WithPagination(true))
	article, err := ext.ExtractFromURL(context.Background(), srv.URL+"/article")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, 2, article.Pages)
	assert.Contains(t, article.Content, "vanished into the woods")
	assert.Contains(t, article.Content, "counted his hens")
	assert.Equal(t, "Jane Doe", article.Author)
}

func TestExtractFromURLSkipsPageWithFirstPageETag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"same"`)
		_, _ = w.Write([]byte(storyPage(foxTitle, foxSentence, "/article/page/2")))
	})
	mux.HandleFunc("/article/page/2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"same"`)
		_, _ = w.Write([]byte(storyPage(foxTitle, henSentence, "")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	article, err := readability.New(readability.WithPagination(true)).ExtractFromURL(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, article.Content, "vanished into the woods")
	assert.NotContains(t, article.Content, "counted his hens")
}

func TestExtractFromURLWithoutPagination(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		_, _ = w.Write([]byte(storyPage(foxTitle, foxSentence, "/article/page/2")))
	}))
	defer srv.Close()

	article, err := readability.New().ExtractFromURL(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	assert.Equal(t, 1, article.Pages)
}

func TestExtractFromURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := readability.New().ExtractFromURL(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

type blockingFetcher struct{}

func (blockingFetcher) Fetch(ctx context.Context, url string) (*readability.PageResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExtractTimeout(t *testing.T) {
	ext := readability.New(
		readability.WithFetcher(blockingFetcher{}),
		readability.WithTimeout(20*time.Millisecond),
	)

	_, err := ext.ExtractFromURL(context.Background(), "http://example.com/slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, readability.ErrTimeout)
	assert.Contains(t, err.Error(), "timed out after 20ms")
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readability.New(readability.WithFetcher(blockingFetcher{})).ExtractFromURL(ctx, "http://example.com/slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultOptions(t *testing.T) {
	opts := readability.DefaultOptions()

	assert.False(t, opts.Debug)
	assert.False(t, opts.Profile)
	assert.True(t, opts.RemoveReadabilityArtifacts)
	assert.True(t, opts.RemoveClassNames)
	assert.False(t, opts.HTML5)
	assert.False(t, opts.Pagination)
	assert.Equal(t, 30, opts.MaxPages)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 10*time.Second, opts.FetchTimeout)
}

func TestBuildInfo(t *testing.T) {
	info := readability.GetBuildInfo()
	assert.Equal(t, readability.Version, info.Version)
	assert.Equal(t, readability.Name, info.Name)
	assert.NotEmpty(t, info.GoVersion)
}
