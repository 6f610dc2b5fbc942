package extractors

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestExtractor() *Extractor {
	e := NewExtractor(zerolog.Nop())
	e.Dates = fixedClock
	return e
}

func TestExtractMetaAuthorAndURLDate(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<title>How the quick brown fox escaped | Daily News</title>
		<meta name="author" content="By Jane Doe">
		<meta property="og:image" content="http://example.com/fox.jpg">
	</head><body>
		<div class="byline">By <span>Frank Wilson</span></div>
		<p>The fox was last seen heading north.</p>
	</body></html>`)

	md := newTestExtractor().Extract(doc, "http://example.com/2013/05/03/fox-escapes")

	if md.Title != "How the quick brown fox escaped" {
		t.Errorf("Unexpected title %q", md.Title)
	}
	if md.Author != "Jane Doe" {
		t.Errorf("Expected the meta author to win, got %q", md.Author)
	}
	if md.PublishedDate == nil || md.PublishedDate.Date != "2013-05-03" || md.PublishedDate.Algorithm != "url" {
		t.Errorf("Expected the URL date, got %+v", md.PublishedDate)
	}
	if len(md.Images) != 1 || md.Images[0].URL != "http://example.com/fox.jpg" {
		t.Errorf("Expected the og:image, got %+v", md.Images)
	}
}

func TestExtractTreeAuthorAndTimeTag(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>Fox escapes</title></head><body>
		<div class="byline">By <span>Frank Wilson</span></div>
		<time datetime="2013-05-04T08:00:00Z">Saturday</time>
	</body></html>`)

	md := newTestExtractor().Extract(doc, "http://example.com/news/fox")

	if md.Author != "Frank Wilson" {
		t.Errorf("Expected the tree author, got %q", md.Author)
	}
	if md.PublishedDate == nil || md.PublishedDate.Date != "2013-05-04" || md.PublishedDate.Algorithm != "based on time tag" {
		t.Errorf("Expected the time tag date, got %+v", md.PublishedDate)
	}
	if len(md.Images) != 0 {
		t.Errorf("Expected no images, got %+v", md.Images)
	}
}

func TestExtractDateNearAuthor(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="post-meta">
			<span class="byline">By <a href="/people/jd">John Doe</a></span>
			<span class="date">May 3, 2013</span>
		</div>
	</body></html>`)

	md := newTestExtractor().Extract(doc, "")

	if md.Author != "John Doe" {
		t.Errorf("Expected author John Doe, got %q", md.Author)
	}
	if md.PublishedDate == nil || md.PublishedDate.Date != "2013-05-03" || md.PublishedDate.Algorithm != "based on author" {
		t.Errorf("Expected the date next to the author, got %+v", md.PublishedDate)
	}
}

func TestExtractGuardRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	e := NewExtractor(zerolog.New(&buf))

	ran := false
	e.guard("dateMeta", func() { panic("bad markup") })
	e.guard("title", func() { ran = true })

	if !ran {
		t.Error("Expected the next heuristic to run after a panic")
	}
	if !strings.Contains(buf.String(), "metadata heuristic skipped") || !strings.Contains(buf.String(), "bad markup") {
		t.Errorf("Expected the panic to be logged, got %q", buf.String())
	}
}

func TestExtractDefaultClock(t *testing.T) {
	var p DateParser
	if got := p.now(); time.Since(got) > time.Minute {
		t.Errorf("Expected the wall clock, got %v", got)
	}
}

func TestPlainText(t *testing.T) {
	content := `<div><h2>Head</h2><p>One   two</p><ul><li>a</li><li>b</li></ul></div>`
	expected := "Head\n\nOne two\n\n* a\n\n* b"
	if result := PlainText(content); result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}

	if result := PlainText(`<div>bare <b>text</b></div>`); result != "bare text" {
		t.Errorf("Expected the fallback text, got %q", result)
	}
}
