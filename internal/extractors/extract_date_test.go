package extractors

import (
	"testing"
	"time"
)

var fixedClock = DateParser{Now: func() time.Time {
	return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
}}

func TestDateParserStrict(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		expected string
	}{
		{"Compact NYTimes style", "20101028", "2010-10-28"},
		{"Compact inside a path", "/pages/20101028/story", "2010-10-28"},
		{"RFC3339", "2023-03-27T15:04:05Z", "2023-03-27"},
		{"ISO8601 with timezone offset keeps the local date", "2023-03-27T23:30:00-05:00", "2023-03-27"},
		{"ISO8601 with milliseconds", "2023-03-27T15:04:05.123Z", "2023-03-27"},
		{"ISO8601 date only", "2023-03-27", "2023-03-27"},
		{"RFC1123", "Mon, 06 May 2013 10:00:00 EST", "2013-05-06"},
		{"Slashes", "2013/05/03", "2013-05-03"},
		{"US format", "05/03/2013", "2013-05-03"},
		{"At and clock time", "May 6, 2013 AT 1:00 AM", "2013-05-06"},
		{"Ordinal suffix", "February 4th, 2013  10:58 am", "2013-02-04"},
		{"Timezone abbreviation", "September 17, 2012 at 10:09am PST", "2012-09-17"},
		{"Not a date", "Breaking news", ""},
		{"Empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := fixedClock.Strict(tt.dateStr)
			if ok != (tt.expected != "") {
				t.Fatalf("Strict(%q) ok = %v, expected %v", tt.dateStr, ok, tt.expected != "")
			}
			if result != tt.expected {
				t.Errorf("Strict(%q) = %q, expected %q", tt.dateStr, result, tt.expected)
			}
		})
	}
}

func TestDateParserFuzzy(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		expected string
	}{
		{"Days ago", "3 days ago", "2024-06-07"},
		{"Hours ago", "Updated 36 hours ago", "2024-06-09"},
		{"Weeks ago", "2 weeks ago", "2024-05-27"},
		{"Yesterday", "yesterday", "2024-06-09"},
		{"Free form", "12 Feb 2006, 19:17", "2006-02-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := fixedClock.Parse(tt.dateStr)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.dateStr)
			}
			if result != tt.expected {
				t.Errorf("Parse(%q) = %q, expected %q", tt.dateStr, result, tt.expected)
			}
		})
	}
}

func TestDateFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://petapixel.com/2013/05/03/why-you-should-generally-only-show-5-photos/", "2013-05-03"},
		{"http://ruvr.co.uk/2013_05_02/Controversial-Mariinsky-2-opens/", "2013-05-02"},
		{"http://www.detroitnews.com/article/20130506/NATION/305060333", "2013-05-06"},
		{"http://example.com/1985/01/01/too-old", ""},
		{"http://example.com/2099/01/01/future", ""},
		{"http://example.com/news/story", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			date := fixedClock.FromURL(tt.url)
			result := ""
			if date != nil {
				result = date.Date
				if date.Algorithm != "url" {
					t.Errorf("Expected algorithm url, got %q", date.Algorithm)
				}
			}
			if result != tt.expected {
				t.Errorf("FromURL(%q) = %q, expected %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestDateFromMeta(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
		count    int
	}{
		{
			name:     "Published time",
			html:     `<html><head><meta property="article:published_time" content="2013-05-03T10:00:00Z"></head></html>`,
			expected: "2013-05-03",
			count:    1,
		},
		{
			name: "Dublin Core wins outright",
			html: `<html><head>
				<meta name="date" content="2013-05-03">
				<meta name="DC.date.issued" content="2012-01-01">
				<meta name="pubdate" content="2014-02-02">
			</head></html>`,
			expected: "2012-01-01",
			count:    99,
		},
		{
			name: "Most frequent value wins",
			html: `<html><head>
				<meta name="date" content="2013-05-03">
				<meta property="og:updated_time" content="2014-02-02">
				<meta itemprop="datePublished" content="2014-02-02">
			</head></html>`,
			expected: "2014-02-02",
			count:    2,
		},
		{
			name: "Blacklisted and unparseable values are skipped",
			html: `<html><head>
				<meta name="msvalidate.01" content="20131122ABCDEF">
				<meta name="timezone" content="2013-01-01">
				<meta name="date" content="soon">
				<meta name="publish-date" content="2015-07-08">
			</head></html>`,
			expected: "2015-07-08",
			count:    1,
		},
		{
			name:     "No date",
			html:     `<html><head><meta name="description" content="A story"></head></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := fixedClock.FromMeta(parseDoc(t, tt.html))
			if tt.expected == "" {
				if date != nil {
					t.Errorf("Expected no date, got %+v", date)
				}
				return
			}
			if date == nil {
				t.Fatalf("Expected date %q, got none", tt.expected)
			}
			if date.Date != tt.expected || date.Count != tt.count || date.Algorithm != "meta" {
				t.Errorf("Expected %s (count %d, meta), got %+v", tt.expected, tt.count, date)
			}
		})
	}
}

func TestDateFromTimeTags(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<time datetime="2013-05-01">May 1</time>
		<time datetime="2013-05-03T09:00:00Z">May 3</time>
		<time datetime="2013-05-03T18:30:00Z">May 3, evening</time>
		<time>no attribute</time>
	</body></html>`)

	date := fixedClock.FromTimeTags(doc)
	if date == nil {
		t.Fatal("Expected a date from the time tags")
	}
	if date.Date != "2013-05-03" || date.Count != 2 || date.Algorithm != "based on time tag" {
		t.Errorf("Unexpected time tag date %+v", date)
	}
}

func TestDateNearAuthor(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="post-meta">
			<span class="byline">By <a href="/people/jd">John Doe</a></span>
			<span class="date">May 3, 2013</span>
		</div>
		<p>Story text first published on June 1, 2012.</p>
	</body></html>`)

	author := AuthorFromTree(doc)
	if author == nil {
		t.Fatal("Expected an author")
	}

	date := fixedClock.NearAuthor(author.Nodes)
	if date == nil {
		t.Fatal("Expected a date near the author")
	}
	if date.Date != "2013-05-03" || date.Algorithm != "based on author" {
		t.Errorf("Unexpected date %+v", date)
	}
}
