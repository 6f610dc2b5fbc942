/*
Package readability extracts the main article from HTML pages: its content,
title, author, publish date and representative images. Navigation, ads,
comments and other boilerplate are discarded.

Content is found by scoring the paragraphs of the page and propagating the
scores to their ancestors. When the best candidate holds too little text the
document is rescanned with the heuristics relaxed one at a time. Articles
split over several pages can be stitched together by following next-page
links.

Basic Usage:

	import "github.com/sr3d/node-readability"

	// Create a new extractor
	ext := readability.New()

	// Extract from HTML string
	article, err := ext.ExtractFromHTML(ctx, htmlString, "https://example.com/news/story")
	if err != nil {
		// Timeout or cancellation
	}

	// Access article data
	fmt.Printf("Title: %s\n", article.Title)
	fmt.Printf("Author: %s\n", article.Author)
	fmt.Printf("Date: %s\n", article.Date)
	fmt.Printf("Content: %s\n", article.Content)

Advanced Usage with Options:

	ext := readability.New(
		readability.WithPagination(true),
		readability.WithMaxPages(10),
		readability.WithTimeout(time.Second*60),
		readability.WithLogger(zerolog.New(os.Stderr)),
	)

	// Fetch and extract, following next-page links
	article, err := ext.ExtractFromURL(ctx, "https://example.com/news/story")

Options can also be read from a YAML file with LoadConfig.
*/
package readability
