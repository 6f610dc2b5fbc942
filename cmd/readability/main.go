// Package main provides the command-line interface for the readability
// extractor. It reads HTML from files, standard input or URLs and writes
// the extracted article as JSON, HTML, plain text or Markdown.
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/sr3d/node-readability"
	"github.com/sr3d/node-readability/internal/extractors"
)

// OutputFormat represents the supported output formats for the extracted content.
type OutputFormat string

const (
	FormatJSON     OutputFormat = "json"
	FormatHTML     OutputFormat = "html"
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
)

// extension is the file extension used for batch output.
func (f OutputFormat) extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatJSON, FormatHTML, FormatText, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid output format: %s. Must be one of: json, html, text, markdown", s)
	}
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("readability failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "readability",
		Usage:     "Extract readable content from HTML",
		UsageText: "readability [options] [file | url | -]...",
		Version:   readability.Version,
		Description: "Inputs are HTML files, http(s) URLs or - for standard input (the default).\n" +
			"   Examples:\n" +
			"     readability article.html -o article.json\n" +
			"     readability --format markdown --pagination https://example.com/story\n" +
			"     readability --output-dir ./extracted one.html two.html\n" +
			"     cat article.html | readability --url https://example.com/story -",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(FormatJSON), Usage: "output format: json, html, text or markdown"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path (default: stdout)"},
			&cli.StringFlag{Name: "output-dir", Usage: "output directory for batch processing"},
			&cli.BoolFlag{Name: "compact", Usage: "output compact JSON without indentation"},
			&cli.StringFlag{Name: "url", Usage: "address the file or stdin input was loaded from"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.BoolFlag{Name: "pagination", Usage: "follow next-page links"},
			&cli.IntFlag{Name: "max-pages", Value: 30, Usage: "pages stitched before a link to the rest is left"},
			&cli.DurationFlag{Name: "timeout", Value: readability.DefaultTimeout, Usage: "timeout for each extraction"},
			&cli.DurationFlag{Name: "fetch-timeout", Value: 10 * time.Second, Usage: "timeout for each page request"},
			&cli.StringFlag{Name: "user-agent", Usage: "User-Agent sent when fetching"},
			&cli.BoolFlag{Name: "html5", Usage: "re-parse with scripting disabled when no body is found"},
			&cli.BoolFlag{Name: "keep-classes", Usage: "keep class attributes in the content"},
			&cli.BoolFlag{Name: "keep-artifacts", Usage: "keep page containers and separators"},
			&cli.BoolFlag{Name: "debug", Usage: "log scoring and paging decisions"},
			&cli.BoolFlag{Name: "profile", Usage: "log time spent in each stage"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Action: run,
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case c.Bool("debug"):
		level = zerolog.DebugLevel
	case c.Bool("quiet"):
		level = zerolog.ErrorLevel
	}
	return log.Output(zerolog.ConsoleWriter{Out: c.App.ErrWriter, TimeFormat: time.RFC3339}).Level(level)
}

// extractorOptions layers the config file under the flags that were set.
func extractorOptions(c *cli.Context, logger zerolog.Logger) ([]readability.Option, error) {
	var opts []readability.Option
	if path := c.String("config"); path != "" {
		fileOpts, err := readability.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		opts = append(opts, fileOpts...)
	}

	opts = append(opts, readability.WithLogger(logger))
	if c.IsSet("pagination") {
		opts = append(opts, readability.WithPagination(c.Bool("pagination")))
	}
	if c.IsSet("max-pages") {
		opts = append(opts, readability.WithMaxPages(c.Int("max-pages")))
	}
	if c.IsSet("timeout") {
		opts = append(opts, readability.WithTimeout(c.Duration("timeout")))
	}
	if c.IsSet("fetch-timeout") {
		opts = append(opts, readability.WithFetchTimeout(c.Duration("fetch-timeout")))
	}
	if c.IsSet("user-agent") {
		opts = append(opts, readability.WithUserAgent(c.String("user-agent")))
	}
	if c.IsSet("html5") {
		opts = append(opts, readability.WithHTML5(c.Bool("html5")))
	}
	if c.IsSet("keep-classes") {
		opts = append(opts, readability.WithRemoveClassNames(!c.Bool("keep-classes")))
	}
	if c.IsSet("keep-artifacts") {
		opts = append(opts, readability.WithRemoveReadabilityArtifacts(!c.Bool("keep-artifacts")))
	}
	if c.IsSet("debug") {
		opts = append(opts, readability.WithDebug(c.Bool("debug")))
	}
	if c.IsSet("profile") {
		opts = append(opts, readability.WithProfile(c.Bool("profile")))
	}
	return opts, nil
}

func run(c *cli.Context) error {
	logger := newLogger(c)

	format, err := parseFormat(c.String("format"))
	if err != nil {
		return err
	}

	opts, err := extractorOptions(c, logger)
	if err != nil {
		return err
	}
	ext := readability.New(opts...)

	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if c.String("output") != "" && len(inputs) > 1 {
		logger.Warn().Msg("multiple inputs with a single output file, writing to stdout")
	}

	failed := 0
	for i, input := range inputs {
		if err := processInput(c, ext, format, input, i, len(inputs), logger); err != nil {
			logger.Error().Err(err).Str("input", input).Msg("extraction failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

func processInput(c *cli.Context, ext readability.Extractor, format OutputFormat, input string, index, total int, logger zerolog.Logger) error {
	ctx := c.Context
	var article *readability.Article
	var err error
	switch {
	case isURL(input):
		article, err = ext.ExtractFromURL(ctx, input)
	case input == "-":
		article, err = ext.ExtractFromReader(ctx, c.App.Reader, c.String("url"))
	default:
		var file *os.File
		file, err = os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		article, err = ext.ExtractFromReader(ctx, file, c.String("url"))
	}
	if err != nil {
		return err
	}
	if article.Error {
		logger.Warn().Str("input", input).Msg(article.Title)
	}

	data, err := render(article, format, c.Bool("compact"))
	if err != nil {
		return err
	}

	outputPath := ""
	switch {
	case c.String("output-dir") != "":
		dir := c.String("output-dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		outputPath = filepath.Join(dir, outputName(input, index)+format.extension())
	case c.String("output") != "" && total == 1:
		outputPath = c.String("output")
	}

	if outputPath == "" {
		if _, err := c.App.Writer.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info().Str("input", input).Str("output", outputPath).Msg("processed")
	return nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// outputName derives a file name for batch output: the input's base name
// without extension, or the last path segment of a URL.
func outputName(input string, index int) string {
	name := ""
	switch {
	case isURL(input):
		u, _ := url.Parse(input)
		name = filepath.Base(strings.TrimSuffix(u.Path, "/"))
		if name == "." || name == "/" || name == "" {
			name = u.Hostname()
		}
	case input == "-":
		name = "stdin"
	default:
		name = filepath.Base(input)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = fmt.Sprintf("article-%d", index+1)
	}
	return name
}

func render(article *readability.Article, format OutputFormat, compact bool) ([]byte, error) {
	switch format {
	case FormatHTML:
		return []byte(article.Content), nil
	case FormatText:
		text := extractors.PlainText(article.Content)
		if article.Title != "" {
			text = article.Title + "\n\n" + text
		}
		return []byte(strings.TrimSpace(text)), nil
	case FormatMarkdown:
		md, err := toMarkdown(article.Content)
		if err != nil {
			return nil, err
		}
		if article.Title != "" {
			md = "# " + article.Title + "\n\n" + md
		}
		return []byte(strings.TrimSpace(md)), nil
	default:
		if compact {
			return json.Marshal(article)
		}
		return json.MarshalIndent(article, "", "  ")
	}
}

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

func toMarkdown(content string) (string, error) {
	md, err := mdConverter.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return strings.TrimSpace(md), nil
}
