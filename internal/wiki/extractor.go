// internal/wiki/extractor.go
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// infoboxCap bounds the flattened infobox text
	infoboxCap = 1000
	// minParagraphChars filters out stub paragraphs in loose selection mode
	minParagraphChars = 50
	// defaultMaxPageSizeMB bounds how much of a page body is read
	defaultMaxPageSizeMB = 5

	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Options controls paragraph selection behaviour
type Options struct {
	// Paragraphs is the maximum number of leading paragraphs to keep
	Paragraphs int
	// StrictSelection keeps only paragraphs directly under the article
	// content container; otherwise any <p> longer than minParagraphChars
	StrictSelection bool
	// ReadabilityFallback extracts the readable article body when the
	// selectors match nothing
	ReadabilityFallback bool
	// MaxPageSizeMB caps the fetched body size (default 5)
	MaxPageSizeMB int
}

// Excerpt is the bounded text extracted from one article page
type Excerpt struct {
	URL        string
	Infobox    string
	Paragraphs []string
}

// Text returns the infobox summary prepended to the joined paragraphs
func (e *Excerpt) Text() string {
	body := strings.Join(e.Paragraphs, "\n")
	if e.Infobox == "" {
		return body
	}
	if body == "" {
		return e.Infobox
	}
	return e.Infobox + "\n" + body
}

// Empty reports whether the page yielded no usable text
func (e *Excerpt) Empty() bool {
	return e.Infobox == "" && len(e.Paragraphs) == 0
}

// Extractor fetches article pages and extracts bounded excerpts
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	opts       Options
}

// NewExtractor creates an extractor with the given selection options
func NewExtractor(timeout time.Duration, opts Options) *Extractor {
	if opts.Paragraphs <= 0 {
		opts.Paragraphs = 4
	}
	if opts.MaxPageSizeMB <= 0 {
		opts.MaxPageSizeMB = defaultMaxPageSizeMB
	}
	return &Extractor{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
		opts:      opts,
	}
}

// Extract fetches a page and returns its excerpt. A page with no matching
// paragraphs and no infobox yields an empty excerpt, not an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Excerpt, error) {
	html, err := e.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	return e.Parse(pageURL, html)
}

// fetchHTML retrieves HTML content from a URL
func (e *Extractor) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	// Read with size limit
	maxBytes := int64(e.opts.MaxPageSizeMB * 1024 * 1024)
	limitedReader := io.LimitReader(resp.Body, maxBytes)

	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	if int64(len(body)) >= maxBytes {
		return "", fmt.Errorf("content exceeds size limit of %dMB", e.opts.MaxPageSizeMB)
	}

	return string(body), nil
}

// Parse extracts the excerpt from raw article HTML
func (e *Extractor) Parse(pageURL, html string) (*Excerpt, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	excerpt := &Excerpt{
		URL:        pageURL,
		Infobox:    extractInfobox(doc),
		Paragraphs: e.selectParagraphs(doc),
	}

	if excerpt.Empty() && e.opts.ReadabilityFallback {
		if text := readableText(pageURL, html); text != "" {
			excerpt.Paragraphs = leadingParagraphs(text, e.opts.Paragraphs)
		}
	}

	return excerpt, nil
}

// extractInfobox flattens the first infobox table into a comma-joined
// summary capped at infoboxCap characters
func extractInfobox(doc *goquery.Document) string {
	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return ""
	}
	text := strings.ReplaceAll(infobox.Text(), "\n", ", ")
	if len(text) > infoboxCap {
		text = text[:infoboxCap]
	}
	return text
}

// selectParagraphs picks up to Paragraphs leading paragraph texts
func (e *Extractor) selectParagraphs(doc *goquery.Document) []string {
	var selection *goquery.Selection
	if e.opts.StrictSelection {
		selection = doc.Find("div.mw-parser-output > p")
	} else {
		selection = doc.Find("p")
	}

	pars := []string{}
	selection.EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		if !e.opts.StrictSelection && len(text) <= minParagraphChars {
			return true
		}
		pars = append(pars, text)
		return len(pars) < e.opts.Paragraphs
	})

	return pars
}

// readableText runs readability over the page and returns its text content
func readableText(pageURL, html string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// leadingParagraphs splits plain text into its first n non-empty blocks
func leadingParagraphs(text string, n int) []string {
	pars := []string{}
	for _, block := range strings.Split(text, "\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		pars = append(pars, block)
		if len(pars) == n {
			break
		}
	}
	return pars
}
