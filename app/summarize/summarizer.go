package summarize

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	DefaultSentences = 5
	minTextLength    = 200
)

type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) ([]byte, error)
}

type Summarizer struct {
	fetcher   HTMLFetcher
	sentences int
}

func NewSummarizer(fetcher HTMLFetcher, sentences int) *Summarizer {
	if sentences <= 0 {
		sentences = DefaultSentences
	}

	return &Summarizer{
		fetcher:   fetcher,
		sentences: sentences,
	}
}

// Summarize downloads the article behind link and reduces its main text to
// the highest scoring sentences, kept in their original order.
func (s *Summarizer) Summarize(ctx context.Context, link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("article has no link")
	}

	data, err := s.fetcher.FetchHTML(ctx, link)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}

	title, text, err := ExtractText(data, link)
	if err != nil {
		return "", err
	}

	summary := TopSentences(title, text, s.sentences)
	if summary == "" {
		return "", fmt.Errorf("no sentences found in article text")
	}

	slog.Debug("Article summarized", "url", link, "text_length", len(text), "summary_length", len(summary))

	return summary, nil
}

// ExtractText returns the article title and its plain main text.
func ExtractText(data []byte, pageURL string) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("HTML data is empty")
	}

	parsedURL, _ := url.Parse(pageURL)

	var title, text string
	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err == nil {
		title = strings.TrimSpace(article.Title)
		text = normalizeSpace(article.TextContent)
	} else {
		slog.Debug("Readability extraction failed, using paragraph fallback", "url", pageURL, "error", err)
	}

	if len(text) < minTextLength {
		fallbackTitle, paragraphs, perr := paragraphText(data)
		if perr != nil && text == "" {
			return "", "", fmt.Errorf("failed to extract content: %w", perr)
		}
		if len(paragraphs) > len(text) {
			text = paragraphs
		}
		if title == "" {
			title = fallbackTitle
		}
	}

	if text == "" {
		return "", "", fmt.Errorf("no content extracted from HTML data")
	}

	return title, text, nil
}

func paragraphText(data []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", "", err
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if p := normalizeSpace(sel.Text()); p != "" {
			parts = append(parts, p)
		}
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())

	return title, strings.Join(parts, " "), nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
