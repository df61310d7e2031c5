package output

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const finNamespace = "https://github.com/lysyi3m/fin-comb/ns/1.0"

// RSSEncoder renders a run as an RSS 2.0 channel. Enrichment fields go into
// the fin: namespace.
type RSSEncoder struct {
	version string
}

func NewRSSEncoder(version string) *RSSEncoder {
	return &RSSEncoder{version: version}
}

func (e *RSSEncoder) Encode(out *feed.RunOutput) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:fin="` + finNamespace + `">`)
	buf.WriteString("\n  <channel>\n")

	e.writeElement(&buf, "title", fmt.Sprintf("%s %s", out.SourceID, out.CreatedAt.Format("2006-01-02 15:04")), 4)
	e.writeElement(&buf, "description", fmt.Sprintf("Enriched %s articles for topic %s", out.Provider, out.Topic), 4)
	e.writeElement(&buf, "lastBuildDate", out.CreatedAt.Format(time.RFC1123Z), 4)
	e.writeElement(&buf, "generator", fmt.Sprintf("fin-comb/%s", cmp.Or(e.version, "dev")), 4)
	e.writeElement(&buf, "fin:runId", out.RunID, 4)

	for _, article := range out.Articles {
		e.writeItem(&buf, article)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.Bytes(), nil
}

func (e *RSSEncoder) writeItem(buf *bytes.Buffer, a feed.Article) {
	buf.WriteString("    <item>\n")

	e.writeElement(buf, "title", a.Title, 6)
	e.writeElement(buf, "link", a.Link, 6)
	if a.Link != "" {
		buf.WriteString("      <guid isPermaLink=\"true\">")
		xml.EscapeText(buf, []byte(a.Link))
		buf.WriteString("</guid>\n")
	}
	e.writeElement(buf, "description", a.Summary, 6)
	if !a.PublishedAt.IsZero() {
		e.writeElement(buf, "pubDate", a.PublishedAt.Format(time.RFC1123Z), 6)
	}
	e.writeElement(buf, "category", a.MarketUpdate, 6)

	if a.MediaURL != "" {
		buf.WriteString("      <media:content url=\"")
		xml.EscapeText(buf, []byte(a.MediaURL))
		buf.WriteString("\" />\n")
	}
	e.writeElement(buf, "media:credit", a.MediaCredit, 6)

	e.writeElement(buf, "fin:sourceId", a.SourceID, 6)
	e.writeElement(buf, "fin:topic", a.Topic, 6)
	if a.Sentiment.Label != "" {
		buf.WriteString("      <fin:sentiment score=\"" + strconv.FormatFloat(a.Sentiment.Score, 'f', 4, 64) + "\">")
		xml.EscapeText(buf, []byte(a.Sentiment.Label))
		buf.WriteString("</fin:sentiment>\n")
	}
	for _, ticker := range a.Tickers {
		e.writeElement(buf, "fin:ticker", ticker, 6)
	}
	for _, investorType := range a.InvestorTypes {
		e.writeElement(buf, "fin:investorType", investorType, 6)
	}
	if a.Degraded {
		e.writeElement(buf, "fin:degraded", "true", 6)
	}

	buf.WriteString("    </item>\n")
}

func (e *RSSEncoder) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
