package feed

import (
	"strings"
	"time"
)

const DefaultWindow = 24 * time.Hour

// Accepted publication timestamp layouts, tried in order. The single-digit
// day variants come last.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z",
	"Mon, 02 Jan 2006 15:04:05 MST",
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// Offsets in hours for zone abbreviations seen in feeds. Unlisted
// abbreviations parse with a zero offset.
var zoneOffsets = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"EST":  -5,
	"EDT":  -4,
	"CST":  -6,
	"CDT":  -5,
	"MST":  -7,
	"MDT":  -6,
	"PST":  -8,
	"PDT":  -7,
	"BST":  1,
	"CET":  1,
	"CEST": 2,
	"EET":  2,
	"EEST": 3,
	"MSK":  3,
	"IST":  5,
	"HKT":  8,
	"SGT":  8,
	"JST":  9,
	"AEST": 10,
	"AEDT": 11,
}

type FilterReport struct {
	Total       int
	Kept        int
	Stale       int
	Unparseable int
	Warnings    []Warning
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run keeps items published within [now-window, now], preserving input order.
// Items with unrecognized timestamps are dropped and reported.
func (f *Filterer) Run(items []RawItem, window time.Duration, now time.Time) ([]FilteredItem, FilterReport) {
	if window <= 0 {
		window = DefaultWindow
	}

	now = now.UTC()
	cutoff := now.Add(-window)

	report := FilterReport{Total: len(items)}
	filtered := make([]FilteredItem, 0, len(items))

	for _, item := range items {
		publishedAt, err := ParseTimestamp(item.PubDate)
		if err != nil {
			report.Unparseable++
			report.Warnings = append(report.Warnings, Warning{
				Stage:   StageTimestamp,
				Link:    item.Link,
				Title:   item.Title,
				Message: err.Error(),
			})
			continue
		}

		if publishedAt.Before(cutoff) || publishedAt.After(now) {
			report.Stale++
			continue
		}

		filtered = append(filtered, FilteredItem{RawItem: item, PublishedAt: publishedAt})
	}

	report.Kept = len(filtered)

	return filtered, report
}

func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &TimestampParseError{Raw: raw}
	}

	for _, layout := range timestampLayouts {
		// Parsing against UTC keeps abbreviations from resolving through time.Local.
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "MST") {
			t = applyZoneAbbreviation(t)
		}
		return t.UTC(), nil
	}

	return time.Time{}, &TimestampParseError{Raw: raw}
}

func applyZoneAbbreviation(t time.Time) time.Time {
	name, _ := t.Zone()
	hours, ok := zoneOffsets[name]
	if !ok {
		return t
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.FixedZone(name, hours*3600))
}
