package feed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCatalog_EmbeddedProfiles(t *testing.T) {
	catalog := NewCatalog("")
	if err := catalog.Run(); err != nil {
		t.Fatalf("Failed to load embedded profiles: %v", err)
	}

	if catalog.GetProfileCount() < 7 {
		t.Errorf("Expected at least 7 providers, got %d", catalog.GetProfileCount())
	}

	profile, url, err := catalog.Resolve("cnbc", "technology")
	if err != nil {
		t.Fatalf("Expected cnbc/technology to resolve, got: %v", err)
	}

	if url != "https://www.cnbc.com/id/19854910/device/rss/rss.html" {
		t.Errorf("Unexpected URL: %s", url)
	}
	if profile.SourceID("technology") != "CNBC.investing_feeds.technology" {
		t.Errorf("Unexpected source id: %s", profile.SourceID("technology"))
	}

	yahoo, err := catalog.GetProfile("YAHOO")
	if err != nil {
		t.Fatalf("Expected provider lookup to be case-insensitive, got: %v", err)
	}
	if yahoo.ItemPath != ".//item" {
		t.Errorf("Expected yahoo descendant item path, got %s", yahoo.ItemPath)
	}
}

func TestCatalog_LookupErrors(t *testing.T) {
	catalog := NewCatalog("")
	if err := catalog.Run(); err != nil {
		t.Fatalf("Failed to load embedded profiles: %v", err)
	}

	_, _, err := catalog.Resolve("cnbc", "gardening")
	var lookupErr *CatalogLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("Expected *CatalogLookupError, got %v", err)
	}
	if lookupErr.Topic != "gardening" {
		t.Errorf("Expected topic in error, got %+v", lookupErr)
	}

	_, _, err = catalog.Resolve("bloomberg", "markets")
	if !errors.As(err, &lookupErr) {
		t.Fatalf("Expected *CatalogLookupError for unknown provider, got %v", err)
	}
}

func TestCatalog_DirectoryValidation(t *testing.T) {
	tempDir := t.TempDir()

	valid := `name: Example
url_template: "https://example.com/{topic_id}.rss"
namespaces: ["http://search.yahoo.com/mrss/"]
topics:
  markets: "mkt"
`
	if err := os.WriteFile(filepath.Join(tempDir, "example.yml"), []byte(valid), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	catalog := NewCatalog(tempDir)
	if err := catalog.Run(); err != nil {
		t.Fatalf("Expected valid profile to load, got: %v", err)
	}

	profile, err := catalog.GetProfile("example")
	if err != nil {
		t.Fatalf("Expected profile, got: %v", err)
	}
	if profile.Format != FormatRSS || profile.ItemPath != "./channel/item" || profile.FeedKind != DefaultFeedKind {
		t.Errorf("Expected defaults to be applied, got %+v", profile)
	}

	invalid := map[string]string{
		"format.yml":      "name: X\nformat: json\nurl_template: \"https://x/{topic_id}\"\ntopics: {a: b}\n",
		"placeholder.yml": "name: X\nurl_template: \"https://x/feed\"\ntopics: {a: b}\n",
		"path.yml":        "name: X\nurl_template: \"https://x/{topic_id}\"\nitem_path: \"./item[1]\"\ntopics: {a: b}\n",
		"topics.yml":      "name: X\nurl_template: \"https://x/{topic_id}\"\n",
		"name.yml":        "url_template: \"https://x/{topic_id}\"\ntopics: {a: b}\n",
	}

	for file, content := range invalid {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write profile: %v", err)
		}

		if err := NewCatalog(dir).Run(); err == nil {
			t.Errorf("Expected %s to be rejected", file)
		}
	}
}

func TestCatalog_EmptyDirectory(t *testing.T) {
	if err := NewCatalog(t.TempDir()).Run(); err == nil {
		t.Error("Expected an error for a directory without profiles")
	}
}
