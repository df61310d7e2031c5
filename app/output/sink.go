package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const (
	FormatJSON = "json"
	FormatRSS  = "rss"

	DefaultDir = "output"
)

// writeArtifact is swapped in tests to simulate a short write.
var writeArtifact = func(f *os.File, data []byte) error {
	_, err := f.Write(data)
	return err
}

type FileSink struct {
	dir     string
	format  string
	encoder *RSSEncoder
}

func NewFileSink(dir, format, version string) (*FileSink, error) {
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatRSS:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if dir == "" {
		dir = DefaultDir
	}

	return &FileSink{dir: dir, format: format, encoder: NewRSSEncoder(version)}, nil
}

// FileName is {provider}_investing_{topic}_{YYYYMMDD_HHMMSS}.{ext}, stamped with the run's creation time.
func (s *FileSink) FileName(out *feed.RunOutput) string {
	ext := "json"
	if s.format == FormatRSS {
		ext = "xml"
	}
	return fmt.Sprintf("%s_investing_%s_%s.%s", out.Provider, out.Topic, out.CreatedAt.UTC().Format("20060102_150405"), ext)
}

// Write creates a new artifact and never overwrites an existing one.
func (s *FileSink) Write(out *feed.RunOutput) (string, error) {
	path := filepath.Join(s.dir, s.FileName(out))

	data, err := s.encode(out)
	if err != nil {
		return "", &feed.SinkWriteError{Path: path, Err: err}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &feed.SinkWriteError{Path: path, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &feed.SinkWriteError{Path: path, Err: err}
	}

	// A failed write must not leave a partial artifact that blocks the next attempt.
	if err := writeArtifact(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return "", &feed.SinkWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", &feed.SinkWriteError{Path: path, Err: err}
	}

	slog.Info("Run output written", "path", path, "format", s.format, "articles", len(out.Articles))

	return path, nil
}

func (s *FileSink) encode(out *feed.RunOutput) ([]byte, error) {
	if s.format == FormatRSS {
		return s.encoder.Encode(out)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode run output: %w", err)
	}
	return append(data, '\n'), nil
}
