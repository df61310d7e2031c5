package feed

import (
	"fmt"
)

type CatalogLookupError struct {
	Provider string
	Topic    string
	Reason   string
}

func (e *CatalogLookupError) Error() string {
	if e.Topic == "" {
		return fmt.Sprintf("catalog lookup failed for provider '%s': %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("catalog lookup failed for %s/%s: %s", e.Provider, e.Topic, e.Reason)
}

type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error for %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s feed: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type TimestampParseError struct {
	Raw string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("unrecognized timestamp '%s'", e.Raw)
}

type EnrichmentFailure struct {
	Stage WarningStage
	Link  string
	Err   error
}

func (e *EnrichmentFailure) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Link, e.Err)
}

func (e *EnrichmentFailure) Unwrap() error {
	return e.Err
}

type SinkWriteError struct {
	Path string
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("failed to write run output to %s: %v", e.Path, e.Err)
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}
