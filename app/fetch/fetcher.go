package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
)

const maxBodySize = 10 << 20

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	retry      RetryPolicy
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration, retry RetryPolicy) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		retry:      retry,
	}
}

// Fetch downloads a feed document. Failures are reported as *feed.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, "")
}

// FetchHTML downloads an article page and rejects non-HTML responses.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, "text/html")
}

func (f *Fetcher) get(ctx context.Context, url, wantType string) ([]byte, error) {
	if url == "" {
		return nil, &feed.TransportError{URL: url, Err: fmt.Errorf("empty URL")}
	}

	var data []byte
	attempt := 0

	err := retry(ctx, f.retry, func() error {
		attempt++
		var err error
		data, err = f.do(ctx, url, wantType)
		if err != nil {
			slog.Debug("Request failed", "url", url, "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		var transportErr *feed.TransportError
		if errors.As(err, &transportErr) {
			return nil, transportErr
		}
		return nil, &feed.TransportError{URL: url, Err: err}
	}

	return data, nil
}

func (f *Fetcher) do(ctx context.Context, url, wantType string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &feed.TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		transportErr := &feed.TransportError{URL: url, Err: fmt.Errorf("failed to fetch: %w", err)}
		if ctx.Err() != nil {
			return nil, transportErr
		}
		return nil, &retryableError{err: transportErr}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transportErr := &feed.TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %s", resp.Status),
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &retryableError{err: transportErr}
		}
		return nil, transportErr
	}

	if wantType != "" {
		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(contentType), wantType) {
			return nil, &feed.TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("content type is not %s: %s", wantType, contentType)}
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &feed.TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return data, nil
}
